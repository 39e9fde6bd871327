// Package output renders command results for the terminal. Every command
// writes through one Formatter so the display format flag and quiet mode
// behave the same everywhere.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Format selects how structured results are displayed.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat resolves the --display flag value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("invalid display format: %s (valid: table, json, yaml)", s)
}

// Formatter writes command results. Quiet suppresses everything except
// errors and raw content the command writes to Writer itself.
type Formatter struct {
	Format Format
	Quiet  bool
	Writer io.Writer
}

// NewFormatter creates a formatter writing to stdout.
func NewFormatter(format Format, quiet bool) *Formatter {
	return &Formatter{Format: format, Quiet: quiet, Writer: os.Stdout}
}

// Print renders any value in the selected format. Table mode has no generic
// rendering for nested values, so it falls back to indented JSON.
func (f *Formatter) Print(data interface{}) error {
	if f.Quiet {
		return nil
	}

	if f.Format == FormatYAML {
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		defer func() { _ = enc.Close() }()
		return enc.Encode(data)
	}

	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// TableData is a rendered table: a header row and the body rows.
type TableData struct {
	Headers []string
	Rows    [][]string
}

// PrintTable renders rows as an aligned table. In json/yaml mode the rows
// become a list of objects keyed by the lowercased headers, so scripted
// callers get the same fields the table shows.
func (f *Formatter) PrintTable(data TableData) {
	if f.Quiet {
		return
	}

	if f.Format != FormatTable {
		_ = f.Print(rowsAsObjects(data))
		return
	}

	table := newTable(f.Writer)
	if len(data.Headers) > 0 {
		table.SetHeader(data.Headers)
	}
	table.AppendBulk(data.Rows)
	table.Render()
}

func rowsAsObjects(data TableData) []map[string]string {
	keys := make([]string, len(data.Headers))
	for i, h := range data.Headers {
		keys[i] = strings.ToLower(h)
	}

	objects := make([]map[string]string, len(data.Rows))
	for i, row := range data.Rows {
		obj := make(map[string]string, len(keys))
		for j, cell := range row {
			if j < len(keys) {
				obj[keys[j]] = cell
			}
		}
		objects[i] = obj
	}
	return objects
}

// newTable configures the borderless tab-padded style used everywhere.
func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	return table
}

// PrintSuccess prints a completion message, silenced by quiet.
func (f *Formatter) PrintSuccess(message string) {
	if f.Quiet {
		return
	}
	fmt.Fprintln(f.Writer, message)
}

// PrintError prints an error line to stderr. Never silenced.
func (f *Formatter) PrintError(message string) {
	fmt.Fprintln(os.Stderr, "Error:", message)
}

// PrintKeyValue prints one configuration-style line.
func (f *Formatter) PrintKeyValue(key, value string) {
	if f.Quiet {
		return
	}

	switch f.Format {
	case FormatJSON, FormatYAML:
		_ = f.Print(map[string]string{key: value})
	default:
		fmt.Fprintf(f.Writer, "%s: %s\n", key, value)
	}
}
