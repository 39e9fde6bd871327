package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doclens-app/doclens/cli/output"
	"github.com/doclens-app/doclens/cli/util"
	"github.com/doclens-app/doclens/internal/ingest"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file...]",
	Short: "Show file metadata without calling the model",
	Long: `Classify files and report offline metadata: kind, MIME type, size and
format details (page count, image dimensions, sheet names, word count).
No network request is made.

Examples:
  doclens inspect scan.pdf
  doclens inspect --display json *.docx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	out := GetFormatter()

	infos := make([]*ingest.Info, 0, len(args))
	failed := 0
	for _, path := range args {
		info, err := ingest.Inspect(path)
		if err != nil {
			out.PrintError(fmt.Sprintf("%s: %v", path, err))
			failed++
			continue
		}
		infos = append(infos, info)
	}

	if len(infos) > 0 {
		if out.Format == output.FormatTable {
			printInspectTable(out, infos)
		} else {
			_ = out.Print(infos)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func printInspectTable(out *output.Formatter, infos []*ingest.Info) {
	table := output.TableData{
		Headers: []string{"NAME", "KIND", "MIME", "SIZE", "DETAILS"},
	}
	for _, info := range infos {
		table.Rows = append(table.Rows, []string{
			info.Name,
			string(info.Kind),
			info.MIME,
			util.FormatBytes(info.Size),
			inspectDetails(info),
		})
	}
	out.PrintTable(table)
}

// inspectDetails condenses the kind-specific fields into one cell.
func inspectDetails(info *ingest.Info) string {
	var parts []string

	if info.Pages > 0 {
		parts = append(parts, fmt.Sprintf("%d pages", info.Pages))
	}
	if info.Encrypted {
		parts = append(parts, "encrypted")
	}
	if info.Width > 0 && info.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", info.Width, info.Height))
	}
	if len(info.Sheets) > 0 {
		parts = append(parts, fmt.Sprintf("%d sheets", len(info.Sheets)))
	}
	if info.Chapters > 0 {
		parts = append(parts, fmt.Sprintf("%d chapters", info.Chapters))
	}
	if info.Words > 0 {
		parts = append(parts, fmt.Sprintf("%d words", info.Words))
	}

	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
