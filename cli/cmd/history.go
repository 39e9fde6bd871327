package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doclens-app/doclens/cli/output"
	"github.com/doclens-app/doclens/cli/util"
	"github.com/doclens-app/doclens/internal/config"
	"github.com/doclens-app/doclens/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs",
	Long: `Show past analysis runs, newest first. Only runs that reached the model
are recorded; files rejected before the request are not.

Examples:
  doclens history
  doclens history --limit 10
  doclens history --display json`,
	RunE: runHistoryList,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the run history",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20,
		"maximum entries to show (0 for all)")

	historyCmd.AddCommand(historyClearCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	dir, err := config.DataDir()
	if err != nil {
		return err
	}

	entries, err := history.NewStore(dir).List(historyLimit)
	if err != nil {
		return err
	}

	out := GetFormatter()
	if out.Format != output.FormatTable {
		return out.Print(entries)
	}

	if len(entries) == 0 {
		out.PrintSuccess("No recorded runs")
		return nil
	}

	table := output.TableData{
		Headers: []string{"TIME", "FILE", "MODE", "LANG", "STATUS", "OUTPUT"},
	}
	for _, entry := range entries {
		table.Rows = append(table.Rows, []string{
			entry.Time.Local().Format("2006-01-02 15:04"),
			util.TruncateString(entry.File, 40),
			entry.Mode,
			entry.Language,
			historyStatus(entry),
			util.TruncateString(entry.OutputPath, 40),
		})
	}
	out.PrintTable(table)

	return nil
}

func historyStatus(entry history.Entry) string {
	if entry.OK {
		return fmt.Sprintf("ok (%d tokens, %s)", entry.Tokens, entry.Elapsed.Round(time.Millisecond))
	}
	return "failed: " + util.TruncateString(entry.Error, 40)
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	if util.IsInteractive() {
		ok, err := util.Confirm("Delete all recorded runs?", false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	dir, err := config.DataDir()
	if err != nil {
		return err
	}

	if err := history.NewStore(dir).Clear(); err != nil {
		return err
	}

	GetFormatter().PrintSuccess("History cleared")
	return nil
}
