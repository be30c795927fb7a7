package main

import (
	"context"
	"fmt"
	"strconv"

	"calcnerd/cmd/calc/ui"
	"calcnerd/internal/engine"
	"calcnerd/internal/export"
	"calcnerd/internal/metrics"

	"github.com/spf13/cobra"
)

var exportTarget string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect, clear or export calculation history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List retained calculations, oldest first",
	Args:  cobra.NoArgs,
	RunE:  listHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every history entry",
	Args:  cobra.NoArgs,
	RunE:  clearHistory,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write history as text to a file or S3",
	Long: `Writes one "<expression> = <result>" line per entry.

--to accepts a directory, a .txt file path or s3://bucket/prefix. Without
--to the configured export bucket is used when set, the export directory
otherwise.`,
	Args: cobra.NoArgs,
	RunE: exportHistory,
}

func init() {
	historyExportCmd.Flags().StringVar(&exportTarget, "to", "", "Destination: directory, file.txt or s3://bucket/prefix")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
}

func listHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	entries, err := sess.recorder.List(ctx)
	if err != nil {
		return err
	}
	sess.metrics.SetHistoryEntries(len(entries))
	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}

	table := ui.NewSimpleTable(fmt.Sprintf("History (%d of %d)", len(entries), sess.recorder.Limit()),
		[]string{"#", "Expression", "Result", "When"})
	for i, e := range entries {
		table.AddRow(
			strconv.Itoa(i+1),
			e.Expr,
			engine.FormatResult(e.Result),
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		)
	}
	fmt.Println(table.View(ui.StylesFor(cfg.UI.Theme)))
	return nil
}

func clearHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.recorder.Clear(ctx); err != nil {
		return err
	}
	sess.metrics.SetHistoryEntries(0)
	fmt.Println("History cleared.")
	return nil
}

func exportHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.close()

	entries, err := sess.recorder.List(ctx)
	if err != nil {
		return err
	}
	sink, name, err := export.Resolve(ctx, exportTarget, cfg.Export)
	if err != nil {
		sess.metrics.Count(metrics.KindExport, "history", "error")
		return err
	}
	location, err := export.History(ctx, sink, name, entries)
	if err != nil {
		sess.metrics.Count(metrics.KindExport, "history", "error")
		return fmt.Errorf("export failed: %w", err)
	}
	sess.metrics.Count(metrics.KindExport, "history", "ok")
	fmt.Printf("Exported %d entries to %s\n", len(entries), location)
	return nil
}
