package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"spl2cql/internal/history"
	"spl2cql/internal/translate"
)

var (
	batchOut        string
	batchHistoryOut string
)

// batchCmd converts every query in a CSV file.
var batchCmd = &cobra.Command{
	Use:   "batch <input.csv>",
	Short: "Translate a CSV of SPL queries to CQL",
	Long: `Reads a CSV file with an spl_query column (use_case_name and
description columns are optional context) and translates every row.
Rows that fail - validation, transport or parse - are reported in the
results with their error detail; a failed row never stops the batch.

Results are written as CSV to --out (default: stdout).`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "write results CSV to a file instead of stdout")
	batchCmd.Flags().StringVar(&batchHistoryOut, "history-out", "", "also export the full session history CSV to a file")
}

func runBatch(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open batch input: %w", err)
	}
	defer in.Close()

	records, err := translate.ReadRecords(in)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("batch input has no rows")
	}

	store, _, runner := newSession()
	results := runner.Run(cmd.Context(), records)

	succeeded := 0
	for _, res := range results {
		if res.Succeeded() {
			succeeded++
		}
	}
	fmt.Fprintf(os.Stderr, "processed %d queries: %d succeeded, %d failed\n",
		len(results), succeeded, len(results)-succeeded)

	var out io.Writer = os.Stdout
	if batchOut != "" {
		f, err := os.Create(batchOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := history.ExportResults(out, records, results); err != nil {
		return err
	}

	if batchHistoryOut != "" {
		f, err := os.Create(batchHistoryOut)
		if err != nil {
			return fmt.Errorf("failed to create history file: %w", err)
		}
		defer f.Close()
		if err := store.ExportHistory(f); err != nil {
			return err
		}
	}
	return nil
}
