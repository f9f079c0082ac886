package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"registro/internal/core"
	"registro/internal/storage"
)

var (
	exportFormat   string
	exportOutput   string
	exportMonth    string
	exportCategory string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export expense records",
	Long:  `Export prints the stored expense records, newest first. The json format is the exact slot document and round-trips through import; csv is for spreadsheets.`,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or csv")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringVarP(&exportMonth, "month", "m", "", "Only records in this month (YYYY-MM)")
	exportCmd.Flags().StringVarP(&exportCategory, "category", "c", "", "Only records with this category")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.cleanup() }()

	records := sess.service.List(ctx, core.Filter{Month: exportMonth, Category: exportCategory})

	var out io.Writer = os.Stdout
	if exportOutput != "" {
		file, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	switch exportFormat {
	case "json":
		document, err := storage.EncodeRecords(records)
		if err != nil {
			return fmt.Errorf("encode records: %w", err)
		}
		if _, err := fmt.Fprintln(out, document); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	case "csv":
		if err := writeCSV(out, records); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q: use json or csv", exportFormat)
	}

	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported %d records to %s\n", len(records), exportOutput)
	}
	return nil
}

func writeCSV(out io.Writer, records []core.Expense) error {
	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"date", "description", "category", "amount", "note"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range records {
		row := []string{
			e.Date.String(),
			e.Description,
			e.Category,
			decimal.New(e.Amount.Cents, -2).StringFixed(2),
			e.Note,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
