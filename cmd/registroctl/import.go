package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"registro/internal/storage"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import <json-file>",
	Short: "Import expense records from a JSON export",
	Long: `Import reads a JSON array of expense records (the export format) and replaces the slot contents with it. Malformed entries are dropped and reported, same as at server startup.

A concurrently running server overwrites the import on its next write, so stop it first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Decode and report without writing")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input file: %w", err)
	}

	records, dropped, err := storage.DecodeRecords(string(data))
	if err != nil {
		return fmt.Errorf("decode input: %w", err)
	}

	if importDryRun {
		fmt.Fprintf(os.Stderr, "Dry run: %d records valid, %d dropped, nothing written\n", len(records), dropped)
		return nil
	}

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.cleanup() }()

	previous := sess.store.Len()
	if err := sess.bridge.Save(ctx, records); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Imported %d records (%d dropped), replaced %d\n", len(records), dropped, previous)
	return nil
}
