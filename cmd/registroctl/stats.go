package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"registro/internal/core"
)

var statsMonth string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print summary figures for the stored records",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsMonth, "month", "m", "", "Month to summarize (YYYY-MM, default: all records)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sess.cleanup() }()

	summary := sess.service.Overview(ctx, core.Filter{Month: statsMonth})

	scope := "all records"
	if statsMonth != "" {
		scope = statsMonth
	}
	fmt.Printf("Summary (%s)\n", scope)
	fmt.Printf("  Records:        %d\n", summary.Count)
	fmt.Printf("  Total:          %s\n", euros(summary.Total))
	fmt.Printf("  Daily average:  %s\n", euros(summary.DailyAverage))
	if summary.TopCategory != nil {
		fmt.Printf("  Top category:   %s (%s)\n", summary.TopCategory.Name, euros(summary.TopCategory.Amount))
	}
	if len(summary.ByCategory) > 0 {
		fmt.Println("  By category:")
		for _, ct := range summary.ByCategory {
			fmt.Printf("    %-15s %12s\n", ct.Name, euros(ct.Amount))
		}
	}
	return nil
}

func euros(m core.Money) string {
	return decimal.New(m.Cents, -2).StringFixed(2) + " €"
}
