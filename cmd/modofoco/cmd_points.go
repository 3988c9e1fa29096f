package main

import (
	"fmt"
	"sort"

	"modofoco/internal/gamification"

	"github.com/spf13/cobra"
)

// pointsCmd prints the user's points
var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Show total focus points, level and breakdown",
	RunE:  runPoints,
}

func runPoints(cmd *cobra.Command, args []string) error {
	ledger, err := gamification.NewLedger(cfg.Points.LedgerPath)
	if err != nil {
		return err
	}
	stats := ledger.Stats(cfg.User.ID)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usuário: %s\n", stats.UserID)
	fmt.Fprintf(out, "Total:   %d FP\n", stats.Total)
	fmt.Fprintf(out, "Nível:   %d (próximo em %d FP)\n", stats.Level, stats.NextLevelAt)

	reasons := make([]string, 0, len(stats.ByReason))
	for r := range stats.ByReason {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(out, "  %-16s %5d\n", r, stats.ByReason[r])
	}
	return nil
}
