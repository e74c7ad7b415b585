package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/Screener/config"
	"github.com/Alias1177/Screener/internal/report"
	"github.com/Alias1177/Screener/internal/snapshot"
	"github.com/Alias1177/Screener/internal/transition"
)

// evaluateCmd re-runs transition detection on existing snapshots
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Re-run transition detection without rescanning",
	Long: `Diffs the two most recent snapshots for the market and regenerates
the actions CSV. No provider calls, no reclassification.`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := snapshot.NewStore(cfg.SnapshotDir)
	if err != nil {
		return err
	}

	current, err := store.Latest(flagMarket)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("no snapshots found for market %q, run a scan first", flagMarket)
	}

	prior, err := store.Prior(flagMarket, current.AsOf)
	if err != nil {
		return err
	}
	if prior == nil {
		log.Info().Str("market", flagMarket).Msg("No prior snapshot, zero transitions (cold start)")
	}

	transitions := transition.Detect(prior, current)
	path, err := report.WriteActionsCSV(cfg.ReportDir, flagMarket, current.AsOf, transitions)
	if err != nil {
		return err
	}
	notifyTransitions(cfg, flagMarket, transitions)

	fmt.Printf("\n  %d transition(s) for %s as of %s\n", len(transitions), flagMarket, current.AsOf.Format("02-01-2006"))
	for _, t := range transitions {
		fmt.Printf("  %-12s | %-15s | %s → %s\n", t.Action, t.Symbol, t.Previous, t.Current)
	}
	if path != "" {
		fmt.Printf("\n  Report: %s\n", path)
	}
	return nil
}
