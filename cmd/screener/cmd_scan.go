package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/Screener/config"
	"github.com/Alias1177/Screener/internal/database"
	"github.com/Alias1177/Screener/internal/notify"
	"github.com/Alias1177/Screener/internal/report"
	"github.com/Alias1177/Screener/internal/scanner"
	"github.com/Alias1177/Screener/internal/snapshot"
	"github.com/Alias1177/Screener/internal/transition"
	"github.com/Alias1177/Screener/models"
)

// scanCmd runs the live classification over the selected universe
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a market universe and record this week's signals",
	Long: `Fetches the weekly history for every instrument of the selected
universe, classifies each into its trend state, writes the dated scan log
and snapshot, and diffs against the previous snapshot into an actions CSV.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.TwelveAPIKey == "" {
		return fmt.Errorf("TWELVE_API_KEY is not set")
	}

	marketName, market, err := selectMarket(cfg)
	if err != nil {
		return err
	}

	asOf := time.Now().UTC()
	ctx := context.Background()

	log.Info().
		Str("market", marketName).
		Int("instruments", len(market.Symbols)).
		Float64("delay_sec", cfg.RequestDelaySec).
		Msg("Starting scan")

	outcome := newScanner(cfg, newProvider(cfg)).Run(ctx, marketName, market, asOf)

	if err := writeScanLog(cfg, marketName, market.Currency, asOf, outcome); err != nil {
		return err
	}

	store, err := snapshot.NewStore(cfg.SnapshotDir)
	if err != nil {
		return err
	}
	if _, err := store.Save(outcome.Snapshot); err != nil {
		return err
	}

	if cfg.ArchiveEnabled() {
		archiveSnapshot(cfg, outcome.Snapshot)
	}

	prior, err := store.Prior(marketName, asOf)
	if err != nil {
		return err
	}
	transitions := transition.Detect(prior, outcome.Snapshot)

	if _, err := report.WriteActionsCSV(cfg.ReportDir, marketName, asOf, transitions); err != nil {
		return err
	}
	notifyTransitions(cfg, marketName, transitions)

	printScanSummary(marketName, market.Currency, outcome, transitions)
	return nil
}

// writeScanLog produces the dated per-run log, one line per classified
// instrument in symbol order.
func writeScanLog(cfg *config.Config, marketName, currency string, asOf time.Time, outcome scanner.Outcome) error {
	scanLog, err := report.NewScanLog(cfg.LogDir, marketName, currency, asOf)
	if err != nil {
		return err
	}
	defer scanLog.Close()

	for _, r := range sortedResults(outcome.Snapshot) {
		if err := scanLog.WriteResult(r); err != nil {
			return fmt.Errorf("writing scan log: %w", err)
		}
	}
	if err := scanLog.WriteSummary(outcome.Counts, outcome.Errors); err != nil {
		return fmt.Errorf("writing scan log summary: %w", err)
	}

	log.Info().Str("path", scanLog.Path()).Msg("Scan log written")
	return nil
}

func archiveSnapshot(cfg *config.Config, snap *models.Snapshot) {
	db, err := database.New(database.ConnectionParams{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Postgres archive unavailable, skipping")
		return
	}
	defer db.Close()

	if err := db.ArchiveSnapshot(snap); err != nil {
		log.Warn().Err(err).Msg("Failed to archive scan results")
	}
}

func notifyTransitions(cfg *config.Config, marketName string, transitions []models.TransitionRecord) {
	if !cfg.TelegramEnabled() || len(transitions) == 0 {
		return
	}
	notifier, err := notify.NewNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	if err != nil {
		log.Warn().Err(err).Msg("Telegram notifier unavailable, skipping")
		return
	}
	if err := notifier.SendTransitions(marketName, transitions); err != nil {
		log.Warn().Err(err).Msg("Failed to send Telegram alert")
	}
}

func printScanSummary(marketName, currency string, outcome scanner.Outcome, transitions []models.TransitionRecord) {
	fmt.Printf("\n%s\n  ANALYSIS RESULTS — %s\n%s\n", divider, marketName, divider)

	order := []struct {
		signal models.Signal
		title  string
	}{
		{models.SignalBullish, "BULLISH SIGNALS (Buy candidates)"},
		{models.SignalExit, "EXIT SIGNALS (Sell candidates)"},
		{models.SignalCautious, "CAUTIOUS (Reduce exposure)"},
		{models.SignalFading, "MOMENTUM FADING"},
		{models.SignalHoldAdd, "MAINTAIN / ADD (Strong positions)"},
		{models.SignalWait, "WAIT / WATCH (Consolidating)"},
	}

	grouped := make(map[models.Signal][]models.SignalResult)
	for _, r := range sortedResults(outcome.Snapshot) {
		grouped[r.Signal] = append(grouped[r.Signal], r)
	}

	for _, entry := range order {
		results := grouped[entry.signal]
		if len(results) == 0 {
			continue
		}
		fmt.Printf("\n%s %s:\n", entry.signal.Emoji(), entry.title)
		for _, r := range results {
			fmt.Printf("  %-15s %s%10.2f  %s\n", r.Symbol, currency, r.Price, r.Reason)
		}
	}

	fmt.Printf("\n%s\n  Total Analyzed: %d | Errors/Skipped: %d | Transitions: %d\n%s\n",
		divider, len(outcome.Snapshot.Results), outcome.Errors, len(transitions), divider)
}

func sortedResults(snap *models.Snapshot) []models.SignalResult {
	results := make([]models.SignalResult, 0, len(snap.Results))
	for _, r := range snap.Results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Symbol < results[j].Symbol })
	return results
}

const divider = "======================================================================"
