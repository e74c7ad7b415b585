// Package scanner runs the classification across a whole market universe:
// fetch per instrument, classify, assemble the run snapshot. Classification
// is pure per instrument, so instruments fan out to independent workers and
// merge in a single step at the end.
package scanner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Screener/internal/indicator"
	"github.com/Alias1177/Screener/internal/rules"
	"github.com/Alias1177/Screener/internal/universe"
	"github.com/Alias1177/Screener/models"
)

// Provider supplies pre-validated weekly price histories. The scanner never
// performs network I/O itself.
type Provider interface {
	WeeklyCandles(ctx context.Context, symbol, exchange string, years int) ([]models.Candle, error)
}

// Options configures one scan run
type Options struct {
	Windows       indicator.EMAWindows
	LevelLookback int
	LevelMode     indicator.LevelMode
	HistoryYears  int
	Workers       int
}

// Outcome is the result of scanning one universe
type Outcome struct {
	Snapshot *models.Snapshot
	Counts   map[models.Signal]int
	Errors   int
}

// Scanner classifies every instrument of a market
type Scanner struct {
	provider Provider
	opts     Options
	logger   zerolog.Logger
}

// New creates a Scanner. Zero worker count defaults to 4.
func New(provider Provider, opts Options) *Scanner {
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	if opts.HistoryYears < 1 {
		opts.HistoryYears = 2
	}
	return &Scanner{
		provider: provider,
		opts:     opts,
		logger:   log.With().Str("component", "scanner").Logger(),
	}
}

// Run scans the market and builds its snapshot. Per-instrument failures
// (provider errors, insufficient history) are logged and skipped; the
// instrument is simply absent from the snapshot mapping.
func (s *Scanner) Run(ctx context.Context, marketName string, market universe.Market, asOf time.Time) Outcome {
	jobs := make(chan string)

	// Per-worker accumulation, single merge afterwards. No shared mutable
	// state between instruments.
	perWorker := make([][]models.SignalResult, s.opts.Workers)
	failures := make([]int, s.opts.Workers)

	var wg sync.WaitGroup
	for w := 0; w < s.opts.Workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for symbol := range jobs {
				result, err := s.scanOne(ctx, symbol, market.Exchange)
				if err != nil {
					failures[w]++
					continue
				}
				perWorker[w] = append(perWorker[w], result)
			}
		}(w)
	}

	for _, symbol := range market.Symbols {
		select {
		case jobs <- symbol:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	snap := &models.Snapshot{
		Market:  marketName,
		AsOf:    asOf,
		Results: make(map[string]models.SignalResult, len(market.Symbols)),
	}
	counts := make(map[models.Signal]int)
	errorCount := 0
	for w := range perWorker {
		for _, r := range perWorker[w] {
			snap.Results[r.Symbol] = r
			counts[r.Signal]++
		}
		errorCount += failures[w]
	}

	s.logger.Info().
		Str("market", marketName).
		Int("classified", len(snap.Results)).
		Int("errors", errorCount).
		Msg("Scan complete")

	return Outcome{Snapshot: snap, Counts: counts, Errors: errorCount}
}

// scanOne fetches and classifies a single instrument
func (s *Scanner) scanOne(ctx context.Context, symbol, exchange string) (models.SignalResult, error) {
	candles, err := s.provider.WeeklyCandles(ctx, symbol, exchange, s.opts.HistoryYears)
	if err != nil {
		s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Fetch failed, skipping")
		return models.SignalResult{}, err
	}

	result, err := rules.Analyze(symbol, candles, s.opts.Windows, s.opts.LevelLookback, s.opts.LevelMode)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientHistory) {
			s.logger.Warn().Str("symbol", symbol).Msg("Insufficient history for analysis, skipping")
		} else {
			s.logger.Warn().Str("symbol", symbol).Err(err).Msg("Analysis failed, skipping")
		}
		return models.SignalResult{}, err
	}
	return result, nil
}
