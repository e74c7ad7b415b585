// Package backtest replays the TA rules classifier over a trailing window of
// weekly bars, one bar at a time, with no look-ahead.
package backtest

import (
	"fmt"

	"github.com/Alias1177/Screener/internal/indicator"
	"github.com/Alias1177/Screener/internal/rules"
	"github.com/Alias1177/Screener/models"
)

// Config holds the simulator parameters
type Config struct {
	Windows       indicator.EMAWindows
	LevelLookback int
	LevelMode     indicator.LevelMode
	HorizonWeeks  int
}

// Simulator walks one instrument's history forward bar by bar, classifying
// each bar using only the bars up to and including it. It is a restartable
// finite iterator; Run materializes the remaining sequence.
type Simulator struct {
	symbol  string
	candles []models.Candle
	cfg     Config
	start   int
	pos     int
}

// NewSimulator validates the series and positions the walk at the start of
// the horizon. A horizon longer than the available history is truncated to
// the earliest bar with a full slow-EMA window rather than failing.
func NewSimulator(symbol string, candles []models.Candle, cfg Config) (*Simulator, error) {
	if err := models.ValidateSeries(candles); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	if cfg.HorizonWeeks < 1 {
		cfg.HorizonWeeks = 52
	}
	if len(candles) < cfg.Windows.Slow {
		return nil, fmt.Errorf("%s: %w: need %d weekly bars, got %d",
			symbol, models.ErrInsufficientHistory, cfg.Windows.Slow, len(candles))
	}

	start := len(candles) - cfg.HorizonWeeks
	if start < cfg.Windows.Slow-1 {
		start = cfg.Windows.Slow - 1
	}

	return &Simulator{
		symbol:  symbol,
		candles: candles,
		cfg:     cfg,
		start:   start,
		pos:     start,
	}, nil
}

// Next classifies the next bar of the horizon. The second return is false
// once the history is exhausted.
func (s *Simulator) Next() (models.SignalResult, bool) {
	if s.pos >= len(s.candles) {
		return models.SignalResult{}, false
	}

	window := s.candles[:s.pos+1]
	emas, err := indicator.EMASetAt(window, s.cfg.Windows)
	if err != nil {
		// start index guarantees a full slow window; only reachable on a
		// zero-value Simulator
		return models.SignalResult{}, false
	}
	levels := indicator.LevelsAt(window, s.cfg.LevelLookback, s.cfg.LevelMode)

	bar := window[len(window)-1]
	result := rules.Evaluate(s.symbol, bar.Timestamp, bar.Close, emas, levels)
	s.pos++
	return result, true
}

// Reset rewinds the walk to the start of the horizon
func (s *Simulator) Reset() { s.pos = s.start }

// Run materializes the remaining classification sequence in chronological
// order. Deterministic for identical inputs.
func (s *Simulator) Run() []models.SignalResult {
	var results []models.SignalResult
	for {
		r, ok := s.Next()
		if !ok {
			return results
		}
		results = append(results, r)
	}
}
