package models

import (
	"errors"
	"fmt"
	"time"
)

// Candle represents a single weekly price bar
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume,omitempty"`
}

// Errors surfaced by the indicator and backtest layers. Insufficient history
// is a skip-and-continue condition; the other two are caller contract
// violations and fail fast.
var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrNoData              = errors.New("empty price series")
	ErrNotChronological    = errors.New("price series is not chronological")
)

// ValidateSeries checks the caller contract on a price history: non-empty,
// strictly increasing timestamps, no duplicates.
func ValidateSeries(candles []Candle) error {
	if len(candles) == 0 {
		return ErrNoData
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i].Timestamp.After(candles[i-1].Timestamp) {
			return fmt.Errorf("%w: bar %d (%s) not after bar %d (%s)",
				ErrNotChronological,
				i, candles[i].Timestamp.Format("2006-01-02"),
				i-1, candles[i-1].Timestamp.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close-price series from a candle sequence
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

// EMASet holds the three weekly EMA values at one evaluation bar
type EMASet struct {
	Fast float64 `json:"fast"`
	Mid  float64 `json:"mid"`
	Slow float64 `json:"slow"`
}

// LevelPair holds trailing support and resistance levels. Valid is false when
// there were not enough bars before the evaluation bar to derive them.
type LevelPair struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
	Valid      bool    `json:"valid"`
}

// SignalResult is the classification of one instrument at one evaluation bar
type SignalResult struct {
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Signal    Signal    `json:"signal"`
	Reason    string    `json:"reason"`
	Price     float64   `json:"price"`
	EMAs      EMASet    `json:"emas"`
	Levels    LevelPair `json:"levels"`
}

// Snapshot is the artifact of one scan run: one SignalResult per classified
// instrument. Snapshots are append-only, identified by market and date; the
// transition detector only ever reads them.
type Snapshot struct {
	Market  string                  `json:"market"`
	AsOf    time.Time               `json:"as_of"`
	Results map[string]SignalResult `json:"results"`
}

// TransitionRecord is a week-over-week state change labeled with an action
type TransitionRecord struct {
	Symbol    string    `json:"symbol"`
	Previous  Signal    `json:"previous"`
	Current   Signal    `json:"current"`
	Action    Action    `json:"action"`
	Notes     string    `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
}
