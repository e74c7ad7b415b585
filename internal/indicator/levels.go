package indicator

import "github.com/Alias1177/Screener/models"

// LevelMode selects which prices the level engine takes its extrema from
type LevelMode string

const (
	// LevelModeHighLow derives resistance from highs and support from lows
	LevelModeHighLow LevelMode = "highlow"
	// LevelModeClose derives both levels from closes only
	LevelModeClose LevelMode = "close"
)

// DefaultLevelLookback is the trailing window for support/resistance, one
// year of weekly bars. The exact window is not pinned down by the source
// methodology, so it stays configurable.
const DefaultLevelLookback = 52

// LevelsAt derives trailing support and resistance for the final bar of the
// series. Only bars strictly before that bar participate, so a breakout on
// the bar being classified never feeds its own level. With fewer than two
// prior bars in the window the pair is reported invalid and no breakout can
// fire.
func LevelsAt(candles []models.Candle, lookback int, mode LevelMode) models.LevelPair {
	if lookback < 1 || len(candles) < 3 {
		return models.LevelPair{}
	}

	end := len(candles) - 1 // exclude evaluation bar
	start := end - lookback
	if start < 0 {
		start = 0
	}
	window := candles[start:end]
	if len(window) < 2 {
		return models.LevelPair{}
	}

	var support, resistance float64
	for i, c := range window {
		lo, hi := c.Low, c.High
		if mode == LevelModeClose {
			lo, hi = c.Close, c.Close
		}
		if i == 0 || lo < support {
			support = lo
		}
		if i == 0 || hi > resistance {
			resistance = hi
		}
	}

	return models.LevelPair{Support: support, Resistance: resistance, Valid: true}
}

// BrokeSupport reports whether price closed below the trailing support
func BrokeSupport(levels models.LevelPair, price float64) bool {
	return levels.Valid && price < levels.Support
}

// BrokeResistance reports whether price closed above the trailing resistance
func BrokeResistance(levels models.LevelPair, price float64) bool {
	return levels.Valid && price > levels.Resistance
}
