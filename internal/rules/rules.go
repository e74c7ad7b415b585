// Package rules implements the weekly EMA TA-rules decision tree.
//
// Flowchart:
//
//  1. Are EMAs converging? (YES branch)
//     ├─ Broke support    → EXIT
//     ├─ Broke resistance → BULLISH
//     └─ No breakout      → WAIT
//
//  2. Are EMAs converging? (NO branch)
//     ├─ Below 40W EMA → EXIT
//     ├─ Below 20W EMA → CAUTIOUS
//     ├─ Below 10W EMA → FADING
//     └─ Above all     → HOLD_ADD
package rules

import (
	"time"

	"github.com/Alias1177/Screener/internal/indicator"
	"github.com/Alias1177/Screener/models"
)

// ConvergenceThreshold is the maximum spread between the three EMAs, relative
// to the smallest, for them to count as converging. Inclusive boundary: a
// spread of exactly 3% still converges.
const ConvergenceThreshold = 0.03

// Converging reports whether the three EMAs sit within the convergence band.
// Symmetric in its arguments: only the min and max of the set matter.
func Converging(emas models.EMASet, threshold float64) bool {
	min, max := emas.Fast, emas.Fast
	for _, v := range []float64{emas.Mid, emas.Slow} {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min <= 0 {
		return false
	}
	return (max-min)/min <= threshold
}

// Evaluate maps one instrument's indicators at one bar to a signal. Pure
// function of its inputs; both the live scan and the backtest call it.
// Branch order is deliberate precedence and must not be reordered: with
// non-converging EMAs a close below the slow EMA is always EXIT, however far
// below the mid and fast EMAs it also is.
func Evaluate(symbol string, ts time.Time, price float64, emas models.EMASet, levels models.LevelPair) models.SignalResult {
	result := models.SignalResult{
		Symbol:    symbol,
		Timestamp: ts,
		Price:     price,
		EMAs:      emas,
		Levels:    levels,
	}

	if Converging(emas, ConvergenceThreshold) {
		switch {
		case indicator.BrokeSupport(levels, price):
			result.Signal = models.SignalExit
			result.Reason = "Broke support with EMAs converging"
		case indicator.BrokeResistance(levels, price):
			result.Signal = models.SignalBullish
			result.Reason = "Resistance breakout with EMAs converging"
		default:
			result.Signal = models.SignalWait
			result.Reason = "EMAs converging, no breakout yet"
		}
		return result
	}

	switch {
	case price < emas.Slow:
		result.Signal = models.SignalExit
		result.Reason = "Below 40W EMA"
	case price < emas.Mid:
		result.Signal = models.SignalCautious
		result.Reason = "Below 20W EMA"
	case price < emas.Fast:
		result.Signal = models.SignalFading
		result.Reason = "Below 10W EMA - momentum fading"
	default:
		result.Signal = models.SignalHoldAdd
		result.Reason = "Above all weekly EMAs"
	}
	return result
}

// Analyze runs the full per-instrument pipeline at the final bar of the
// series: validate, compute EMAs and levels, classify. Series shorter than
// the slow EMA window report insufficient history instead of a defaulted
// signal.
func Analyze(symbol string, candles []models.Candle, w indicator.EMAWindows, lookback int, mode indicator.LevelMode) (models.SignalResult, error) {
	if err := models.ValidateSeries(candles); err != nil {
		return models.SignalResult{}, err
	}

	emas, err := indicator.EMASetAt(candles, w)
	if err != nil {
		return models.SignalResult{}, err
	}
	levels := indicator.LevelsAt(candles, lookback, mode)

	last := candles[len(candles)-1]
	return Evaluate(symbol, last.Timestamp, last.Close, emas, levels), nil
}
