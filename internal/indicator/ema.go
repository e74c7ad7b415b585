// Package indicator computes the weekly EMAs and trailing support/resistance
// levels that feed the TA rules classifier.
package indicator

import (
	"fmt"

	"github.com/Alias1177/Screener/models"
)

// EMAWindows holds the three EMA window sizes in weeks
type EMAWindows struct {
	Fast int
	Mid  int
	Slow int
}

// DefaultEMAWindows is the conventional 10/20/40-week setup
var DefaultEMAWindows = EMAWindows{Fast: 10, Mid: 20, Slow: 40}

// EMA computes the exponential moving average series for the given window.
// The result is aligned to the input: values at index < n-1 are zero and
// undefined, ema[n-1] is the simple average of the first n closes, and each
// later value follows ema[t] = close[t]*alpha + ema[t-1]*(1-alpha) with
// alpha = 2/(n+1). A series shorter than n is insufficient history.
func EMA(closes []float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid EMA window %d", n)
	}
	if len(closes) < n {
		return nil, fmt.Errorf("%w: need %d closes, got %d", models.ErrInsufficientHistory, n, len(closes))
	}

	ema := make([]float64, len(closes))

	var sum float64
	for i := 0; i < n; i++ {
		sum += closes[i]
	}
	ema[n-1] = sum / float64(n)

	alpha := 2.0 / float64(n+1)
	for i := n; i < len(closes); i++ {
		ema[i] = closes[i]*alpha + ema[i-1]*(1-alpha)
	}
	return ema, nil
}

// LatestEMA returns the EMA value at the final bar of the series
func LatestEMA(closes []float64, n int) (float64, error) {
	ema, err := EMA(closes, n)
	if err != nil {
		return 0, err
	}
	return ema[len(ema)-1], nil
}

// EMASetAt computes the fast/mid/slow EMAs at the final bar of the series.
// The series must cover at least the slow window.
func EMASetAt(candles []models.Candle, w EMAWindows) (models.EMASet, error) {
	closes := models.Closes(candles)

	fast, err := LatestEMA(closes, w.Fast)
	if err != nil {
		return models.EMASet{}, err
	}
	mid, err := LatestEMA(closes, w.Mid)
	if err != nil {
		return models.EMASet{}, err
	}
	slow, err := LatestEMA(closes, w.Slow)
	if err != nil {
		return models.EMASet{}, err
	}

	return models.EMASet{Fast: fast, Mid: mid, Slow: slow}, nil
}
