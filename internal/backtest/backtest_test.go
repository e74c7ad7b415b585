package backtest

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Alias1177/Screener/internal/indicator"
	"github.com/Alias1177/Screener/models"
)

func testConfig(horizonWeeks int) Config {
	return Config{
		Windows:       indicator.DefaultEMAWindows,
		LevelLookback: indicator.DefaultLevelLookback,
		LevelMode:     indicator.LevelModeHighLow,
		HorizonWeeks:  horizonWeeks,
	}
}

func weeklySeries(n int, close func(i int) float64) []models.Candle {
	base := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		c := close(i)
		candles[i] = models.Candle{
			Timestamp: base.AddDate(0, 0, 7*i),
			Open:      c,
			High:      c + 2,
			Low:       c - 2,
			Close:     c,
		}
	}
	return candles
}

// wavySeries produces a deterministic non-trivial price path
func wavySeries(n int) []models.Candle {
	return weeklySeries(n, func(i int) float64 {
		return 100 + 10*math.Sin(float64(i)/5) + float64(i)*0.3
	})
}

func TestSimulatorDeterminism(t *testing.T) {
	candles := wavySeries(120)

	run := func() []models.SignalResult {
		sim, err := NewSimulator("TCS", candles, testConfig(52))
		if err != nil {
			t.Fatalf("NewSimulator() error = %v", err)
		}
		return sim.Run()
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical input produced different state sequences")
	}
}

func TestSimulatorHorizonAndOrder(t *testing.T) {
	candles := wavySeries(120)
	sim, err := NewSimulator("TCS", candles, testConfig(52))
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	results := sim.Run()
	if len(results) != 52 {
		t.Fatalf("got %d results, want 52 (one per week of horizon)", len(results))
	}
	for i := 1; i < len(results); i++ {
		if !results[i].Timestamp.After(results[i-1].Timestamp) {
			t.Fatal("results are not in chronological order")
		}
	}
	if !results[len(results)-1].Timestamp.Equal(candles[len(candles)-1].Timestamp) {
		t.Error("final result should land on the final bar")
	}
}

func TestSimulatorNoLookAhead(t *testing.T) {
	candles := wavySeries(120)
	perturbed := make([]models.Candle, len(candles))
	copy(perturbed, candles)
	// Change everything about the final bar
	perturbed[119].Close = 1
	perturbed[119].High = 2
	perturbed[119].Low = 0.5

	simA, err := NewSimulator("TCS", candles, testConfig(52))
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}
	simB, err := NewSimulator("TCS", perturbed, testConfig(52))
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	a, b := simA.Run(), simB.Run()
	if len(a) != len(b) {
		t.Fatalf("result lengths differ: %d vs %d", len(a), len(b))
	}
	// Every classification before the perturbed bar must be untouched
	for i := 0; i < len(a)-1; i++ {
		if !reflect.DeepEqual(a[i], b[i]) {
			t.Fatalf("result at week %d changed after perturbing a later bar", i)
		}
	}
}

func TestSimulatorTruncatesLongHorizon(t *testing.T) {
	// 45 bars of history, 52-week horizon: the walk starts at the earliest
	// bar with a full 40-week EMA window instead of failing.
	candles := wavySeries(45)
	sim, err := NewSimulator("TCS", candles, testConfig(52))
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	results := sim.Run()
	if len(results) != 6 {
		t.Errorf("got %d results, want 6 (bars 40..45)", len(results))
	}
}

func TestSimulatorInsufficientHistory(t *testing.T) {
	candles := wavySeries(30)
	if _, err := NewSimulator("TCS", candles, testConfig(52)); !errors.Is(err, models.ErrInsufficientHistory) {
		t.Errorf("NewSimulator() error = %v, want ErrInsufficientHistory", err)
	}
}

func TestSimulatorReset(t *testing.T) {
	sim, err := NewSimulator("TCS", wavySeries(100), testConfig(26))
	if err != nil {
		t.Fatalf("NewSimulator() error = %v", err)
	}

	first := sim.Run()
	sim.Reset()
	second := sim.Run()
	if !reflect.DeepEqual(first, second) {
		t.Error("Reset() did not restart the walk at the start of the horizon")
	}
}

func TestPortfolioRoundTrip(t *testing.T) {
	ts := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	next := func() time.Time { ts = ts.AddDate(0, 0, 7); return ts }

	p := NewPortfolio()
	p.ProcessSignal(models.SignalResult{Symbol: "INFY", Timestamp: next(), Signal: models.SignalBullish, Price: 100})
	p.ProcessSignal(models.SignalResult{Symbol: "INFY", Timestamp: next(), Signal: models.SignalHoldAdd, Price: 110}) // already held
	p.ProcessSignal(models.SignalResult{Symbol: "INFY", Timestamp: next(), Signal: models.SignalExit, Price: 120})

	res := p.Performance(nil)
	if res.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1", res.TotalTrades)
	}
	if res.WinningTrades != 1 || res.WinRate != 1 {
		t.Errorf("expected one winning trade, got %+v", res)
	}
	if math.Abs(res.AvgReturn-0.2) > 1e-9 {
		t.Errorf("avg return = %v, want 0.2", res.AvgReturn)
	}
	if len(p.Log) != 2 {
		t.Errorf("log lines = %d, want entry and exit", len(p.Log))
	}
}

func TestPortfolioMarksOpenPositionToFinalPrice(t *testing.T) {
	ts := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	p := NewPortfolio()
	p.ProcessSignal(models.SignalResult{Symbol: "INFY", Timestamp: ts, Signal: models.SignalHoldAdd, Price: 100})

	res := p.Performance(map[string]float64{"INFY": 90})
	if res.TotalTrades != 1 {
		t.Fatalf("trades = %d, want 1 marked-to-market position", res.TotalTrades)
	}
	if res.LosingTrades != 1 {
		t.Errorf("expected the open position to be counted as a loss, got %+v", res)
	}

	// Without a mark the open position is ignored
	if res := p.Performance(nil); res.TotalTrades != 0 {
		t.Errorf("unmarked open position should be ignored, got %d trades", res.TotalTrades)
	}
}

func TestPortfolioIgnoresExitWithoutPosition(t *testing.T) {
	p := NewPortfolio()
	p.ProcessSignal(models.SignalResult{Symbol: "INFY", Signal: models.SignalExit, Price: 100})
	if res := p.Performance(nil); res.TotalTrades != 0 {
		t.Errorf("exit without a position recorded %d trades", res.TotalTrades)
	}
}
