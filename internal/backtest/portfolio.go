package backtest

import (
	"fmt"
	"time"

	"github.com/Alias1177/Screener/models"
)

// Trade is one simulated round trip (or an open position when ExitPrice is 0)
type Trade struct {
	Symbol     string
	EntryDate  time.Time
	EntryPrice float64
	ExitDate   time.Time
	ExitPrice  float64
}

// ReturnPct is the fractional return of a closed trade
func (t Trade) ReturnPct() float64 {
	if t.EntryPrice == 0 {
		return 0
	}
	return (t.ExitPrice - t.EntryPrice) / t.EntryPrice
}

// Result summarizes a portfolio's simulated performance
type Result struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	AvgReturn     float64
	Trades        []Trade
}

// Portfolio applies a simple long-only interpretation of the signal
// sequence: enter on BULLISH or HOLD_ADD, stay invested until an explicit
// EXIT. One position per symbol, no sizing.
type Portfolio struct {
	open   map[string]Trade
	closed []Trade
	Log    []string
}

// NewPortfolio creates an empty simulated portfolio
func NewPortfolio() *Portfolio {
	return &Portfolio{open: make(map[string]Trade)}
}

// ProcessSignal updates holdings for one classification in the walk
func (p *Portfolio) ProcessSignal(r models.SignalResult) {
	switch r.Signal {
	case models.SignalBullish, models.SignalHoldAdd:
		if _, held := p.open[r.Symbol]; held {
			return
		}
		p.open[r.Symbol] = Trade{Symbol: r.Symbol, EntryDate: r.Timestamp, EntryPrice: r.Price}
		kind := "TREND"
		if r.Signal == models.SignalBullish {
			kind = "BREAKOUT"
		}
		p.Log = append(p.Log, fmt.Sprintf("%s | BUY  | %-10s | %7.2f | %s",
			r.Timestamp.Format("2006-01-02"), r.Symbol, r.Price, kind))

	case models.SignalExit:
		trade, held := p.open[r.Symbol]
		if !held {
			return
		}
		delete(p.open, r.Symbol)
		trade.ExitDate = r.Timestamp
		trade.ExitPrice = r.Price
		p.closed = append(p.closed, trade)
		p.Log = append(p.Log, fmt.Sprintf("%s | SELL | %-10s | %7.2f | Return: %.2f%%",
			r.Timestamp.Format("2006-01-02"), r.Symbol, r.Price, trade.ReturnPct()*100))
	}
}

// Performance closes the books. Open positions are marked to the final
// prices supplied by the caller; positions without a mark are ignored.
func (p *Portfolio) Performance(finalPrices map[string]float64) Result {
	trades := make([]Trade, len(p.closed))
	copy(trades, p.closed)

	for symbol, trade := range p.open {
		price, ok := finalPrices[symbol]
		if !ok {
			continue
		}
		trade.ExitDate = trade.EntryDate
		trade.ExitPrice = price
		trades = append(trades, trade)
	}

	res := Result{TotalTrades: len(trades), Trades: trades}
	var sum float64
	for _, t := range trades {
		ret := t.ReturnPct()
		sum += ret
		if ret > 0 {
			res.WinningTrades++
		} else {
			res.LosingTrades++
		}
	}
	if res.TotalTrades > 0 {
		res.WinRate = float64(res.WinningTrades) / float64(res.TotalTrades)
		res.AvgReturn = sum / float64(res.TotalTrades)
	}
	return res
}

// RunForSymbol is the convenience path used by the CLI: simulate the horizon
// and fold the signal sequence through a fresh portfolio.
func RunForSymbol(symbol string, candles []models.Candle, cfg Config) (*Portfolio, []models.SignalResult, error) {
	sim, err := NewSimulator(symbol, candles, cfg)
	if err != nil {
		return nil, nil, err
	}

	portfolio := NewPortfolio()
	results := sim.Run()
	for _, r := range results {
		portfolio.ProcessSignal(r)
	}
	return portfolio, results, nil
}
