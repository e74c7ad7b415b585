package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/Screener/config"
	"github.com/Alias1177/Screener/internal/backtest"
	"github.com/Alias1177/Screener/models"
)

var flagBacktestYears int

// backtestCmd replays the classifier over the trailing horizon
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay the TA rules over historical weekly bars",
	Long: `Walks each instrument's history forward one week at a time over the
requested horizon, classifying with only the bars available at each step,
and summarizes the hypothetical long-only performance.`,
	RunE: runBacktest,
}

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.Flags().IntVarP(&flagBacktestYears, "years", "y", 1, "Backtest horizon in years")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	if flagBacktestYears < 1 {
		return fmt.Errorf("--years must be >= 1")
	}

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

	provider := newProvider(cfg)
	btCfg := backtest.Config{
		Windows:       emaWindows(cfg),
		LevelLookback: cfg.LevelLookbackWeeks,
		LevelMode:     levelMode(cfg),
		HorizonWeeks:  flagBacktestYears * 52,
	}

	fmt.Printf("\n%s\n  RUNNING BACKTEST on %d instruments (Last %d Year(s)) — %s\n%s\n",
		divider, len(market.Symbols), flagBacktestYears, marketName, divider)

	ctx := context.Background()
	totalTrades, winningTrades := 0, 0
	sumReturns := 0.0
	skipped := 0

	for _, symbol := range market.Symbols {
		// Horizon plus one extra year so the EMA warm-up has history
		candles, err := provider.WeeklyCandles(ctx, symbol, market.Exchange, flagBacktestYears+1)
		if err != nil {
			log.Warn().Str("symbol", symbol).Err(err).Msg("Fetch failed, skipping backtest")
			skipped++
			continue
		}

		portfolio, results, err := backtest.RunForSymbol(symbol, candles, btCfg)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientHistory) {
				log.Warn().Str("symbol", symbol).Msg("Insufficient history for backtest, skipping")
			} else {
				log.Warn().Str("symbol", symbol).Err(err).Msg("Backtest failed, skipping")
			}
			skipped++
			continue
		}
		if len(results) == 0 {
			skipped++
			continue
		}

		finalPrice := results[len(results)-1].Price
		res := portfolio.Performance(map[string]float64{symbol: finalPrice})

		totalTrades += res.TotalTrades
		winningTrades += res.WinningTrades
		for _, t := range res.Trades {
			sumReturns += t.ReturnPct()
		}

		if res.TotalTrades > 0 {
			log.Info().
				Str("symbol", symbol).
				Int("trades", res.TotalTrades).
				Float64("win_rate", res.WinRate).
				Float64("avg_return", res.AvgReturn).
				Msg("Backtest complete")

			fmt.Printf("\n  --- Trade Log for %s ---\n", symbol)
			for _, line := range portfolio.Log {
				fmt.Printf("  %s\n", line)
			}
		}
	}

	fmt.Printf("\n%s\n  BACKTEST RESULTS (Summary)\n%s\n", divider, divider)
	fmt.Printf("  Instruments Tested: %d (skipped %d)\n", len(market.Symbols)-skipped, skipped)
	fmt.Printf("  Total Trades: %d\n", totalTrades)
	if totalTrades > 0 {
		fmt.Printf("  Win Rate: %.1f%%\n", float64(winningTrades)/float64(totalTrades)*100)
		fmt.Printf("  Avg Return / Trade: %.1f%%\n", sumReturns/float64(totalTrades)*100)
	} else {
		fmt.Println("  No trades were generated in the test window.")
	}
	fmt.Println(divider)
	return nil
}
