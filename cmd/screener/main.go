package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Alias1177/Screener/config"
	"github.com/Alias1177/Screener/internal/api/twelvedata"
	"github.com/Alias1177/Screener/internal/indicator"
	"github.com/Alias1177/Screener/internal/scanner"
	"github.com/Alias1177/Screener/internal/universe"
)

// Persistent selection flags shared by the subcommands
var (
	flagMarket      string
	flagTickers     string
	flagLimit       int
	flagMarketsFile string
	flagVerbose     bool
)

// rootCmd is the base command for the screener CLI
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Weekly EMA TA-rules stock screener",
	Long: `Classifies each instrument of a market universe into one of seven
trend states using the 10/20/40-week EMA rules flowchart, tracks
week-over-week state transitions, and can replay the classification
historically.

Examples:
  screener scan --market INDIA
  screener scan --market USA --tickers AAPL,MSFT
  screener backtest --market INDIA --years 2
  screener evaluate --market USA`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).Level(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMarket, "market", "INDIA", "Target market universe (INDIA|USA)")
	rootCmd.PersistentFlags().StringVarP(&flagTickers, "tickers", "t", "", "Comma-separated instrument override (e.g. RELIANCE,TCS)")
	rootCmd.PersistentFlags().IntVarP(&flagLimit, "limit", "n", 0, "Scan only the first N instruments of the universe")
	rootCmd.PersistentFlags().StringVar(&flagMarketsFile, "markets-file", "", "External markets YAML overriding the built-in universes")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// selectMarket resolves the universe for the current flag set
func selectMarket(cfg *config.Config) (string, universe.Market, error) {
	markets, err := universe.Load(flagMarketsFile)
	if err != nil {
		return "", universe.Market{}, err
	}
	market, err := universe.Select(markets, flagMarket, flagTickers, flagLimit)
	if err != nil {
		return "", universe.Market{}, err
	}
	return flagMarket, market, nil
}

func emaWindows(cfg *config.Config) indicator.EMAWindows {
	return indicator.EMAWindows{Fast: cfg.EMAFastWeeks, Mid: cfg.EMAMidWeeks, Slow: cfg.EMASlowWeeks}
}

func levelMode(cfg *config.Config) indicator.LevelMode {
	if cfg.LevelUseClosesOnly {
		return indicator.LevelModeClose
	}
	return indicator.LevelModeHighLow
}

func newProvider(cfg *config.Config) *twelvedata.Client {
	return twelvedata.NewClient(twelvedata.ClientOptions{
		APIKey:          cfg.TwelveAPIKey,
		RequestTimeout:  time.Duration(cfg.RequestTimeoutSec) * time.Second,
		RequestInterval: time.Duration(cfg.RequestDelaySec * float64(time.Second)),
	})
}

func newScanner(cfg *config.Config, provider scanner.Provider) *scanner.Scanner {
	return scanner.New(provider, scanner.Options{
		Windows:       emaWindows(cfg),
		LevelLookback: cfg.LevelLookbackWeeks,
		LevelMode:     levelMode(cfg),
		HistoryYears:  cfg.HistoryYears,
		Workers:       cfg.ScanWorkers,
	})
}
