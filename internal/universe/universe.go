// Package universe provides the per-market instrument lists the screener
// scans. The built-in lists ship as embedded YAML and can be overridden by
// an external file of the same shape.
package universe

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed markets.yaml
var builtinMarkets []byte

// Market is one scannable universe
type Market struct {
	Currency string   `yaml:"currency"`
	Exchange string   `yaml:"exchange"`
	Symbols  []string `yaml:"symbols"`
}

type marketsFile struct {
	Markets map[string]Market `yaml:"markets"`
}

// Load parses the built-in market lists, or the YAML file at path when path
// is non-empty. Duplicate symbols within a market are dropped, first
// occurrence wins.
func Load(path string) (map[string]Market, error) {
	data := builtinMarkets
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading markets file: %w", err)
		}
	}

	var file marketsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing markets file: %w", err)
	}
	if len(file.Markets) == 0 {
		return nil, fmt.Errorf("markets file defines no markets")
	}

	for name, m := range file.Markets {
		m.Symbols = dedupe(m.Symbols)
		file.Markets[name] = m
	}
	return file.Markets, nil
}

// Select resolves the instrument list for one scan run: the named market's
// universe, optionally replaced by an explicit ticker override, optionally
// truncated to the first limit entries.
func Select(markets map[string]Market, name string, tickers string, limit int) (Market, error) {
	market, ok := markets[name]
	if !ok {
		return Market{}, fmt.Errorf("unknown market %q (have: %s)", name, strings.Join(names(markets), ", "))
	}

	if tickers != "" {
		var override []string
		for _, t := range strings.Split(tickers, ",") {
			if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
				override = append(override, t)
			}
		}
		market.Symbols = dedupe(override)
	}

	if limit > 0 && limit < len(market.Symbols) {
		market.Symbols = market.Symbols[:limit]
	}
	if len(market.Symbols) == 0 {
		return Market{}, fmt.Errorf("no instruments selected for market %q", name)
	}
	return market, nil
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	var out []string
	for _, s := range symbols {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func names(markets map[string]Market) []string {
	out := make([]string, 0, len(markets))
	for name := range markets {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
