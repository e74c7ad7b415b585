package universe

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	markets, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	india, ok := markets["INDIA"]
	if !ok {
		t.Fatal("built-in markets must include INDIA")
	}
	if india.Currency != "₹" || india.Exchange != "NSE" {
		t.Errorf("INDIA metadata = %q/%q", india.Currency, india.Exchange)
	}
	if len(india.Symbols) < 200 {
		t.Errorf("INDIA universe has %d symbols, expected Nifty 100 + Midcap 150", len(india.Symbols))
	}

	usa, ok := markets["USA"]
	if !ok {
		t.Fatal("built-in markets must include USA")
	}
	if len(usa.Symbols) != 100 {
		t.Errorf("USA universe has %d symbols, want 100", len(usa.Symbols))
	}
}

func TestLoadExternalFileAndDedupe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markets.yaml")
	content := `markets:
  TEST:
    currency: "$"
    symbols: [AAA, BBB, AAA, CCC, BBB]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	markets, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	symbols := markets["TEST"].Symbols
	want := []string{"AAA", "BBB", "CCC"}
	if len(symbols) != len(want) {
		t.Fatalf("symbols = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("symbols[%d] = %s, want %s (first occurrence wins)", i, symbols[i], want[i])
		}
	}
}

func TestSelect(t *testing.T) {
	markets := map[string]Market{
		"INDIA": {Currency: "₹", Symbols: []string{"RELIANCE", "TCS", "INFY", "SBIN"}},
	}

	tests := []struct {
		name    string
		market  string
		tickers string
		limit   int
		want    []string
		wantErr bool
	}{
		{"full universe", "INDIA", "", 0, []string{"RELIANCE", "TCS", "INFY", "SBIN"}, false},
		{"limit truncates", "INDIA", "", 2, []string{"RELIANCE", "TCS"}, false},
		{"ticker override", "INDIA", "tcs, infy", 0, []string{"TCS", "INFY"}, false},
		{"override with limit", "INDIA", "TCS,INFY,SBIN", 2, []string{"TCS", "INFY"}, false},
		{"unknown market", "EUROPE", "", 0, nil, true},
		{"blank override entries dropped", "INDIA", " , ,TCS", 0, []string{"TCS"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(markets, tt.market, tt.tickers, tt.limit)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Select() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if len(got.Symbols) != len(tt.want) {
				t.Fatalf("symbols = %v, want %v", got.Symbols, tt.want)
			}
			for i := range tt.want {
				if got.Symbols[i] != tt.want[i] {
					t.Errorf("symbols[%d] = %s, want %s", i, got.Symbols[i], tt.want[i])
				}
			}
			if got.Currency != "₹" {
				t.Error("market metadata must survive selection")
			}
		})
	}
}
