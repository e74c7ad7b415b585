package snapshot

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Alias1177/Screener/models"
)

func testSnapshot(market string, asOf time.Time) *models.Snapshot {
	return &models.Snapshot{
		Market: market,
		AsOf:   asOf,
		Results: map[string]models.SignalResult{
			"RELIANCE": {
				Symbol:    "RELIANCE",
				Timestamp: asOf,
				Signal:    models.SignalHoldAdd,
				Reason:    "Above all weekly EMAs",
				Price:     2985.4,
				EMAs:      models.EMASet{Fast: 2950.12, Mid: 2890.5, Slow: 2801.77},
				Levels:    models.LevelPair{Support: 2650, Resistance: 3024.9, Valid: true},
			},
			"TCS": {
				Symbol:    "TCS",
				Timestamp: asOf,
				Signal:    models.SignalWait,
				Reason:    "EMAs converging, no breakout yet",
				Price:     3890,
				EMAs:      models.EMASet{Fast: 3900, Mid: 3880, Slow: 3870},
			},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	asOf := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	original := testSnapshot("INDIA", asOf)

	path, err := store.Save(original)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Base(path) != "INDIA_02-06-2025.json" {
		t.Errorf("artifact name = %s, want INDIA_02-06-2025.json", filepath.Base(path))
	}

	loaded, err := store.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(original, loaded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, original)
	}
}

func TestStorePriorSelection(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	d1 := time.Date(2025, 5, 19, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	for _, d := range []time.Time{d1, d2, d3} {
		if _, err := store.Save(testSnapshot("INDIA", d)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	// A different market must never be selected as prior
	if _, err := store.Save(testSnapshot("USA", d2)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	prior, err := store.Prior("INDIA", d3)
	if err != nil {
		t.Fatalf("Prior() error = %v", err)
	}
	if prior == nil || !prior.AsOf.Equal(d2) {
		t.Fatalf("Prior(d3) = %+v, want the d2 snapshot", prior)
	}

	prior, err = store.Prior("INDIA", d1)
	if err != nil {
		t.Fatalf("Prior() error = %v", err)
	}
	if prior != nil {
		t.Errorf("Prior(oldest) = %+v, want nil (cold start)", prior)
	}
}

func TestStoreLatest(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	latest, err := store.Latest("INDIA")
	if err != nil {
		t.Fatalf("Latest() on empty store error = %v", err)
	}
	if latest != nil {
		t.Fatalf("Latest() on empty store = %+v, want nil", latest)
	}

	d1 := time.Date(2025, 5, 26, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for _, d := range []time.Time{d2, d1} { // saved out of order on purpose
		if _, err := store.Save(testSnapshot("INDIA", d)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	latest, err = store.Latest("INDIA")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest == nil || !latest.AsOf.Equal(d2) {
		t.Fatalf("Latest() = %+v, want the d2 snapshot", latest)
	}
}

func TestStoreColdStartPrior(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	prior, err := store.Prior("INDIA", time.Now())
	if err != nil {
		t.Fatalf("Prior() error = %v", err)
	}
	if prior != nil {
		t.Errorf("Prior() with no snapshots = %+v, want nil", prior)
	}
}
