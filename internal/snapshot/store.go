// Package snapshot persists scan results as dated JSON artifacts and selects
// the prior run for transition detection.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Screener/models"
)

// dateLayout matches the artifact naming of the scan logs: DD-MM-YYYY
const dateLayout = "02-01-2006"

// Store reads and writes snapshot files under a single directory. Snapshots
// are append-only; nothing here mutates an existing file.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates the snapshot directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot dir: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: log.With().Str("component", "snapshot_store").Logger(),
	}, nil
}

// Path returns the artifact path for a market and date
func (s *Store) Path(market string, asOf time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", market, asOf.Format(dateLayout)))
}

// Save writes the snapshot, replacing any artifact for the same market and
// date (a re-run on the same day supersedes the earlier run).
func (s *Store) Save(snap *models.Snapshot) (string, error) {
	path := s.Path(snap.Market, snap.AsOf)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot %s: %w", path, err)
	}

	s.logger.Info().Str("path", path).Int("instruments", len(snap.Results)).Msg("Snapshot saved")
	return path, nil
}

// Load reads one snapshot artifact
func (s *Store) Load(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// Latest returns the most recent snapshot for the market, or nil when none
// exist yet.
func (s *Store) Latest(market string) (*models.Snapshot, error) {
	dates, err := s.dates(market)
	if err != nil || len(dates) == 0 {
		return nil, err
	}
	return s.Load(s.Path(market, dates[len(dates)-1]))
}

// Prior returns the most recent snapshot for the market strictly before the
// given date. A nil snapshot with nil error is the expected cold-start case.
func (s *Store) Prior(market string, before time.Time) (*models.Snapshot, error) {
	dates, err := s.dates(market)
	if err != nil {
		return nil, err
	}

	cutoff := before.Truncate(24 * time.Hour)
	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i].Before(cutoff) {
			return s.Load(s.Path(market, dates[i]))
		}
	}

	s.logger.Debug().Str("market", market).Msg("No prior snapshot found")
	return nil, nil
}

// dates lists the snapshot dates on disk for a market, oldest first
func (s *Store) dates(market string) ([]time.Time, error) {
	pattern := filepath.Join(s.dir, market+"_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}

	var dates []time.Time
	prefix := market + "_"
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		ts, err := time.Parse(dateLayout, strings.TrimPrefix(name, prefix))
		if err != nil {
			s.logger.Warn().Str("path", path).Msg("Skipping snapshot with unparseable date")
			continue
		}
		dates = append(dates, ts)
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}
