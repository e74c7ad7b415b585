// Package report writes the per-run artifacts: the dated scan log with one
// line per classified instrument, and the actions CSV with the week-over-week
// transitions.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Screener/models"
)

const dateLayout = "02-01-2006"

// ScanLog is the dated per-market run log
type ScanLog struct {
	file     *os.File
	path     string
	currency string
}

// NewScanLog opens (truncating) the log file for a market and date
func NewScanLog(dir, market, currency string, asOf time.Time) (*ScanLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.log", market, asOf.Format(dateLayout)))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating scan log %s: %w", path, err)
	}
	return &ScanLog{file: file, path: path, currency: currency}, nil
}

// Path returns the log file location
func (l *ScanLog) Path() string { return l.path }

// WriteResult appends one classification line
func (l *ScanLog) WriteResult(r models.SignalResult) error {
	line := fmt.Sprintf("%s | INFO | %s %-10s | %-15s | %s%10.2f | %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		r.Signal.Emoji(), r.Signal, r.Symbol, l.currency, r.Price, r.Reason)
	_, err := l.file.WriteString(line)
	return err
}

// WriteSummary appends the end-of-run counts grouped by signal
func (l *ScanLog) WriteSummary(counts map[models.Signal]int, errors int) error {
	total := 0
	for _, n := range counts {
		total += n
	}

	lines := fmt.Sprintf("%s\nSCAN COMPLETE\nTotal: %d | Errors: %d\n",
		"==================================================", total, errors)
	for _, s := range []models.Signal{
		models.SignalBullish, models.SignalExit, models.SignalCautious,
		models.SignalFading, models.SignalHoldAdd, models.SignalWait,
	} {
		if counts[s] > 0 {
			lines += fmt.Sprintf("%s: %d\n", s, counts[s])
		}
	}
	_, err := l.file.WriteString(lines)
	return err
}

// Close flushes and closes the log file
func (l *ScanLog) Close() error { return l.file.Close() }

// csvHeader matches the action report consumed downstream
var csvHeader = []string{"Symbol", "Previous Signal", "Current Signal", "Action Category", "Notes"}

// WriteActionsCSV writes the transition records for a market and date. With
// no transitions nothing is written and an empty path is returned.
func WriteActionsCSV(dir, market string, asOf time.Time, transitions []models.TransitionRecord) (string, error) {
	if len(transitions) == 0 {
		log.Info().Str("market", market).Msg("No actionable transitions found")
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-ACTIONS_%s.csv", market, asOf.Format(dateLayout)))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating action report %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, t := range transitions {
		row := []string{t.Symbol, string(t.Previous), string(t.Current), string(t.Action), t.Notes}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing CSV row for %s: %w", t.Symbol, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing action report: %w", err)
	}

	log.Info().Str("path", path).Int("transitions", len(transitions)).Msg("Action report generated")
	return path, nil
}
