// Package transition diffs two scan snapshots into actionable week-over-week
// state changes.
package transition

import (
	"fmt"
	"sort"

	"github.com/Alias1177/Screener/models"
)

// Detect compares a prior and a current snapshot for the same market and
// labels every actionable state change. Instruments present in only one of
// the snapshots are excluded; unchanged states emit nothing; a nil prior
// (cold start) yields zero transitions. Output is ordered by symbol.
func Detect(prior, current *models.Snapshot) []models.TransitionRecord {
	if prior == nil || current == nil {
		return nil
	}

	var records []models.TransitionRecord
	for symbol, cur := range current.Results {
		prev, ok := prior.Results[symbol]
		if !ok || prev.Signal == cur.Signal {
			continue
		}

		action, ok := categorize(prev.Signal, cur.Signal)
		if !ok {
			continue
		}

		records = append(records, models.TransitionRecord{
			Symbol:    symbol,
			Previous:  prev.Signal,
			Current:   cur.Signal,
			Action:    action,
			Notes:     fmt.Sprintf("Changed from %s to %s", prev.Signal, cur.Signal),
			Timestamp: current.AsOf,
		})
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Symbol < records[j].Symbol })
	return records
}

// categorize maps a state change to its action category. Checks run in fixed
// precedence; changes outside the taxonomy carry no action.
func categorize(prev, cur models.Signal) (models.Action, bool) {
	switch {
	case cur == models.SignalBullish:
		return models.ActionNewBuy, true
	case cur == models.SignalExit:
		return models.ActionNewSell, true
	case (cur == models.SignalCautious || cur == models.SignalFading) && cur.Rank() < prev.Rank():
		return models.ActionDowngrade, true
	case prev == models.SignalExit && cur == models.SignalWait:
		return models.ActionUpgrade, true
	case (prev == models.SignalCautious || prev == models.SignalFading) && cur == models.SignalHoldAdd:
		return models.ActionUpgrade, true
	default:
		return "", false
	}
}
