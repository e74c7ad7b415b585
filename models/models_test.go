package models

import (
	"errors"
	"testing"
	"time"
)

func TestValidateSeries(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	week := func(i int) time.Time { return base.AddDate(0, 0, 7*i) }

	tests := []struct {
		name    string
		candles []Candle
		wantErr error
	}{
		{"empty", nil, ErrNoData},
		{"single bar", []Candle{{Timestamp: week(0)}}, nil},
		{"chronological", []Candle{{Timestamp: week(0)}, {Timestamp: week(1)}, {Timestamp: week(2)}}, nil},
		{"duplicate timestamp", []Candle{{Timestamp: week(0)}, {Timestamp: week(0)}}, ErrNotChronological},
		{"out of order", []Candle{{Timestamp: week(1)}, {Timestamp: week(0)}}, ErrNotChronological},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeries(tt.candles)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateSeries() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSeries() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSignalRankOrdering(t *testing.T) {
	// Bearish states rank below bullish ones; UNKNOWN sits outside the scale
	if !(SignalExit.Rank() < SignalCautious.Rank() &&
		SignalCautious.Rank() < SignalFading.Rank() &&
		SignalFading.Rank() < SignalWait.Rank() &&
		SignalWait.Rank() < SignalHoldAdd.Rank() &&
		SignalHoldAdd.Rank() < SignalBullish.Rank()) {
		t.Error("signal rank ordering broken")
	}
	if SignalUnknown.Rank() != -1 {
		t.Errorf("UNKNOWN rank = %d, want -1", SignalUnknown.Rank())
	}
}
