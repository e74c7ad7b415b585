package models

// Signal is the discrete trend state assigned to an instrument by the weekly
// EMA rules. The zero value SignalUnknown is never produced once a
// classification has been attempted with complete inputs.
type Signal string

const (
	SignalUnknown  Signal = "UNKNOWN"
	SignalExit     Signal = "EXIT"     // sell position
	SignalBullish  Signal = "BULLISH"  // buy signal
	SignalWait     Signal = "WAIT"     // watch list
	SignalCautious Signal = "CAUTIOUS" // reduce exposure
	SignalFading   Signal = "FADING"   // momentum weakening
	SignalHoldAdd  Signal = "HOLD_ADD" // maintain or add position
)

// signalRank orders signals from most bearish to most bullish. Used by the
// transition detector to decide whether a state change is a downgrade.
var signalRank = map[Signal]int{
	SignalExit:     0,
	SignalCautious: 1,
	SignalFading:   2,
	SignalWait:     3,
	SignalHoldAdd:  4,
	SignalBullish:  5,
}

// Rank returns the bearish-to-bullish ordering of s; -1 for unknown
func (s Signal) Rank() int {
	if r, ok := signalRank[s]; ok {
		return r
	}
	return -1
}

// Emoji returns the marker used in scan log lines
func (s Signal) Emoji() string {
	switch s {
	case SignalExit:
		return "🔴"
	case SignalBullish, SignalHoldAdd:
		return "🟢"
	case SignalWait:
		return "🟡"
	case SignalCautious:
		return "🟠"
	case SignalFading:
		return "🟣"
	}
	return "⚪"
}

// Action categorizes an actionable week-over-week signal transition
type Action string

const (
	ActionNewBuy    Action = "NEW BUY"
	ActionNewSell   Action = "NEW SELL"
	ActionDowngrade Action = "DOWNGRADE"
	ActionUpgrade   Action = "UPGRADE"
)
