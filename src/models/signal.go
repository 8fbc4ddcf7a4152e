package models

import "time"

type SignalType int

const (
	SignalHold SignalType = iota
	SignalEnterLong
	SignalExitLong
)

func (s SignalType) String() string {
	switch s {
	case SignalEnterLong:
		return "enter-long"
	case SignalExitLong:
		return "exit-long"
	default:
		return "hold"
	}
}

// Signal is a per-bar directive from a strategy. The signal for bar i may
// only depend on candles up to and including i.
type Signal struct {
	Type      SignalType
	BarIndex  int
	Timestamp time.Time
	StopLoss  *float64
}

func NewSignal(signalType SignalType, barIndex int, timestamp time.Time) Signal {
	return Signal{
		Type:      signalType,
		BarIndex:  barIndex,
		Timestamp: timestamp,
	}
}

func NewSignalWithStop(signalType SignalType, barIndex int, timestamp time.Time, stopLoss float64) Signal {
	signal := NewSignal(signalType, barIndex, timestamp)
	signal.StopLoss = &stopLoss
	return signal
}
