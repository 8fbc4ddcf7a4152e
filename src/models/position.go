package models

import "time"

type PositionState int

const (
	PositionFlat PositionState = iota
	PositionLong
)

func (s PositionState) String() string {
	if s == PositionLong {
		return "long"
	}

	return "flat"
}

// Position is the simulation engine's runtime state. Strategies never touch
// it directly.
type Position struct {
	State          PositionState
	EntryPrice     float64
	EntryTimestamp time.Time
	Quantity       float64
	StopLoss       *float64
}

func (p *Position) IsLong() bool {
	return p.State == PositionLong
}

func (p *Position) Reset() {
	*p = Position{}
}
