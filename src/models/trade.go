package models

import (
	"fmt"
	"time"
)

type ExitReason string

const (
	ExitReasonSignal    ExitReason = "signal"
	ExitReasonStopLoss  ExitReason = "stop-loss"
	ExitReasonEndOfData ExitReason = "end-of-data"
)

// Trade is a closed long round-trip. Immutable once appended to the log.
type Trade struct {
	ID             int           `json:"id"`
	Symbol         string        `json:"symbol"`
	EntryTimestamp time.Time     `json:"entry_timestamp"`
	EntryPrice     float64       `json:"entry_price"`
	ExitTimestamp  time.Time     `json:"exit_timestamp"`
	ExitPrice      float64       `json:"exit_price"`
	Quantity       float64       `json:"quantity"`
	ProfitLoss     float64       `json:"pnl"`
	ReturnFraction float64       `json:"return_fraction"`
	Duration       time.Duration `json:"duration_ns"`
	ExitReason     ExitReason    `json:"exit_reason"`
}

func (t *Trade) IsWin() bool {
	return t.ProfitLoss > 0
}

func (t Trade) String() string {
	return fmt.Sprintf("%s %v @%.2f -> %.2f (pnl %.2f, %s)", t.Symbol, t.Quantity, t.EntryPrice, t.ExitPrice, t.ProfitLoss, t.ExitReason)
}

type Trades []*Trade

func (trades Trades) ProfitLosses() []float64 {
	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.ProfitLoss
	}

	return pnls
}

func (trades Trades) Durations() []time.Duration {
	durations := make([]time.Duration, len(trades))
	for i, t := range trades {
		durations[i] = t.Duration
	}

	return durations
}

func (trades Trades) WinningCount() int {
	count := 0
	for _, t := range trades {
		if t.IsWin() {
			count += 1
		}
	}

	return count
}
