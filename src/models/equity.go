package models

import "time"

// EquityPoint samples total portfolio value (cash plus open position
// mark-to-market) at one candle. A simulation emits exactly one point per
// input candle.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

type EquityCurve []EquityPoint

// Returns derives per-bar returns equity[i]/equity[i-1] - 1.
func (curve EquityCurve) Returns() []float64 {
	if len(curve) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i += 1 {
		prev := curve[i-1].Equity
		if prev == 0 {
			continue
		}

		returns = append(returns, curve[i].Equity/prev-1.0)
	}

	return returns
}

func (curve EquityCurve) Timestamps() []time.Time {
	timestamps := make([]time.Time, len(curve))
	for i := range curve {
		timestamps[i] = curve[i].Timestamp
	}

	return timestamps
}
