package models

import (
	"sort"
	"time"
)

type Timeframe string

const (
	Timeframe1Min  Timeframe = "1m"
	Timeframe5Min  Timeframe = "5m"
	Timeframe15Min Timeframe = "15m"
	Timeframe1Hour Timeframe = "1h"
	Timeframe1Day  Timeframe = "1d"
	Timeframe1Week Timeframe = "1w"
)

const tradingDaysPerYear = 252.0

// AnnualizationFactor derives the periods-per-year figure used to annualize
// Sharpe and Sortino from the median inter-bar spacing of the sampled
// timestamps. Daily bars map to the 252 trading-day convention, weekly to 52,
// monthly to 12; intraday bars scale off the calendar year.
func AnnualizationFactor(timestamps []time.Time) float64 {
	if len(timestamps) < 2 {
		return tradingDaysPerYear
	}

	spacings := make([]float64, 0, len(timestamps)-1)
	for i := 1; i < len(timestamps); i += 1 {
		spacing := timestamps[i].Sub(timestamps[i-1])
		if spacing > 0 {
			spacings = append(spacings, spacing.Seconds())
		}
	}

	if len(spacings) == 0 {
		return tradingDaysPerYear
	}

	sort.Float64s(spacings)
	median := spacings[len(spacings)/2]
	if len(spacings)%2 == 0 {
		median = (spacings[len(spacings)/2-1] + spacings[len(spacings)/2]) / 2.0
	}

	const day = 24 * 60 * 60.0

	switch {
	case median >= 27*day:
		return 12
	case median >= 6*day:
		return 52
	case median >= 20*60*60.0:
		// Daily bars, allowing for weekend and holiday gaps around the
		// 24h nominal spacing.
		return tradingDaysPerYear
	default:
		return 365.25 * day / median
	}
}
