package strategies

import (
	"fmt"

	"github.com/stratbench/stratbench/src/indicators"
	"github.com/stratbench/stratbench/src/models"
)

// RsiReversion is an oversold mean-reversion rule. Entry requires a
// confirmed reversal: RSI must first dip below the oversold level and then
// cross back above it. Exit fires when RSI crosses above the overbought
// level.
type RsiReversion struct {
	Period     int
	Oversold   float64
	Overbought float64
}

func NewRsiReversion(period int, oversold, overbought float64) (*RsiReversion, error) {
	if err := validateWindow("rsi_period", period); err != nil {
		return nil, err
	}

	if oversold <= 0 || overbought >= 100 {
		return nil, fmt.Errorf("%w: rsi levels must stay within (0, 100)", models.InvalidConfigErr)
	}

	if oversold >= overbought {
		return nil, fmt.Errorf("%w: oversold %.2f must be below overbought %.2f", models.InvalidConfigErr, oversold, overbought)
	}

	return &RsiReversion{
		Period:     period,
		Oversold:   oversold,
		Overbought: overbought,
	}, nil
}

func (s *RsiReversion) Name() string {
	return "rsi-mean-reversion"
}

func (s *RsiReversion) WarmupPeriod() int {
	return s.Period + 1
}

func (s *RsiReversion) GenerateSignals(series *models.PriceSeries) ([]models.Signal, error) {
	signals := holdSignals(series)

	rsi := indicators.NewRsi(s.Period)

	var armed bool
	var prevRsi float64
	var hasPrev bool

	for i, c := range series.Candles {
		val, ok := rsi.Update(c)
		if !ok {
			continue
		}

		if hasPrev && prevRsi <= s.Overbought && val > s.Overbought {
			signals[i].Type = models.SignalExitLong
		} else if armed && val > s.Oversold {
			signals[i].Type = models.SignalEnterLong
			armed = false
		}

		if val < s.Oversold {
			armed = true
		}

		prevRsi = val
		hasPrev = true
	}

	return signals, nil
}
