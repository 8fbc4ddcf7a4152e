package strategies

import (
	"fmt"

	"github.com/stratbench/stratbench/src/indicators"
	"github.com/stratbench/stratbench/src/models"
)

// BollingerReversion enters when the close crosses below the lower band and
// exits when it crosses back above the middle band.
type BollingerReversion struct {
	Period int
	K      float64
}

func NewBollingerReversion(period int, k float64) (*BollingerReversion, error) {
	if err := validateWindow("period", period); err != nil {
		return nil, err
	}

	if k <= 0 {
		return nil, fmt.Errorf("%w: std_dev multiplier must be positive, got %v", models.InvalidConfigErr, k)
	}

	return &BollingerReversion{
		Period: period,
		K:      k,
	}, nil
}

func (s *BollingerReversion) Name() string {
	return "bollinger-bands"
}

func (s *BollingerReversion) WarmupPeriod() int {
	return s.Period + 1
}

func (s *BollingerReversion) GenerateSignals(series *models.PriceSeries) ([]models.Signal, error) {
	signals := holdSignals(series)

	bb := indicators.NewBollingerBands(s.Period, s.K)

	var prevClose float64
	var prevBands indicators.BollingerBandsStats
	var hasPrev bool

	for i, c := range series.Candles {
		bands, ok, err := bb.Update(c)
		if err != nil {
			return nil, fmt.Errorf("bollinger update at bar %d: %w", i, err)
		}

		if !ok {
			continue
		}

		if hasPrev {
			if prevClose >= prevBands.Lower && c.Close < bands.Lower {
				signals[i].Type = models.SignalEnterLong
			} else if prevClose <= prevBands.Middle && c.Close > bands.Middle {
				signals[i].Type = models.SignalExitLong
			}
		}

		prevClose = c.Close
		prevBands = bands
		hasPrev = true
	}

	return signals, nil
}
