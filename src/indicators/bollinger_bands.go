package indicators

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/stratbench/stratbench/src/models"
)

type BollingerBands struct {
	Period            int
	StandardDeviation float64
	closes            []float64
}

type BollingerBandsStats struct {
	Upper  float64
	Middle float64
	Lower  float64
}

func NewBollingerBands(period int, standardDeviation float64) *BollingerBands {
	return &BollingerBands{
		Period:            period,
		StandardDeviation: standardDeviation,
	}
}

func (b *BollingerBands) Update(c models.Candle) (BollingerBandsStats, bool, error) {
	if len(b.closes) < b.Period {
		b.closes = append(b.closes, c.Close)
		if len(b.closes) < b.Period {
			return BollingerBandsStats{}, false, nil
		}
	} else {
		b.closes = append(b.closes[1:], c.Close)
	}

	middle, err := stats.Mean(b.closes)
	if err != nil {
		return BollingerBandsStats{}, false, fmt.Errorf("failed to calculate mean: %w", err)
	}

	sd, err := stats.StandardDeviation(b.closes)
	if err != nil {
		return BollingerBandsStats{}, false, fmt.Errorf("failed to calculate the standard deviation: %w", err)
	}

	return BollingerBandsStats{
		Upper:  middle + (b.StandardDeviation * sd),
		Middle: middle,
		Lower:  middle - (b.StandardDeviation * sd),
	}, true, nil
}
