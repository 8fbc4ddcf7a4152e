package strategies

import (
	"fmt"

	"github.com/stratbench/stratbench/src/indicators"
	"github.com/stratbench/stratbench/src/models"
)

// SmaCrossover enters long when the fast SMA crosses above the slow SMA and
// exits on the reverse cross.
type SmaCrossover struct {
	FastPeriod int
	SlowPeriod int
}

func NewSmaCrossover(fastPeriod, slowPeriod int) (*SmaCrossover, error) {
	if err := validateWindow("fast_period", fastPeriod); err != nil {
		return nil, err
	}

	if err := validateWindow("slow_period", slowPeriod); err != nil {
		return nil, err
	}

	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("%w: fast_period %d must be below slow_period %d", models.InvalidConfigErr, fastPeriod, slowPeriod)
	}

	return &SmaCrossover{
		FastPeriod: fastPeriod,
		SlowPeriod: slowPeriod,
	}, nil
}

func (s *SmaCrossover) Name() string {
	return "sma-crossover"
}

func (s *SmaCrossover) WarmupPeriod() int {
	return s.SlowPeriod + 1
}

func (s *SmaCrossover) GenerateSignals(series *models.PriceSeries) ([]models.Signal, error) {
	signals := holdSignals(series)

	fastSma := indicators.NewSma(s.FastPeriod)
	slowSma := indicators.NewSma(s.SlowPeriod)

	var prevAbove, hasPrev bool
	for i, c := range series.Candles {
		fastVal, fastOk := fastSma.Update(c)
		slowVal, slowOk := slowSma.Update(c)

		if !fastOk || !slowOk {
			continue
		}

		above := fastVal > slowVal
		if hasPrev {
			if above && !prevAbove {
				signals[i].Type = models.SignalEnterLong
			} else if !above && prevAbove {
				signals[i].Type = models.SignalExitLong
			}
		}

		prevAbove = above
		hasPrev = true
	}

	return signals, nil
}
