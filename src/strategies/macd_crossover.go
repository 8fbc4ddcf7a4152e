package strategies

import (
	"fmt"

	"github.com/stratbench/stratbench/src/indicators"
	"github.com/stratbench/stratbench/src/models"
)

// MacdCrossover enters when the MACD line crosses above its signal line and
// exits on the reverse cross.
type MacdCrossover struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

func NewMacdCrossover(fastPeriod, slowPeriod, signalPeriod int) (*MacdCrossover, error) {
	for name, period := range map[string]int{
		"fast_period":   fastPeriod,
		"slow_period":   slowPeriod,
		"signal_period": signalPeriod,
	} {
		if err := validateWindow(name, period); err != nil {
			return nil, err
		}
	}

	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("%w: fast_period %d must be below slow_period %d", models.InvalidConfigErr, fastPeriod, slowPeriod)
	}

	return &MacdCrossover{
		FastPeriod:   fastPeriod,
		SlowPeriod:   slowPeriod,
		SignalPeriod: signalPeriod,
	}, nil
}

func (s *MacdCrossover) Name() string {
	return "macd-crossover"
}

func (s *MacdCrossover) WarmupPeriod() int {
	return s.SlowPeriod + s.SignalPeriod
}

func (s *MacdCrossover) GenerateSignals(series *models.PriceSeries) ([]models.Signal, error) {
	signals := holdSignals(series)

	macd := indicators.NewMacd(s.FastPeriod, s.SlowPeriod, s.SignalPeriod)

	var prevAbove, hasPrev bool
	for i, c := range series.Candles {
		val, ok := macd.Update(c)
		if !ok {
			continue
		}

		above := val.MacdLine > val.SignalLine
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
