package strategies

import (
	"fmt"

	"github.com/stratbench/stratbench/src/models"
)

// Strategy maps a price series to exactly one signal per candle. The signal
// for bar i may only depend on candles up to and including i. A strategy
// given fewer candles than its warm-up emits Hold everywhere rather than
// failing.
type Strategy interface {
	Name() string
	WarmupPeriod() int
	GenerateSignals(series *models.PriceSeries) ([]models.Signal, error)
}

type StrategyID int

const (
	StrategySmaCrossover StrategyID = iota + 1
	StrategyRsiReversion
	StrategyBollingerBands
	StrategyMacdCrossover
	StrategyMultiIndicator
)

func (id StrategyID) String() string {
	switch id {
	case StrategySmaCrossover:
		return "sma-crossover"
	case StrategyRsiReversion:
		return "rsi-mean-reversion"
	case StrategyBollingerBands:
		return "bollinger-bands"
	case StrategyMacdCrossover:
		return "macd-crossover"
	case StrategyMultiIndicator:
		return "multi-indicator"
	default:
		return fmt.Sprintf("unknown(%d)", int(id))
	}
}

// AllStrategyIDs lists the closed set of selectable strategies.
func AllStrategyIDs() []StrategyID {
	return []StrategyID{
		StrategySmaCrossover,
		StrategyRsiReversion,
		StrategyBollingerBands,
		StrategyMacdCrossover,
		StrategyMultiIndicator,
	}
}

type Params map[string]float64

func (p Params) intOr(key string, fallback int) int {
	if v, found := p[key]; found {
		return int(v)
	}

	return fallback
}

func (p Params) floatOr(key string, fallback float64) float64 {
	if v, found := p[key]; found {
		return v
	}

	return fallback
}

// New builds the strategy selected by id, applying defaults for any
// parameter the caller omitted. Parameter validation happens here, before
// any candle is processed.
func New(id StrategyID, params Params) (Strategy, error) {
	switch id {
	case StrategySmaCrossover:
		return NewSmaCrossover(params.intOr("fast_period", 9), params.intOr("slow_period", 21))
	case StrategyRsiReversion:
		return NewRsiReversion(params.intOr("rsi_period", 14), params.floatOr("oversold", 30), params.floatOr("overbought", 70))
	case StrategyBollingerBands:
		return NewBollingerReversion(params.intOr("period", 20), params.floatOr("std_dev", 2))
	case StrategyMacdCrossover:
		return NewMacdCrossover(params.intOr("fast_period", 12), params.intOr("slow_period", 26), params.intOr("signal_period", 9))
	case StrategyMultiIndicator:
		return NewMultiIndicator(MultiIndicatorParams{
			RsiPeriod:       params.intOr("rsi_period", 14),
			RsiOverbought:   params.floatOr("rsi_overbought", 70),
			TrendPeriod:     params.intOr("trend_period", 21),
			AtrPeriod:       params.intOr("atr_period", 14),
			AtrStopMultiple: params.floatOr("atr_stop_multiple", 0),
		})
	default:
		return nil, fmt.Errorf("%w: %d", models.UnknownStrategyErr, int(id))
	}
}

// Defaults reports the parameter set New applies when the caller omits
// everything. Unknown ids return nil.
func Defaults(id StrategyID) Params {
	switch id {
	case StrategySmaCrossover:
		return Params{"fast_period": 9, "slow_period": 21}
	case StrategyRsiReversion:
		return Params{"rsi_period": 14, "oversold": 30, "overbought": 70}
	case StrategyBollingerBands:
		return Params{"period": 20, "std_dev": 2}
	case StrategyMacdCrossover:
		return Params{"fast_period": 12, "slow_period": 26, "signal_period": 9}
	case StrategyMultiIndicator:
		return Params{"rsi_period": 14, "rsi_overbought": 70, "trend_period": 21, "atr_period": 14, "atr_stop_multiple": 0}
	default:
		return nil
	}
}

func validateWindow(name string, period int) error {
	if period < 1 {
		return fmt.Errorf("%w: %s must be a positive window, got %d", models.InvalidConfigErr, name, period)
	}

	return nil
}

// holdSignals pre-fills one Hold per candle; strategies overwrite entries
// they have an opinion about.
func holdSignals(series *models.PriceSeries) []models.Signal {
	signals := make([]models.Signal, series.Len())
	for i := range series.Candles {
		signals[i] = models.NewSignal(models.SignalHold, i, series.Candles[i].Timestamp)
	}

	return signals
}
