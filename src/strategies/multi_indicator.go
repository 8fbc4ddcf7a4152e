package strategies

import (
	"fmt"

	"github.com/stratbench/stratbench/src/indicators"
	"github.com/stratbench/stratbench/src/models"
)

type MultiIndicatorParams struct {
	RsiPeriod       int
	RsiOverbought   float64
	TrendPeriod     int
	AtrPeriod       int
	AtrStopMultiple float64
}

// MultiIndicator is a confirmation combination: stay long only while RSI is
// below the overbought level and the close holds above the trend EMA. When
// AtrStopMultiple is positive, entries carry a suggested stop-loss of
// close - multiple * ATR.
//
// If the entry and exit conditions ever coincide, exit wins: a position is
// never opened and closed on the same bar.
type MultiIndicator struct {
	params MultiIndicatorParams
}

func NewMultiIndicator(params MultiIndicatorParams) (*MultiIndicator, error) {
	if err := validateWindow("rsi_period", params.RsiPeriod); err != nil {
		return nil, err
	}

	if err := validateWindow("trend_period", params.TrendPeriod); err != nil {
		return nil, err
	}

	if err := validateWindow("atr_period", params.AtrPeriod); err != nil {
		return nil, err
	}

	if params.RsiOverbought <= 0 || params.RsiOverbought >= 100 {
		return nil, fmt.Errorf("%w: rsi_overbought must stay within (0, 100), got %v", models.InvalidConfigErr, params.RsiOverbought)
	}

	if params.AtrStopMultiple < 0 {
		return nil, fmt.Errorf("%w: atr_stop_multiple must not be negative, got %v", models.InvalidConfigErr, params.AtrStopMultiple)
	}

	return &MultiIndicator{params: params}, nil
}

func (s *MultiIndicator) Name() string {
	return "multi-indicator"
}

func (s *MultiIndicator) WarmupPeriod() int {
	warmup := s.params.RsiPeriod + 1
	if s.params.TrendPeriod > warmup {
		warmup = s.params.TrendPeriod
	}

	if s.useAtrStop() && s.params.AtrPeriod > warmup {
		warmup = s.params.AtrPeriod
	}

	return warmup
}

func (s *MultiIndicator) useAtrStop() bool {
	return s.params.AtrStopMultiple > 0
}

func (s *MultiIndicator) GenerateSignals(series *models.PriceSeries) ([]models.Signal, error) {
	signals := holdSignals(series)

	rsi := indicators.NewRsi(s.params.RsiPeriod)
	trendEma := indicators.NewEma(s.params.TrendPeriod)
	atr := indicators.NewAtr(s.params.AtrPeriod)

	for i, c := range series.Candles {
		rsiVal, rsiOk := rsi.Update(c)
		emaVal, emaOk := trendEma.Update(c)

		var atrVal float64
		var atrOk bool
		if s.useAtrStop() {
			atrVal, atrOk = atr.Update(c)
		}

		if !rsiOk || !emaOk {
			continue
		}

		if rsiVal >= s.params.RsiOverbought || c.Close <= emaVal {
			signals[i].Type = models.SignalExitLong
			continue
		}

		signals[i].Type = models.SignalEnterLong
		if s.useAtrStop() && atrOk {
			stop := c.Close - s.params.AtrStopMultiple*atrVal
			if stop > 0 {
				signals[i].StopLoss = &stop
			}
		}
	}

	return signals, nil
}
