package models

import (
	"fmt"
	"math"
	"time"
)

type Candle struct {
	Timestamp time.Time `json:"timestamp" csv:"timestamp"`
	Open      float64   `json:"open" csv:"open"`
	High      float64   `json:"high" csv:"high"`
	Low       float64   `json:"low" csv:"low"`
	Close     float64   `json:"close" csv:"close"`
	Volume    float64   `json:"volume" csv:"volume"`
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *Candle) Validate() error {
	if c.Timestamp.IsZero() {
		return fmt.Errorf("%w: candle timestamp not set", InvalidSeriesErr)
	}

	for _, price := range []float64{c.Open, c.High, c.Low, c.Close} {
		if !isPositiveFinite(price) {
			return fmt.Errorf("%w: candle at %s has non-positive or non-finite price", InvalidSeriesErr, c.Timestamp)
		}
	}

	if c.Volume < 0 || math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) {
		return fmt.Errorf("%w: candle at %s has invalid volume %v", InvalidSeriesErr, c.Timestamp, c.Volume)
	}

	if c.Low > c.High {
		return fmt.Errorf("%w: candle at %s has low %v above high %v", InvalidSeriesErr, c.Timestamp, c.Low, c.High)
	}

	if c.Open < c.Low || c.Open > c.High {
		return fmt.Errorf("%w: candle at %s has open %v outside [%v, %v]", InvalidSeriesErr, c.Timestamp, c.Open, c.Low, c.High)
	}

	if c.Close < c.Low || c.Close > c.High {
		return fmt.Errorf("%w: candle at %s has close %v outside [%v, %v]", InvalidSeriesErr, c.Timestamp, c.Close, c.Low, c.High)
	}

	return nil
}

// TypicalPrice is the (high + low + close) / 3 average used by VWAP.
func (c *Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3.0
}

type PriceSeries struct {
	Symbol    string    `json:"symbol"`
	Timeframe Timeframe `json:"timeframe"`
	Candles   []Candle  `json:"candles"`
}

func NewPriceSeries(symbol string, timeframe Timeframe, candles []Candle) (*PriceSeries, error) {
	series := &PriceSeries{
		Symbol:    symbol,
		Timeframe: timeframe,
		Candles:   candles,
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	return series, nil
}

func (s *PriceSeries) Len() int {
	return len(s.Candles)
}

func (s *PriceSeries) Validate() error {
	if s.Symbol == "" {
		return fmt.Errorf("%w: symbol not set", InvalidSeriesErr)
	}

	for i := range s.Candles {
		if err := s.Candles[i].Validate(); err != nil {
			return err
		}

		if i > 0 && !s.Candles[i].Timestamp.After(s.Candles[i-1].Timestamp) {
			return fmt.Errorf("%w: candle at index %d (%s) is not after its predecessor (%s)",
				InvalidSeriesErr, i, s.Candles[i].Timestamp, s.Candles[i-1].Timestamp)
		}
	}

	return nil
}

func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i := range s.Candles {
		closes[i] = s.Candles[i].Close
	}

	return closes
}
