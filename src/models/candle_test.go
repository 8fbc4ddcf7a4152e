package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCandle(ts time.Time, open, high, low, close float64) Candle {
	return Candle{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    1000,
	}
}

func TestCandleValidate(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid candle", func(t *testing.T) {
		c := newTestCandle(ts, 100, 105, 98, 103)
		assert.NoError(t, c.Validate())
	})

	t.Run("zero volume is allowed", func(t *testing.T) {
		c := newTestCandle(ts, 100, 105, 98, 103)
		c.Volume = 0
		assert.NoError(t, c.Validate())
	})

	t.Run("low above high", func(t *testing.T) {
		c := newTestCandle(ts, 100, 99, 101, 100)
		assert.ErrorIs(t, c.Validate(), InvalidSeriesErr)
	})

	t.Run("close outside range", func(t *testing.T) {
		c := newTestCandle(ts, 100, 105, 98, 110)
		assert.ErrorIs(t, c.Validate(), InvalidSeriesErr)
	})

	t.Run("non-positive price", func(t *testing.T) {
		c := newTestCandle(ts, 0, 105, 98, 100)
		assert.ErrorIs(t, c.Validate(), InvalidSeriesErr)
	})

	t.Run("negative volume", func(t *testing.T) {
		c := newTestCandle(ts, 100, 105, 98, 100)
		c.Volume = -1
		assert.ErrorIs(t, c.Validate(), InvalidSeriesErr)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		c := newTestCandle(time.Time{}, 100, 105, 98, 100)
		assert.ErrorIs(t, c.Validate(), InvalidSeriesErr)
	})
}

func TestPriceSeriesValidate(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	t.Run("ordered series", func(t *testing.T) {
		candles := []Candle{
			newTestCandle(start, 100, 105, 98, 103),
			newTestCandle(start.Add(24*time.Hour), 103, 108, 101, 106),
		}

		series, err := NewPriceSeries("AAPL", Timeframe1Day, candles)
		assert.NoError(t, err)
		assert.Equal(t, 2, series.Len())
	})

	t.Run("duplicate timestamps rejected", func(t *testing.T) {
		candles := []Candle{
			newTestCandle(start, 100, 105, 98, 103),
			newTestCandle(start, 103, 108, 101, 106),
		}

		_, err := NewPriceSeries("AAPL", Timeframe1Day, candles)
		assert.ErrorIs(t, err, InvalidSeriesErr)
	})

	t.Run("out of order rejected", func(t *testing.T) {
		candles := []Candle{
			newTestCandle(start.Add(24*time.Hour), 100, 105, 98, 103),
			newTestCandle(start, 103, 108, 101, 106),
		}

		_, err := NewPriceSeries("AAPL", Timeframe1Day, candles)
		assert.ErrorIs(t, err, InvalidSeriesErr)
	})

	t.Run("missing symbol rejected", func(t *testing.T) {
		_, err := NewPriceSeries("", Timeframe1Day, nil)
		assert.ErrorIs(t, err, InvalidSeriesErr)
	})

	t.Run("empty series is valid", func(t *testing.T) {
		series, err := NewPriceSeries("AAPL", Timeframe1Day, nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, series.Len())
	})
}

func TestEquityCurveReturns(t *testing.T) {
	start := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	curve := EquityCurve{
		{Timestamp: start, Equity: 1000},
		{Timestamp: start.Add(24 * time.Hour), Equity: 1100},
		{Timestamp: start.Add(48 * time.Hour), Equity: 990},
	}

	returns := curve.Returns()
	assert.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}
