package indicators

import "github.com/stratbench/stratbench/src/models"

type Macd struct {
	fast   *Ema
	slow   *Ema
	signal *Ema
}

type MacdStats struct {
	MacdLine   float64
	SignalLine float64
	Histogram  float64
}

func NewMacd(fastPeriod, slowPeriod, signalPeriod int) *Macd {
	return &Macd{
		fast:   NewEma(fastPeriod),
		slow:   NewEma(slowPeriod),
		signal: NewEma(signalPeriod),
	}
}

func (m *Macd) Update(c models.Candle) (MacdStats, bool) {
	fastVal, fastOk := m.fast.Update(c)
	slowVal, slowOk := m.slow.Update(c)

	if !fastOk || !slowOk {
		return MacdStats{}, false
	}

	macdLine := fastVal - slowVal

	signalVal, signalOk := m.signal.UpdateValue(macdLine)
	if !signalOk {
		return MacdStats{}, false
	}

	return MacdStats{
		MacdLine:   macdLine,
		SignalLine: signalVal,
		Histogram:  macdLine - signalVal,
	}, true
}
