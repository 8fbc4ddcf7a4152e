package indicators

import "github.com/stratbench/stratbench/src/models"

// Ema smooths with factor 2/(period+1), seeded by the simple average of the
// first period values.
type Ema struct {
	Period int
	alpha  float64
	seed   []float64
	value  float64
	primed bool
}

func NewEma(period int) *Ema {
	return &Ema{
		Period: period,
		alpha:  2.0 / (float64(period) + 1.0),
	}
}

func (e *Ema) Update(c models.Candle) (float64, bool) {
	return e.UpdateValue(c.Close)
}

// UpdateValue accepts a raw value so an Ema can also smooth a derived series,
// e.g. the MACD signal line.
func (e *Ema) UpdateValue(v float64) (float64, bool) {
	if !e.primed {
		e.seed = append(e.seed, v)
		if len(e.seed) < e.Period {
			return 0, false
		}

		sum := 0.0
		for _, s := range e.seed {
			sum += s
		}

		e.value = sum / float64(e.Period)
		e.seed = nil
		e.primed = true
		return e.value, true
	}

	e.value += e.alpha * (v - e.value)
	return e.value, true
}
