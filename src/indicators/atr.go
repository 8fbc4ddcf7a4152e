package indicators

import (
	"math"

	"github.com/stratbench/stratbench/src/models"
)

// Atr is the Wilder-smoothed average true range.
type Atr struct {
	Period int

	prevClose float64
	hasPrev   bool

	sum     float64
	samples int
	value   float64
	primed  bool
}

func NewAtr(period int) *Atr {
	return &Atr{
		Period: period,
	}
}

func (a *Atr) trueRange(c models.Candle) float64 {
	if !a.hasPrev {
		return c.High - c.Low
	}

	tr := c.High - c.Low
	tr = math.Max(tr, math.Abs(c.High-a.prevClose))
	tr = math.Max(tr, math.Abs(c.Low-a.prevClose))
	return tr
}

func (a *Atr) Update(c models.Candle) (float64, bool) {
	tr := a.trueRange(c)
	a.prevClose = c.Close
	a.hasPrev = true

	if !a.primed {
		a.sum += tr
		a.samples += 1

		if a.samples < a.Period {
			return 0, false
		}

		a.value = a.sum / float64(a.Period)
		a.primed = true
		return a.value, true
	}

	a.value = (a.value*(float64(a.Period)-1.0) + tr) / float64(a.Period)
	return a.value, true
}
