package indicators

import (
	"math"

	"github.com/stratbench/stratbench/src/models"
)

// Rsi is Wilder's relative strength index. The first value is produced after
// Period price changes; subsequent averages use Wilder smoothing.
type Rsi struct {
	Period int

	prevClose float64
	hasPrev   bool

	sumGain float64
	sumLoss float64
	samples int

	avgGain float64
	avgLoss float64
	primed  bool
}

func NewRsi(period int) *Rsi {
	return &Rsi{
		Period: period,
	}
}

func (r *Rsi) Update(c models.Candle) (float64, bool) {
	if !r.hasPrev {
		r.prevClose = c.Close
		r.hasPrev = true
		return 0, false
	}

	delta := c.Close - r.prevClose
	r.prevClose = c.Close

	var gain, loss float64
	if delta > 0 {
		gain = delta
	} else {
		loss = math.Abs(delta)
	}

	if !r.primed {
		r.sumGain += gain
		r.sumLoss += loss
		r.samples += 1

		if r.samples < r.Period {
			return 0, false
		}

		r.avgGain = r.sumGain / float64(r.Period)
		r.avgLoss = r.sumLoss / float64(r.Period)
		r.primed = true
	} else {
		r.avgGain = (r.avgGain*(float64(r.Period)-1.0) + gain) / float64(r.Period)
		r.avgLoss = (r.avgLoss*(float64(r.Period)-1.0) + loss) / float64(r.Period)
	}

	if r.avgLoss == 0 {
		// A perfectly flat window has no gains either; report the
		// neutral midpoint rather than maximum strength.
		if r.avgGain == 0 {
			return 50, true
		}

		return 100, true
	}

	rs := r.avgGain / r.avgLoss
	return 100 - (100 / (1 + rs)), true
}
