package indicators

import "github.com/stratbench/stratbench/src/models"

// Sma maintains a rolling arithmetic mean of closing prices. Amortized O(1)
// per update.
type Sma struct {
	Period int
	window []float64
	sum    float64
}

func NewSma(period int) *Sma {
	return &Sma{
		Period: period,
	}
}

// Update feeds one candle and returns the current value. The second return
// is false until a full window has been observed.
func (s *Sma) Update(c models.Candle) (float64, bool) {
	return s.UpdateValue(c.Close)
}

func (s *Sma) UpdateValue(v float64) (float64, bool) {
	s.window = append(s.window, v)
	s.sum += v

	if len(s.window) > s.Period {
		s.sum -= s.window[0]
		s.window = s.window[1:]
	}

	if len(s.window) < s.Period {
		return 0, false
	}

	return s.sum / float64(s.Period), true
}
