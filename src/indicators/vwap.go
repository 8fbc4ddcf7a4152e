package indicators

import (
	"time"

	"github.com/stratbench/stratbench/src/models"
)

// Vwap accumulates typical price weighted by volume. With ResetDaily set the
// accumulators reset at each UTC date boundary, treating a day as one
// session; otherwise the whole series is one session.
type Vwap struct {
	ResetDaily bool

	currentDay time.Time
	cumPV      float64
	cumVolume  float64
}

func NewVwap() *Vwap {
	return &Vwap{}
}

func NewSessionVwap() *Vwap {
	return &Vwap{ResetDaily: true}
}

func (v *Vwap) Update(c models.Candle) (float64, bool) {
	if v.ResetDaily {
		day := c.Timestamp.UTC().Truncate(24 * time.Hour)
		if !day.Equal(v.currentDay) {
			v.currentDay = day
			v.cumPV = 0
			v.cumVolume = 0
		}
	}

	v.cumPV += c.TypicalPrice() * c.Volume
	v.cumVolume += c.Volume

	if v.cumVolume == 0 {
		return 0, false
	}

	return v.cumPV / v.cumVolume, true
}
