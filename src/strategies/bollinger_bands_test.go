package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stratbench/stratbench/src/models"
)

func TestBollingerReversion(t *testing.T) {
	t.Run("enter below lower band, exit above middle", func(t *testing.T) {
		// period 3, k=1: the drop to 5 pierces the lower band, the rebound
		// to 10 crosses back over the middle band
		series := seriesFromCloses(t, []float64{10, 10, 10, 5, 10, 10})

		strategy, err := NewBollingerReversion(3, 1)
		assert.NoError(t, err)

		signals, err := strategy.GenerateSignals(series)
		assert.NoError(t, err)

		types := signalTypes(signals)
		assert.Equal(t, models.SignalEnterLong, types[3])
		assert.Equal(t, models.SignalExitLong, types[4])
	})

	t.Run("flat series never signals", func(t *testing.T) {
		series := seriesFromCloses(t, []float64{10, 10, 10, 10, 10, 10})

		strategy, err := NewBollingerReversion(3, 2)
		assert.NoError(t, err)

		signals, err := strategy.GenerateSignals(series)
		assert.NoError(t, err)

		for _, signalType := range signalTypes(signals) {
			assert.Equal(t, models.SignalHold, signalType)
		}
	})
}
