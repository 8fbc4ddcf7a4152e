package backtester

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratbench/stratbench/src/models"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	return path
}

func TestLoadRunConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `
initial_balance: 25000
max_workers: 8
backtests:
  - symbol: AAPL
    timeframe: 1d
    strategy_id: 1
    params:
      fast_period: 5
      slow_period: 15
  - symbol: BTC-USD
    timeframe: 4h
    strategy_id: 2
`)

		config, err := LoadRunConfig(path)
		require.NoError(t, err)

		assert.Equal(t, 25000.0, config.InitialBalance)
		assert.Equal(t, 8, config.MaxWorkers)
		require.Len(t, config.Backtests, 2)
		assert.Equal(t, "AAPL", config.Backtests[0].Symbol)
		assert.Equal(t, 5.0, config.Backtests[0].Params["fast_period"])
		assert.Equal(t, 2, config.Backtests[1].StrategyID)
	})

	t.Run("balance defaults when omitted", func(t *testing.T) {
		path := writeConfig(t, `
backtests:
  - symbol: AAPL
    strategy_id: 1
`)

		config, err := LoadRunConfig(path)
		require.NoError(t, err)
		assert.Equal(t, 100000.0, config.InitialBalance)
	})

	t.Run("negative balance rejected", func(t *testing.T) {
		path := writeConfig(t, `
initial_balance: -100
backtests:
  - symbol: AAPL
    strategy_id: 1
`)

		_, err := LoadRunConfig(path)
		assert.ErrorIs(t, err, models.NonPositiveBalanceErr)
	})

	t.Run("empty backtest list rejected", func(t *testing.T) {
		path := writeConfig(t, `initial_balance: 1000`)

		_, err := LoadRunConfig(path)
		assert.ErrorIs(t, err, models.InvalidConfigErr)
	})

	t.Run("missing symbol rejected", func(t *testing.T) {
		path := writeConfig(t, `
backtests:
  - strategy_id: 1
`)

		_, err := LoadRunConfig(path)
		assert.ErrorIs(t, err, models.InvalidConfigErr)
	})

	t.Run("unknown strategy rejected", func(t *testing.T) {
		path := writeConfig(t, `
backtests:
  - symbol: AAPL
    strategy_id: 42
`)

		_, err := LoadRunConfig(path)
		assert.ErrorIs(t, err, models.UnknownStrategyErr)
	})

	t.Run("bad strategy params rejected", func(t *testing.T) {
		path := writeConfig(t, `
backtests:
  - symbol: AAPL
    strategy_id: 1
    params:
      fast_period: 30
      slow_period: 10
`)

		_, err := LoadRunConfig(path)
		assert.ErrorIs(t, err, models.InvalidConfigErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRunConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
