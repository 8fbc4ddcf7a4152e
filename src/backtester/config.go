package backtester

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/strategies"
)

type BacktestConfig struct {
	Symbol     string             `yaml:"symbol"`
	Timeframe  string             `yaml:"timeframe"`
	StrategyID int                `yaml:"strategy_id"`
	Params     map[string]float64 `yaml:"params"`
}

// RunConfig is the yaml batch description consumed by the CLI run command.
type RunConfig struct {
	InitialBalance float64          `yaml:"initial_balance"`
	MaxWorkers     int              `yaml:"max_workers"`
	Backtests      []BacktestConfig `yaml:"backtests"`
}

func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var config RunConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if config.InitialBalance == 0 {
		config.InitialBalance = 100000
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *RunConfig) Validate() error {
	if c.InitialBalance <= 0 {
		return fmt.Errorf("%w: got %v", models.NonPositiveBalanceErr, c.InitialBalance)
	}

	if len(c.Backtests) == 0 {
		return fmt.Errorf("%w: config lists no backtests", models.InvalidConfigErr)
	}

	for i, backtest := range c.Backtests {
		if backtest.Symbol == "" {
			return fmt.Errorf("%w: backtest %d has no symbol", models.InvalidConfigErr, i)
		}

		id := strategies.StrategyID(backtest.StrategyID)
		if _, err := strategies.New(id, backtest.Params); err != nil {
			return fmt.Errorf("backtest %d (%s): %w", i, backtest.Symbol, err)
		}
	}

	return nil
}
