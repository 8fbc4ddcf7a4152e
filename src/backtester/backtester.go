package backtester

import (
	"fmt"

	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/strategies"
)

// MinimumCandles is the absolute floor for a run: below it no per-bar
// return can be computed. A series that merely undershoots a strategy's
// warm-up is still a valid run that holds throughout.
const MinimumCandles = 2

// RunBacktest wires series -> strategy -> simulation -> metrics and returns
// the single result object. It is deterministic: identical inputs produce an
// identical report.
func RunBacktest(series *models.PriceSeries, strategyID strategies.StrategyID, params strategies.Params, initialBalance float64) (*models.MetricsReport, error) {
	if initialBalance <= 0 {
		return nil, fmt.Errorf("%w: got %v", models.NonPositiveBalanceErr, initialBalance)
	}

	if series == nil {
		return nil, fmt.Errorf("%w: series is nil", models.InvalidSeriesErr)
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}

	if series.Len() < MinimumCandles {
		return nil, &models.InsufficientDataError{
			MinRequired: MinimumCandles,
			Actual:      series.Len(),
		}
	}

	strategy, err := strategies.New(strategyID, params)
	if err != nil {
		return nil, err
	}

	signals, err := strategy.GenerateSignals(series)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signals: %w", err)
	}

	engine, err := NewSimulationEngine(initialBalance)
	if err != nil {
		return nil, err
	}

	simulation, err := engine.Run(series, signals)
	if err != nil {
		return nil, err
	}

	report, err := NewMetricsCalculator(initialBalance).Calculate(simulation.Trades, simulation.EquityCurve)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate metrics: %w", err)
	}

	report.Symbol = series.Symbol
	report.Strategy = strategy.Name()

	return report, nil
}
