package backtester

import "github.com/stratbench/stratbench/src/models"

// StrategyComparison lines up the headline figures of several reports,
// typically the five strategies run over the same series.
type StrategyComparison struct {
	Strategies    []string   `json:"strategies"`
	NetProfits    []float64  `json:"net_profits"`
	WinRates      []float64  `json:"win_rates"`
	SharpeRatios  []*float64 `json:"sharpe_ratios"`
	MaxDrawdowns  []float64  `json:"max_drawdowns"`
	TotalTrades   []int      `json:"total_trades"`
	BestStrategy  string     `json:"best_strategy"`
	BestNetProfit float64    `json:"best_net_profit"`
}

// CompareStrategies picks the best report by net profit. Returns nil for an
// empty input.
func CompareStrategies(reports []*models.MetricsReport) *StrategyComparison {
	if len(reports) == 0 {
		return nil
	}

	comparison := &StrategyComparison{}

	bestIdx := 0
	for i, report := range reports {
		comparison.Strategies = append(comparison.Strategies, report.Strategy)
		comparison.NetProfits = append(comparison.NetProfits, report.NetProfitLoss)
		comparison.WinRates = append(comparison.WinRates, report.WinRate)
		comparison.SharpeRatios = append(comparison.SharpeRatios, report.SharpeRatio)
		comparison.MaxDrawdowns = append(comparison.MaxDrawdowns, report.MaxDrawdown)
		comparison.TotalTrades = append(comparison.TotalTrades, report.TotalTrades)

		if report.NetProfitLoss > reports[bestIdx].NetProfitLoss {
			bestIdx = i
		}
	}

	comparison.BestStrategy = reports[bestIdx].Strategy
	comparison.BestNetProfit = reports[bestIdx].NetProfitLoss

	return comparison
}
