package backtester

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/stratbench/stratbench/src/models"
)

// MetricsCalculator derives the performance report from a completed trade
// log and equity curve. Statistics whose denominator is empty come back as
// nil, never NaN or Inf; win rate and profit factor use 0 for the all-empty
// case by convention.
type MetricsCalculator struct {
	initialBalance float64
}

func NewMetricsCalculator(initialBalance float64) *MetricsCalculator {
	return &MetricsCalculator{
		initialBalance: initialBalance,
	}
}

func (m *MetricsCalculator) Calculate(trades models.Trades, curve models.EquityCurve) (*models.MetricsReport, error) {
	finalBalance := m.initialBalance
	if len(curve) > 0 {
		finalBalance = curve[len(curve)-1].Equity
	}

	report := &models.MetricsReport{
		InitialBalance: m.initialBalance,
		FinalBalance:   finalBalance,
		TotalTrades:    len(trades),
		NetProfitLoss:  finalBalance - m.initialBalance,
		Trades:         trades,
		EquityCurve:    curve,
	}

	for _, trade := range trades {
		if trade.ProfitLoss > 0 {
			report.GrossProfit += trade.ProfitLoss
		} else {
			report.GrossLoss += math.Abs(trade.ProfitLoss)
		}
	}

	report.ProfitFactor = profitFactor(len(trades), report.GrossProfit, report.GrossLoss)

	if len(trades) > 0 {
		report.WinRate = float64(trades.WinningCount()) / float64(len(trades))

		pnls := trades.ProfitLosses()

		mean, err := stats.Mean(pnls)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate average trade pnl: %w", err)
		}
		report.AverageTradePnl = &mean

		largestWin, err := stats.Max(pnls)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate largest win: %w", err)
		}
		report.LargestWin = &largestWin

		largestLoss, err := stats.Min(pnls)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate largest loss: %w", err)
		}
		report.LargestLoss = &largestLoss

		var total time.Duration
		for _, d := range trades.Durations() {
			total += d
		}
		report.AverageTradeDuration = total / time.Duration(len(trades))
	}

	report.MaxDrawdown, report.MaxDrawdownFraction, report.DrawdownCurve = drawdown(curve)

	returns := curve.Returns()
	factor := models.AnnualizationFactor(curve.Timestamps())
	report.SharpeRatio = sharpeRatio(returns, factor)
	report.SortinoRatio = sortinoRatio(returns, factor)

	return report, nil
}

func profitFactor(totalTrades int, grossProfit, grossLoss float64) *float64 {
	if totalTrades == 0 {
		return nil
	}

	if grossLoss > 0 {
		factor := grossProfit / grossLoss
		return &factor
	}

	if grossProfit > 0 {
		// All trades won: the ratio is unbounded, reported as undefined
		// rather than Inf.
		return nil
	}

	zero := 0.0
	return &zero
}

// drawdown tracks the running equity peak, which is non-decreasing by
// construction, and returns the worst decline in absolute and fractional
// terms along with the per-bar fractional drawdown curve.
func drawdown(curve models.EquityCurve) (float64, float64, []float64) {
	if len(curve) == 0 {
		return 0, 0, nil
	}

	ddCurve := make([]float64, len(curve))

	peak := curve[0].Equity
	var maxAbs, maxFraction float64
	for i, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}

		abs := peak - point.Equity
		if abs > maxAbs {
			maxAbs = abs
		}

		if peak > 0 {
			ddCurve[i] = abs / peak
			if ddCurve[i] > maxFraction {
				maxFraction = ddCurve[i]
			}
		}
	}

	return maxAbs, maxFraction, ddCurve
}

func sharpeRatio(returns []float64, annualization float64) *float64 {
	if len(returns) < 2 {
		return nil
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return nil
	}

	sd, err := stats.StandardDeviation(returns)
	if err != nil || sd == 0 {
		return nil
	}

	ratio := mean / sd * math.Sqrt(annualization)
	return &ratio
}

func sortinoRatio(returns []float64, annualization float64) *float64 {
	if len(returns) < 2 {
		return nil
	}

	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	if len(downside) == 0 {
		return nil
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return nil
	}

	downsideDeviation, err := stats.StandardDeviation(downside)
	if err != nil || downsideDeviation == 0 {
		return nil
	}

	ratio := mean / downsideDeviation * math.Sqrt(annualization)
	return &ratio
}
