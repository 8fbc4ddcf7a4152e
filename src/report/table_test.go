package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stratbench/stratbench/src/backtester"
	"github.com/stratbench/stratbench/src/models"
)

func TestRenderMetrics(t *testing.T) {
	t.Run("defined metrics rendered", func(t *testing.T) {
		factor := 2.5
		sharpe := 1.31
		report := &models.MetricsReport{
			Symbol:         "AAPL",
			Strategy:       "sma-crossover",
			InitialBalance: 10000,
			FinalBalance:   11250,
			NetProfitLoss:  1250,
			TotalTrades:    8,
			WinRate:        0.625,
			ProfitFactor:   &factor,
			SharpeRatio:    &sharpe,
		}

		out := RenderMetrics(report)

		assert.Contains(t, out, "AAPL")
		assert.Contains(t, out, "sma-crossover")
		assert.Contains(t, out, "11,250.00")
		assert.Contains(t, out, "62.5%")
		assert.Contains(t, out, "2.50")
		assert.Contains(t, out, "1.31")
	})

	t.Run("undefined metrics render as n/a", func(t *testing.T) {
		report := &models.MetricsReport{
			Symbol:         "AAPL",
			Strategy:       "sma-crossover",
			InitialBalance: 10000,
			FinalBalance:   10000,
		}

		out := RenderMetrics(report)
		assert.Contains(t, out, notAvailable)
		assert.NotContains(t, out, "NaN")
		assert.NotContains(t, out, "Inf")
	})
}

func TestRenderTrades(t *testing.T) {
	t.Run("empty log", func(t *testing.T) {
		assert.Contains(t, RenderTrades(nil), "No trades")
	})

	t.Run("rows rendered", func(t *testing.T) {
		entry := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)
		trades := models.Trades{
			{
				ID:             1,
				Symbol:         "AAPL",
				EntryTimestamp: entry,
				ExitTimestamp:  entry.Add(48 * time.Hour),
				EntryPrice:     185,
				ExitPrice:      190,
				Quantity:       10,
				ProfitLoss:     50,
				ExitReason:     models.ExitReasonStopLoss,
			},
		}

		out := RenderTrades(trades)
		assert.Contains(t, out, "2024-01-02 09:30")
		assert.Contains(t, out, "190.00")
		assert.Contains(t, out, "stop-loss")
	})
}

func TestRenderComparison(t *testing.T) {
	t.Run("nil comparison", func(t *testing.T) {
		assert.Contains(t, RenderComparison(nil), "No strategies")
	})

	t.Run("best strategy marked", func(t *testing.T) {
		comparison := &backtester.StrategyComparison{
			Strategies:    []string{"sma-crossover", "macd-crossover"},
			NetProfits:    []float64{120, 450},
			WinRates:      []float64{0.5, 0.7},
			SharpeRatios:  []*float64{nil, nil},
			MaxDrawdowns:  []float64{80, 60},
			TotalTrades:   []int{4, 6},
			BestStrategy:  "macd-crossover",
			BestNetProfit: 450,
		}

		out := RenderComparison(comparison)
		assert.Contains(t, out, "macd-crossover *")
		assert.Contains(t, out, "Best strategy: macd-crossover")
		assert.Contains(t, out, notAvailable)
	})
}
