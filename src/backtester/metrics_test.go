package backtester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratbench/stratbench/src/models"
)

const equalityThreshold = 1e-2

func testCurve(equities ...float64) models.EquityCurve {
	curve := make(models.EquityCurve, len(equities))
	for i, e := range equities {
		curve[i] = models.EquityPoint{
			Timestamp: testStart.Add(time.Duration(i) * 24 * time.Hour),
			Equity:    e,
		}
	}

	return curve
}

func testTrade(id int, pnl float64, duration time.Duration) *models.Trade {
	entry := testStart.Add(time.Duration(id) * 10 * 24 * time.Hour)
	return &models.Trade{
		ID:             id,
		Symbol:         "TEST",
		EntryTimestamp: entry,
		ExitTimestamp:  entry.Add(duration),
		EntryPrice:     100,
		ExitPrice:      100 + pnl,
		Quantity:       1,
		ProfitLoss:     pnl,
		ReturnFraction: pnl / 100,
		Duration:       duration,
		ExitReason:     models.ExitReasonSignal,
	}
}

func TestMetricsCalculator(t *testing.T) {
	t.Run("mixed trades", func(t *testing.T) {
		trades := models.Trades{
			testTrade(1, 100, 24*time.Hour),
			testTrade(2, -50, 48*time.Hour),
			testTrade(3, 30, 24*time.Hour),
		}
		curve := testCurve(1000, 1100, 1050, 1080)

		report, err := NewMetricsCalculator(1000).Calculate(trades, curve)
		require.NoError(t, err)

		assert.Equal(t, 3, report.TotalTrades)
		assert.Equal(t, 80.0, report.NetProfitLoss)
		assert.Equal(t, 1080.0, report.FinalBalance)
		assert.Equal(t, 130.0, report.GrossProfit)
		assert.Equal(t, 50.0, report.GrossLoss)

		require.NotNil(t, report.ProfitFactor)
		assert.InDelta(t, 2.6, *report.ProfitFactor, equalityThreshold)

		assert.InDelta(t, 2.0/3.0, report.WinRate, 1e-9)

		require.NotNil(t, report.AverageTradePnl)
		assert.InDelta(t, 80.0/3.0, *report.AverageTradePnl, equalityThreshold)

		require.NotNil(t, report.LargestWin)
		assert.Equal(t, 100.0, *report.LargestWin)
		require.NotNil(t, report.LargestLoss)
		assert.Equal(t, -50.0, *report.LargestLoss)

		assert.Equal(t, 32*time.Hour, report.AverageTradeDuration)
	})

	t.Run("no trades leaves ratio metrics undefined", func(t *testing.T) {
		curve := testCurve(1000, 1000, 1000)

		report, err := NewMetricsCalculator(1000).Calculate(nil, curve)
		require.NoError(t, err)

		assert.Equal(t, 0, report.TotalTrades)
		assert.Equal(t, 0.0, report.WinRate)
		assert.Nil(t, report.ProfitFactor)
		assert.Nil(t, report.AverageTradePnl)
		assert.Nil(t, report.LargestWin)
		assert.Nil(t, report.LargestLoss)
		assert.Equal(t, 0.0, report.NetProfitLoss)
	})

	t.Run("no losing trades leaves profit factor undefined", func(t *testing.T) {
		trades := models.Trades{
			testTrade(1, 120, 24*time.Hour),
			testTrade(2, 80, 24*time.Hour),
		}
		curve := testCurve(1000, 1120, 1200)

		report, err := NewMetricsCalculator(1000).Calculate(trades, curve)
		require.NoError(t, err)

		assert.Equal(t, 200.0, report.GrossProfit)
		assert.Equal(t, 0.0, report.GrossLoss)
		assert.Nil(t, report.ProfitFactor)
		assert.Equal(t, 1.0, report.WinRate)
	})

	t.Run("single losing trade drawdown", func(t *testing.T) {
		trades := models.Trades{testTrade(1, -50, 24 * time.Hour)}
		curve := testCurve(1000, 1000, 950)

		report, err := NewMetricsCalculator(1000).Calculate(trades, curve)
		require.NoError(t, err)

		assert.Equal(t, 0.0, report.WinRate)
		assert.Equal(t, 50.0, report.MaxDrawdown)
		assert.InDelta(t, 0.05, report.MaxDrawdownFraction, 1e-9)
		assert.Equal(t, []float64{0, 0, 0.05}, report.DrawdownCurve)
	})

	t.Run("drawdown resets its peak after recovery", func(t *testing.T) {
		curve := testCurve(1000, 1200, 900, 1300, 1100)

		report, err := NewMetricsCalculator(1000).Calculate(nil, curve)
		require.NoError(t, err)

		assert.Equal(t, 300.0, report.MaxDrawdown)
		assert.InDelta(t, 0.25, report.MaxDrawdownFraction, 1e-9) // 300 / 1200
		assert.InDelta(t, 200.0/1300.0, report.DrawdownCurve[4], 1e-9)
	})

	t.Run("sharpe defined for a volatile curve", func(t *testing.T) {
		curve := testCurve(1000, 1100, 1050, 1150, 1100)

		report, err := NewMetricsCalculator(1000).Calculate(nil, curve)
		require.NoError(t, err)

		require.NotNil(t, report.SharpeRatio)
		require.NotNil(t, report.SortinoRatio)
		assert.False(t, *report.SharpeRatio == 0)
		// Downside dispersion is narrower than total dispersion here, so
		// Sortino exceeds Sharpe for the same mean return.
		assert.Greater(t, *report.SortinoRatio, *report.SharpeRatio)
	})

	t.Run("sharpe undefined for a flat curve", func(t *testing.T) {
		curve := testCurve(1000, 1000, 1000, 1000)

		report, err := NewMetricsCalculator(1000).Calculate(nil, curve)
		require.NoError(t, err)

		assert.Nil(t, report.SharpeRatio)
		assert.Nil(t, report.SortinoRatio)
	})

	t.Run("sortino undefined without negative returns", func(t *testing.T) {
		curve := testCurve(1000, 1010, 1030, 1035)

		report, err := NewMetricsCalculator(1000).Calculate(nil, curve)
		require.NoError(t, err)

		require.NotNil(t, report.SharpeRatio)
		assert.Nil(t, report.SortinoRatio)
	})

	t.Run("ratios undefined below two returns", func(t *testing.T) {
		curve := testCurve(1000, 1050)

		report, err := NewMetricsCalculator(1000).Calculate(nil, curve)
		require.NoError(t, err)

		assert.Nil(t, report.SharpeRatio)
		assert.Nil(t, report.SortinoRatio)
	})
}

func TestProfitFactor(t *testing.T) {
	t.Run("ratio of gross figures", func(t *testing.T) {
		factor := profitFactor(4, 300, 100)
		require.NotNil(t, factor)
		assert.InDelta(t, 3.0, *factor, 1e-9)
	})

	t.Run("nil without trades", func(t *testing.T) {
		assert.Nil(t, profitFactor(0, 0, 0))
	})

	t.Run("nil when gross loss is zero but profit is not", func(t *testing.T) {
		assert.Nil(t, profitFactor(2, 200, 0))
	})

	t.Run("zero when trades exist but both gross figures are zero", func(t *testing.T) {
		factor := profitFactor(1, 0, 0)
		require.NotNil(t, factor)
		assert.Equal(t, 0.0, *factor)
	})
}
