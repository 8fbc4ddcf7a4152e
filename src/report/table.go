package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stratbench/stratbench/src/backtester"
	"github.com/stratbench/stratbench/src/models"
)

// notAvailable renders metrics whose denominator was empty.
const notAvailable = "n/a"

func formatNullable(value *float64, format string) string {
	if value == nil {
		return notAvailable
	}

	return fmt.Sprintf(format, *value)
}

// RenderMetrics renders a backtest report as a two-column summary table.
func RenderMetrics(report *models.MetricsReport) string {
	display := &strings.Builder{}
	p := message.NewPrinter(language.English)

	display.WriteString(fmt.Sprintf("Backtest: %s / %s\n", report.Symbol, report.Strategy))

	table := tablewriter.NewWriter(display)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetColumnSeparator("")

	rows := [][]string{
		{"Initial balance", p.Sprintf("$%.2f", report.InitialBalance)},
		{"Final balance", p.Sprintf("$%.2f", report.FinalBalance)},
		{"Net P&L", p.Sprintf("$%.2f", report.NetProfitLoss)},
		{"Total trades", p.Sprintf("%d", report.TotalTrades)},
		{"Win rate", fmt.Sprintf("%.1f%%", report.WinRate*100)},
		{"Gross profit", p.Sprintf("$%.2f", report.GrossProfit)},
		{"Gross loss", p.Sprintf("$%.2f", report.GrossLoss)},
		{"Profit factor", formatNullable(report.ProfitFactor, "%.2f")},
		{"Average trade P&L", formatNullable(report.AverageTradePnl, "$%.2f")},
		{"Largest win", formatNullable(report.LargestWin, "$%.2f")},
		{"Largest loss", formatNullable(report.LargestLoss, "$%.2f")},
		{"Average trade duration", formatDuration(report.AverageTradeDuration)},
		{"Max drawdown", p.Sprintf("$%.2f", report.MaxDrawdown)},
		{"Max drawdown %", fmt.Sprintf("%.2f%%", report.MaxDrawdownFraction*100)},
		{"Sharpe ratio", formatNullable(report.SharpeRatio, "%.2f")},
		{"Sortino ratio", formatNullable(report.SortinoRatio, "%.2f")},
	}

	for _, row := range rows {
		table.Append(row)
	}

	table.Render()
	return display.String()
}

// RenderTrades renders the closed-trade log.
func RenderTrades(trades models.Trades) string {
	display := &strings.Builder{}

	if len(trades) == 0 {
		display.WriteString("No trades executed.\n")
		return display.String()
	}

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"#", "Entry", "Exit", "Entry $", "Exit $", "Qty", "P&L", "Reason"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, trade := range trades {
		table.Append([]string{
			fmt.Sprintf("%d", trade.ID),
			trade.EntryTimestamp.Format("2006-01-02 15:04"),
			trade.ExitTimestamp.Format("2006-01-02 15:04"),
			fmt.Sprintf("%.2f", trade.EntryPrice),
			fmt.Sprintf("%.2f", trade.ExitPrice),
			fmt.Sprintf("%v", trade.Quantity),
			fmt.Sprintf("%.2f", trade.ProfitLoss),
			string(trade.ExitReason),
		})
	}

	table.Render()
	return display.String()
}

// RenderComparison renders the side-by-side strategy comparison.
func RenderComparison(comparison *backtester.StrategyComparison) string {
	display := &strings.Builder{}

	if comparison == nil {
		display.WriteString("No strategies to compare.\n")
		return display.String()
	}

	table := tablewriter.NewWriter(display)
	table.SetHeader([]string{"Strategy", "Net P&L", "Win Rate", "Sharpe", "Max DD", "Trades"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for i, name := range comparison.Strategies {
		marker := ""
		if name == comparison.BestStrategy {
			marker = " *"
		}

		table.Append([]string{
			name + marker,
			fmt.Sprintf("%.2f", comparison.NetProfits[i]),
			fmt.Sprintf("%.1f%%", comparison.WinRates[i]*100),
			formatNullable(comparison.SharpeRatios[i], "%.2f"),
			fmt.Sprintf("%.2f", comparison.MaxDrawdowns[i]),
			fmt.Sprintf("%d", comparison.TotalTrades[i]),
		})
	}

	table.Render()
	display.WriteString(fmt.Sprintf("Best strategy: %s (net %.2f)\n", comparison.BestStrategy, comparison.BestNetProfit))
	return display.String()
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return notAvailable
	}

	if d >= 24*time.Hour {
		return fmt.Sprintf("%.1fd", d.Hours()/24)
	}

	return d.Round(time.Minute).String()
}
