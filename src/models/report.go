package models

import "time"

// MetricsReport is the read-only result of one backtest run. Metrics whose
// denominator is empty are nil pointers and serialize as JSON null; they are
// never NaN or Inf.
type MetricsReport struct {
	Symbol         string  `json:"symbol"`
	Strategy       string  `json:"strategy"`
	InitialBalance float64 `json:"initial_balance"`
	FinalBalance   float64 `json:"final_balance"`

	TotalTrades   int      `json:"total_trades"`
	NetProfitLoss float64  `json:"net_profit_loss"`
	GrossProfit   float64  `json:"gross_profit"`
	GrossLoss     float64  `json:"gross_loss"`
	ProfitFactor  *float64 `json:"profit_factor"`
	WinRate       float64  `json:"win_rate"`

	AverageTradePnl      *float64      `json:"average_trade_pnl"`
	LargestWin           *float64      `json:"largest_win"`
	LargestLoss          *float64      `json:"largest_loss"`
	AverageTradeDuration time.Duration `json:"average_trade_duration_ns"`

	MaxDrawdown         float64  `json:"max_drawdown"`
	MaxDrawdownFraction float64  `json:"max_drawdown_fraction"`
	SharpeRatio         *float64 `json:"sharpe_ratio"`
	SortinoRatio        *float64 `json:"sortino_ratio"`

	Trades        Trades      `json:"trades"`
	EquityCurve   EquityCurve `json:"equity_curve"`
	DrawdownCurve []float64   `json:"drawdown_curve"`
}
