package backtester

import (
	"fmt"
	"math"

	"github.com/stratbench/stratbench/src/models"
)

// SimulationEngine replays a signal sequence against a price series bar by
// bar, tracking cash and a single flat/long position. Fills happen at the
// bar's closing price; there is no intrabar model. The engine is purely
// sequential: bar i's state depends on bar i-1's, so a single run must never
// be parallelized. It performs no I/O and no logging.
type SimulationEngine struct {
	initialBalance float64
}

func NewSimulationEngine(initialBalance float64) (*SimulationEngine, error) {
	if initialBalance <= 0 {
		return nil, fmt.Errorf("%w: got %v", models.NonPositiveBalanceErr, initialBalance)
	}

	return &SimulationEngine{
		initialBalance: initialBalance,
	}, nil
}

type SimulationResult struct {
	Trades       models.Trades
	EquityCurve  models.EquityCurve
	FinalBalance float64
}

// Run consumes one signal per candle and returns the trade log and equity
// curve. A position still open after the final candle is force-closed at
// that candle's close and flagged with ExitReasonEndOfData.
func (e *SimulationEngine) Run(series *models.PriceSeries, signals []models.Signal) (*SimulationResult, error) {
	if len(signals) != series.Len() {
		return nil, fmt.Errorf("%w: %d signals for %d candles", models.SignalLengthMismatchErr, len(signals), series.Len())
	}

	cash := e.initialBalance
	var position models.Position
	trades := models.Trades{}
	curve := make(models.EquityCurve, 0, series.Len())

	closePosition := func(exitTimestamp models.Candle, exitPrice float64, reason models.ExitReason) {
		trades = append(trades, &models.Trade{
			ID:             len(trades) + 1,
			Symbol:         series.Symbol,
			EntryTimestamp: position.EntryTimestamp,
			EntryPrice:     position.EntryPrice,
			ExitTimestamp:  exitTimestamp.Timestamp,
			ExitPrice:      exitPrice,
			Quantity:       position.Quantity,
			ProfitLoss:     position.Quantity * (exitPrice - position.EntryPrice),
			ReturnFraction: exitPrice/position.EntryPrice - 1.0,
			Duration:       exitTimestamp.Timestamp.Sub(position.EntryTimestamp),
			ExitReason:     reason,
		})

		cash += position.Quantity * exitPrice
		position.Reset()
	}

	for i := range series.Candles {
		c := series.Candles[i]

		// A configured stop-loss is evaluated before the strategy's own
		// signal for the bar.
		if position.IsLong() && position.StopLoss != nil && c.Low <= *position.StopLoss {
			closePosition(c, *position.StopLoss, models.ExitReasonStopLoss)
		}

		switch signals[i].Type {
		case models.SignalEnterLong:
			// An entry on the final bar can never be held; it would only
			// produce a zero-duration force-close at the same price.
			if !position.IsLong() && i < series.Len()-1 {
				quantity := math.Floor(cash / c.Close)
				// Insufficient cash is not an error; the signal is ignored.
				if quantity > 0 {
					cash -= quantity * c.Close
					position = models.Position{
						State:          models.PositionLong,
						EntryPrice:     c.Close,
						EntryTimestamp: c.Timestamp,
						Quantity:       quantity,
						StopLoss:       signals[i].StopLoss,
					}
				}
			}
		case models.SignalExitLong:
			if position.IsLong() {
				closePosition(c, c.Close, models.ExitReasonSignal)
			}
		}

		equity := cash
		if position.IsLong() {
			equity += position.Quantity * c.Close
		}

		curve = append(curve, models.EquityPoint{
			Timestamp: c.Timestamp,
			Equity:    equity,
		})
	}

	if position.IsLong() {
		last := series.Candles[series.Len()-1]
		closePosition(last, last.Close, models.ExitReasonEndOfData)
	}

	return &SimulationResult{
		Trades:       trades,
		EquityCurve:  curve,
		FinalBalance: cash,
	}, nil
}
