package api

import (
	"fmt"
	"time"

	"github.com/stratbench/stratbench/src/models"
)

type errorResponse struct {
	Type string `json:"type"`
	Msg  string `json:"message"`
}

func NewErrorResponse(errType string, message string) *errorResponse {
	return &errorResponse{
		Type: errType,
		Msg:  message,
	}
}

// BacktestRequest drives POST /api/backtest. Candles may be supplied inline;
// otherwise they are fetched for the start/end window via the data service.
type BacktestRequest struct {
	Symbol         string             `json:"symbol"`
	Timeframe      string             `json:"timeframe"`
	StrategyID     int                `json:"strategy_id"`
	Params         map[string]float64 `json:"params"`
	InitialBalance float64            `json:"initial_balance"`
	Candles        []models.Candle    `json:"candles,omitempty"`
	StartDate      string             `json:"start_date,omitempty"`
	EndDate        string             `json:"end_date,omitempty"`
}

type BacktestResponse struct {
	RequestID string                `json:"request_id"`
	Report    *models.MetricsReport `json:"report"`
}

// CompareRequest drives POST /api/compare: the same input as a backtest, run
// across every registered strategy.
type CompareRequest struct {
	Symbol         string          `json:"symbol"`
	Timeframe      string          `json:"timeframe"`
	InitialBalance float64         `json:"initial_balance"`
	Candles        []models.Candle `json:"candles,omitempty"`
	StartDate      string          `json:"start_date,omitempty"`
	EndDate        string          `json:"end_date,omitempty"`
}

type StrategyDescriptor struct {
	ID       int                `json:"id"`
	Name     string             `json:"name"`
	Defaults map[string]float64 `json:"default_params"`
}

type CandlesResponse struct {
	Symbol    string          `json:"symbol"`
	Timeframe string          `json:"timeframe"`
	Candles   []models.Candle `json:"candles"`
}

const requestDateLayout = "2006-01-02"

// parseWindow resolves the optional fetch window, defaulting to the last
// year of daily history.
func parseWindow(startDate, endDate string) (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(-1, 0, 0)

	if startDate != "" {
		parsed, err := time.Parse(requestDateLayout, startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date %q: %w", startDate, err)
		}
		start = parsed
	}

	if endDate != "" {
		parsed, err := time.Parse(requestDateLayout, endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date %q: %w", endDate, err)
		}
		end = parsed
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date %s is not before end_date %s", start.Format(requestDateLayout), end.Format(requestDateLayout))
	}

	return start, end, nil
}
