package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/stratbench/stratbench/src/backtester"
	"github.com/stratbench/stratbench/src/data"
	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/strategies"
)

const defaultInitialBalance = 100000.0

// CandleFetcher is the slice of the data service the handlers need.
type CandleFetcher interface {
	FetchCandles(req data.FetchRequest) (*models.PriceSeries, error)
}

type Handler struct {
	fetcher CandleFetcher
}

func NewHandler(fetcher CandleFetcher) *Handler {
	return &Handler{
		fetcher: fetcher,
	}
}

func setResponse(response interface{}, w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(200)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		return fmt.Errorf("setResponse: encode: %w", err)
	}

	return nil
}

func setErrorResponse(errType string, statusCode int, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := NewErrorResponse(errType, err.Error())
	if encodeErr := json.NewEncoder(w).Encode(resp); encodeErr != nil {
		log.Errorf("setErrorResponse: encode: %v", encodeErr)
	}
}

// statusFor maps the error taxonomy to HTTP statuses: client mistakes are
// 400s, provider failures 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.InvalidSeriesErr),
		errors.Is(err, models.InsufficientDataErr),
		errors.Is(err, models.InvalidConfigErr),
		errors.Is(err, models.UnknownStrategyErr),
		errors.Is(err, models.NonPositiveBalanceErr),
		errors.Is(err, models.SignalLengthMismatchErr):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

// resolveSeries uses inline candles when the request carries them, otherwise
// fetches the window from the data service.
func (h *Handler) resolveSeries(symbol, timeframe, startDate, endDate string, candles []models.Candle) (*models.PriceSeries, error) {
	tf := models.Timeframe(timeframe)
	if tf == "" {
		tf = models.Timeframe1Day
	}

	if len(candles) > 0 {
		return models.NewPriceSeries(symbol, tf, candles)
	}

	start, end, err := parseWindow(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.InvalidConfigErr, err)
	}

	return h.fetcher.FetchCandles(data.FetchRequest{
		Symbol:    symbol,
		Timeframe: tf,
		Start:     start,
		End:       end,
	})
}

func (h *Handler) postBacktest(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse("postBacktest: invalid payload", http.StatusBadRequest, err, w)
		return
	}

	if req.InitialBalance == 0 {
		req.InitialBalance = defaultInitialBalance
	}

	series, err := h.resolveSeries(req.Symbol, req.Timeframe, req.StartDate, req.EndDate, req.Candles)
	if err != nil {
		setErrorResponse("postBacktest: failed to resolve series", statusFor(err), err, w)
		return
	}

	report, err := backtester.RunBacktest(series, strategies.StrategyID(req.StrategyID), req.Params, req.InitialBalance)
	if err != nil {
		setErrorResponse("postBacktest: backtest failed", statusFor(err), err, w)
		return
	}

	log.WithFields(log.Fields{
		"request_id": requestID,
		"symbol":     req.Symbol,
		"strategy":   report.Strategy,
		"trades":     report.TotalTrades,
	}).Info("backtest served")

	if err := setResponse(BacktestResponse{RequestID: requestID, Report: report}, w); err != nil {
		log.Errorf("postBacktest: %v", err)
	}
}

func (h *Handler) postCompare(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setErrorResponse("postCompare: invalid payload", http.StatusBadRequest, err, w)
		return
	}

	if req.InitialBalance == 0 {
		req.InitialBalance = defaultInitialBalance
	}

	series, err := h.resolveSeries(req.Symbol, req.Timeframe, req.StartDate, req.EndDate, req.Candles)
	if err != nil {
		setErrorResponse("postCompare: failed to resolve series", statusFor(err), err, w)
		return
	}

	var reports []*models.MetricsReport
	for _, id := range strategies.AllStrategyIDs() {
		report, runErr := backtester.RunBacktest(series, id, nil, req.InitialBalance)
		if runErr != nil {
			setErrorResponse("postCompare: backtest failed", statusFor(runErr), runErr, w)
			return
		}

		reports = append(reports, report)
	}

	comparison := backtester.CompareStrategies(reports)

	log.WithFields(log.Fields{
		"request_id": requestID,
		"symbol":     req.Symbol,
		"best":       comparison.BestStrategy,
	}).Info("comparison served")

	if err := setResponse(comparison, w); err != nil {
		log.Errorf("postCompare: %v", err)
	}
}

func (h *Handler) getCandles(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	symbol := vars["symbol"]

	query := r.URL.Query()
	timeframe := models.Timeframe(query.Get("timeframe"))
	if timeframe == "" {
		timeframe = models.Timeframe1Day
	}

	start, end, err := parseWindow(query.Get("start_date"), query.Get("end_date"))
	if err != nil {
		setErrorResponse("getCandles: invalid window", http.StatusBadRequest, err, w)
		return
	}

	series, err := h.fetcher.FetchCandles(data.FetchRequest{
		Symbol:    symbol,
		Timeframe: timeframe,
		Start:     start,
		End:       end,
	})
	if err != nil {
		setErrorResponse("getCandles: fetch failed", statusFor(err), err, w)
		return
	}

	response := CandlesResponse{
		Symbol:    series.Symbol,
		Timeframe: string(series.Timeframe),
		Candles:   series.Candles,
	}

	if err := setResponse(response, w); err != nil {
		log.Errorf("getCandles: %v", err)
	}
}

func (h *Handler) getStrategies(w http.ResponseWriter, r *http.Request) {
	var descriptors []StrategyDescriptor
	for _, id := range strategies.AllStrategyIDs() {
		descriptors = append(descriptors, StrategyDescriptor{
			ID:       int(id),
			Name:     id.String(),
			Defaults: strategies.Defaults(id),
		})
	}

	if err := setResponse(descriptors, w); err != nil {
		log.Errorf("getStrategies: %v", err)
	}
}

func (h *Handler) getIndicators(w http.ResponseWriter, r *http.Request) {
	indicators := []string{"sma", "ema", "rsi", "bollinger_bands", "macd", "atr", "vwap"}

	if err := setResponse(indicators, w); err != nil {
		log.Errorf("getIndicators: %v", err)
	}
}
