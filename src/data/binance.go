package data

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/utils"
)

const binanceBaseUrl = "https://api.binance.com/api/v3"

// BinanceProvider fetches crypto candles from the Binance klines endpoint.
// Symbols without a quote asset are suffixed with USDT.
type BinanceProvider struct{}

func NewBinanceProvider() *BinanceProvider {
	return &BinanceProvider{}
}

func (p *BinanceProvider) Name() string {
	return "binance"
}

var binanceIntervals = map[models.Timeframe]string{
	models.Timeframe1Min:  "1m",
	models.Timeframe5Min:  "5m",
	models.Timeframe15Min: "15m",
	models.Timeframe1Hour: "1h",
	models.Timeframe1Day:  "1d",
	models.Timeframe1Week: "1w",
}

func binanceSymbol(symbol string) string {
	s := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(symbol, "-", ""), "/", ""))
	if !strings.HasSuffix(s, "USDT") && !strings.HasSuffix(s, "BTC") {
		s += "USDT"
	}

	return s
}

func (p *BinanceProvider) FetchCandles(req FetchRequest) (*models.PriceSeries, error) {
	interval, found := binanceIntervals[req.Timeframe]
	if !found {
		interval = "1d"
	}

	params := url.Values{}
	params.Set("symbol", binanceSymbol(req.Symbol))
	params.Set("interval", interval)
	params.Set("startTime", fmt.Sprintf("%d", req.Start.UnixMilli()))
	params.Set("endTime", fmt.Sprintf("%d", req.End.UnixMilli()))
	params.Set("limit", "1000")

	body, err := utils.Get(fmt.Sprintf("%s/klines?%s", binanceBaseUrl, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("binance: %w", err)
	}

	candles, err := parseBinanceKlines(body)
	if err != nil {
		return nil, fmt.Errorf("binance: %w", err)
	}

	return newSeries(req.Symbol, req.Timeframe, candles)
}

// parseBinanceKlines decodes the klines payload: an array of 12-element rows
// [openTime, open, high, low, close, volume, closeTime, ...] where prices
// arrive as strings.
func parseBinanceKlines(body []byte) ([]models.Candle, error) {
	var rows [][]json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse klines response: %w", err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		if len(row) < 6 {
			continue
		}

		var openTime int64
		if err := json.Unmarshal(row[0], &openTime); err != nil {
			return nil, fmt.Errorf("failed to parse kline open time: %w", err)
		}

		prices := make([]float64, 5)
		for i := 1; i <= 5; i += 1 {
			var raw string
			if err := json.Unmarshal(row[i], &raw); err != nil {
				return nil, fmt.Errorf("failed to parse kline field %d: %w", i, err)
			}

			value, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse kline field %d: %w", i, err)
			}

			prices[i-1] = value
		}

		candles = append(candles, models.Candle{
			Timestamp: time.UnixMilli(openTime).UTC(),
			Open:      prices[0],
			High:      prices[1],
			Low:       prices[2],
			Close:     prices[3],
			Volume:    prices[4],
		})
	}

	return candles, nil
}
