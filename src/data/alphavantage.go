package data

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/utils"
)

const alphaVantageBaseUrl = "https://www.alphavantage.co/query"

// AlphaVantageProvider fetches daily stock candles from the TIME_SERIES_DAILY
// endpoint. Intraday data needs a premium subscription, so sub-daily
// timeframes are rejected. Requires ALPHA_VANTAGE_API_KEY.
type AlphaVantageProvider struct{}

func NewAlphaVantageProvider() *AlphaVantageProvider {
	return &AlphaVantageProvider{}
}

func (p *AlphaVantageProvider) Name() string {
	return "alphavantage"
}

func (p *AlphaVantageProvider) FetchCandles(req FetchRequest) (*models.PriceSeries, error) {
	apiKey := os.Getenv("ALPHA_VANTAGE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("alphavantage: ALPHA_VANTAGE_API_KEY not set")
	}

	switch req.Timeframe {
	case models.Timeframe1Day, models.Timeframe1Week:
	default:
		return nil, fmt.Errorf("alphavantage: intraday timeframe %s requires a premium subscription", req.Timeframe)
	}

	params := url.Values{}
	params.Set("function", "TIME_SERIES_DAILY")
	params.Set("symbol", req.Symbol)
	params.Set("apikey", apiKey)
	params.Set("outputsize", "full")

	body, err := utils.Get(fmt.Sprintf("%s?%s", alphaVantageBaseUrl, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("alphavantage: %w", err)
	}

	candles, err := parseAlphaVantageDaily(body, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: %w", err)
	}

	return newSeries(req.Symbol, req.Timeframe, candles)
}

type alphaVantageDailyResponse struct {
	TimeSeries map[string]map[string]string `json:"Time Series (Daily)"`
	Note       string                       `json:"Note"`
	ErrorMsg   string                       `json:"Error Message"`
}

// parseAlphaVantageDaily decodes the keyed-by-date payload, filters to the
// requested window and sorts ascending.
func parseAlphaVantageDaily(body []byte, start, end time.Time) ([]models.Candle, error) {
	var response alphaVantageDailyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse daily response: %w", err)
	}

	if response.ErrorMsg != "" {
		return nil, fmt.Errorf("daily API error: %s", response.ErrorMsg)
	}

	if len(response.TimeSeries) == 0 {
		if response.Note != "" {
			return nil, fmt.Errorf("daily API throttled: %s", response.Note)
		}

		return nil, nil
	}

	candles := make([]models.Candle, 0, len(response.TimeSeries))
	for date, row := range response.TimeSeries {
		timestamp, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}

		if timestamp.Before(start) || timestamp.After(end) {
			continue
		}

		fields := make([]float64, 5)
		rowOk := true
		for i, key := range []string{"1. open", "2. high", "3. low", "4. close", "5. volume"} {
			value, parseErr := strconv.ParseFloat(row[key], 64)
			if parseErr != nil {
				rowOk = false
				break
			}

			fields[i] = value
		}

		if !rowOk {
			continue
		}

		candles = append(candles, models.Candle{
			Timestamp: timestamp.UTC(),
			Open:      fields[0],
			High:      fields[1],
			Low:       fields[2],
			Close:     fields[3],
			Volume:    fields[4],
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	return candles, nil
}
