package data

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/utils"
)

const yahooBaseUrl = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooProvider fetches candles from the Yahoo Finance chart API. It needs no
// API key and covers stocks, ETFs, forex pairs and major crypto symbols.
type YahooProvider struct{}

func NewYahooProvider() *YahooProvider {
	return &YahooProvider{}
}

func (p *YahooProvider) Name() string {
	return "yahoo"
}

var yahooIntervals = map[models.Timeframe]string{
	models.Timeframe1Min:  "1m",
	models.Timeframe5Min:  "5m",
	models.Timeframe15Min: "15m",
	models.Timeframe1Hour: "60m",
	models.Timeframe1Day:  "1d",
	models.Timeframe1Week: "1wk",
}

func (p *YahooProvider) FetchCandles(req FetchRequest) (*models.PriceSeries, error) {
	interval, found := yahooIntervals[req.Timeframe]
	if !found {
		interval = "1d"
	}

	params := url.Values{}
	params.Set("period1", fmt.Sprintf("%d", req.Start.Unix()))
	params.Set("period2", fmt.Sprintf("%d", req.End.Unix()))
	params.Set("interval", interval)

	endpoint := fmt.Sprintf("%s/%s?%s", yahooBaseUrl, url.PathEscape(req.Symbol), params.Encode())

	body, err := utils.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %w", err)
	}

	candles, err := parseYahooChart(body)
	if err != nil {
		return nil, fmt.Errorf("yahoo: %w", err)
	}

	return newSeries(req.Symbol, req.Timeframe, candles)
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// parseYahooChart flattens the chart payload into candles. Yahoo pads gaps
// with JSON nulls; those rows are skipped.
func parseYahooChart(body []byte) ([]models.Candle, error) {
	var response yahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse chart response: %w", err)
	}

	if response.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}

	if len(response.Chart.Result) == 0 || len(response.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := response.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	candles := make([]models.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}

		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}

		var volume float64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}

		candles = append(candles, models.Candle{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *quote.Open[i],
			High:      *quote.High[i],
			Low:       *quote.Low[i],
			Close:     *quote.Close[i],
			Volume:    volume,
		})
	}

	return candles, nil
}
