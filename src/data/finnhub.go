package data

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/utils"
)

const finnhubBaseUrl = "https://finnhub.io/api/v1"

// FinnhubProvider fetches stock and forex candles from the Finnhub candle
// endpoint. Requires FINNHUB_API_KEY.
type FinnhubProvider struct{}

func NewFinnhubProvider() *FinnhubProvider {
	return &FinnhubProvider{}
}

func (p *FinnhubProvider) Name() string {
	return "finnhub"
}

var finnhubResolutions = map[models.Timeframe]string{
	models.Timeframe1Min:  "1",
	models.Timeframe5Min:  "5",
	models.Timeframe15Min: "15",
	models.Timeframe1Hour: "60",
	models.Timeframe1Day:  "D",
	models.Timeframe1Week: "W",
}

func (p *FinnhubProvider) FetchCandles(req FetchRequest) (*models.PriceSeries, error) {
	apiKey := os.Getenv("FINNHUB_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("finnhub: FINNHUB_API_KEY not set")
	}

	resolution, found := finnhubResolutions[req.Timeframe]
	if !found {
		resolution = "D"
	}

	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("resolution", resolution)
	params.Set("from", fmt.Sprintf("%d", req.Start.Unix()))
	params.Set("to", fmt.Sprintf("%d", req.End.Unix()))
	params.Set("token", apiKey)

	body, err := utils.Get(fmt.Sprintf("%s/stock/candle?%s", finnhubBaseUrl, params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("finnhub: %w", err)
	}

	candles, err := parseFinnhubCandles(body)
	if err != nil {
		return nil, fmt.Errorf("finnhub: %w", err)
	}

	return newSeries(req.Symbol, req.Timeframe, candles)
}

type finnhubCandleResponse struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Opens      []float64 `json:"o"`
	Highs      []float64 `json:"h"`
	Lows       []float64 `json:"l"`
	Closes     []float64 `json:"c"`
	Volumes    []float64 `json:"v"`
}

func parseFinnhubCandles(body []byte) ([]models.Candle, error) {
	var response finnhubCandleResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse candle response: %w", err)
	}

	if response.Status != "ok" {
		return nil, fmt.Errorf("candle API returned status %q", response.Status)
	}

	n := len(response.Timestamps)
	if len(response.Opens) != n || len(response.Highs) != n || len(response.Lows) != n || len(response.Closes) != n {
		return nil, fmt.Errorf("candle API returned ragged arrays")
	}

	candles := make([]models.Candle, 0, n)
	for i := 0; i < n; i += 1 {
		var volume float64
		if i < len(response.Volumes) {
			volume = response.Volumes[i]
		}

		candles = append(candles, models.Candle{
			Timestamp: time.Unix(response.Timestamps[i], 0).UTC(),
			Open:      response.Opens[i],
			High:      response.Highs[i],
			Low:       response.Lows[i],
			Close:     response.Closes[i],
			Volume:    volume,
		})
	}

	return candles, nil
}
