package data

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/utils"
)

const currencyLayerBaseUrl = "https://api.currencylayer.com"

// CurrencyLayerProvider builds daily forex candles from Currency Layer's
// historical closing rates. The API quotes everything against USD, so cross
// pairs are derived; only daily bars are supported. Requires
// CURRENCY_LAYER_API_KEY.
type CurrencyLayerProvider struct{}

func NewCurrencyLayerProvider() *CurrencyLayerProvider {
	return &CurrencyLayerProvider{}
}

func (p *CurrencyLayerProvider) Name() string {
	return "currencylayer"
}

// splitPair normalizes symbols like EURUSD, EUR/USD or EURUSD=X into base and
// quote currencies.
func splitPair(symbol string) (string, string, error) {
	s := strings.ToUpper(symbol)
	s = strings.TrimSuffix(s, "=X")
	s = strings.ReplaceAll(s, "/", "")
	s = strings.ReplaceAll(s, "-", "")

	if len(s) != 6 {
		return "", "", fmt.Errorf("invalid forex pair %q", symbol)
	}

	return s[:3], s[3:], nil
}

func (p *CurrencyLayerProvider) FetchCandles(req FetchRequest) (*models.PriceSeries, error) {
	apiKey := os.Getenv("CURRENCY_LAYER_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("currencylayer: CURRENCY_LAYER_API_KEY not set")
	}

	if req.Timeframe != models.Timeframe1Day {
		return nil, fmt.Errorf("currencylayer: only daily bars are available, got %s", req.Timeframe)
	}

	base, quote, err := splitPair(req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("currencylayer: %w", err)
	}

	var candles []models.Candle
	prevClose := 0.0
	for day := req.Start.Truncate(24 * time.Hour); !day.After(req.End); day = day.Add(24 * time.Hour) {
		quotes, fetchErr := p.fetchHistoricalQuotes(apiKey, day, base, quote)
		if fetchErr != nil {
			return nil, fmt.Errorf("currencylayer: %w", fetchErr)
		}

		rate := crossRate(quotes, base, quote)
		if rate <= 0 {
			continue
		}

		candles = append(candles, syntheticDailyCandle(day, prevClose, rate))
		prevClose = rate
	}

	return newSeries(req.Symbol, req.Timeframe, candles)
}

type currencyLayerResponse struct {
	Success bool               `json:"success"`
	Quotes  map[string]float64 `json:"quotes"`
	Error   struct {
		Info string `json:"info"`
	} `json:"error"`
}

func (p *CurrencyLayerProvider) fetchHistoricalQuotes(apiKey string, day time.Time, base, quote string) (map[string]float64, error) {
	params := url.Values{}
	params.Set("access_key", apiKey)
	params.Set("date", day.Format("2006-01-02"))
	params.Set("currencies", base+","+quote)
	params.Set("format", "1")

	body, err := utils.Get(fmt.Sprintf("%s/historical?%s", currencyLayerBaseUrl, params.Encode()))
	if err != nil {
		return nil, err
	}

	var response currencyLayerResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse historical response: %w", err)
	}

	if !response.Success {
		return nil, fmt.Errorf("historical API error: %s", response.Error.Info)
	}

	return response.Quotes, nil
}

// crossRate resolves base/quote from USD-quoted rates: direct when one side
// is USD, otherwise USDquote / USDbase.
func crossRate(quotes map[string]float64, base, quote string) float64 {
	if base == "USD" {
		return quotes["USD"+quote]
	}

	if quote == "USD" {
		usdToBase := quotes["USD"+base]
		if usdToBase == 0 {
			return 0
		}

		return 1.0 / usdToBase
	}

	usdToBase := quotes["USD"+base]
	usdToQuote := quotes["USD"+quote]
	if usdToBase == 0 {
		return 0
	}

	return usdToQuote / usdToBase
}

// syntheticDailyCandle turns a closing rate into an OHLC bar: open at the
// previous close, high/low spanning the two. Deterministic, unlike quoting a
// random intraday spread.
func syntheticDailyCandle(day time.Time, prevClose, close float64) models.Candle {
	open := close
	if prevClose > 0 {
		open = prevClose
	}

	high := open
	low := open
	if close > high {
		high = close
	}
	if close < low {
		low = close
	}

	return models.Candle{
		Timestamp: day.UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		Volume:    0,
	}
}
