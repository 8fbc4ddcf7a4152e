package data

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/utils"
)

const coinGeckoBaseUrl = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches crypto price history from the market_chart/range
// endpoint. CoinGecko reports point-in-time prices rather than true OHLC, so
// candles are synthesized with a narrow high/low band around each price.
type CoinGeckoProvider struct{}

func NewCoinGeckoProvider() *CoinGeckoProvider {
	return &CoinGeckoProvider{}
}

func (p *CoinGeckoProvider) Name() string {
	return "coingecko"
}

var coinGeckoIds = map[string]string{
	"btc":   "bitcoin",
	"eth":   "ethereum",
	"ada":   "cardano",
	"dot":   "polkadot",
	"link":  "chainlink",
	"xrp":   "ripple",
	"ltc":   "litecoin",
	"bch":   "bitcoin-cash",
	"bnb":   "binancecoin",
	"sol":   "solana",
	"matic": "matic-network",
	"avax":  "avalanche-2",
	"atom":  "cosmos",
}

func coinGeckoId(symbol string) string {
	s := strings.ToLower(symbol)
	for _, suffix := range []string{"-usd", "/usd", "usdt", "usd"} {
		s = strings.TrimSuffix(s, suffix)
	}

	if id, found := coinGeckoIds[s]; found {
		return id
	}

	return s
}

func (p *CoinGeckoProvider) FetchCandles(req FetchRequest) (*models.PriceSeries, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("from", fmt.Sprintf("%d", req.Start.Unix()))
	params.Set("to", fmt.Sprintf("%d", req.End.Unix()))

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart/range?%s", coinGeckoBaseUrl, coinGeckoId(req.Symbol), params.Encode())

	body, err := utils.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}

	candles, err := parseCoinGeckoChart(body)
	if err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}

	return newSeries(req.Symbol, req.Timeframe, candles)
}

type coinGeckoChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

func parseCoinGeckoChart(body []byte) ([]models.Candle, error) {
	var response coinGeckoChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse market chart response: %w", err)
	}

	candles := make([]models.Candle, 0, len(response.Prices))
	for i, point := range response.Prices {
		price := point[1]
		if price <= 0 {
			continue
		}

		var volume float64
		if i < len(response.TotalVolumes) {
			volume = response.TotalVolumes[i][1]
		}

		candles = append(candles, models.Candle{
			Timestamp: time.UnixMilli(int64(point[0])).UTC(),
			Open:      price,
			High:      price * 1.001,
			Low:       price * 0.999,
			Close:     price,
			Volume:    volume,
		})
	}

	return candles, nil
}
