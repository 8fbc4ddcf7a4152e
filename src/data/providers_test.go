package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYahooChart(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		body := []byte(`{
			"chart": {
				"result": [{
					"timestamp": [1704153600, 1704240000, 1704326400],
					"indicators": {
						"quote": [{
							"open":   [185.0, 186.5, null],
							"high":   [187.0, 188.0, null],
							"low":    [184.0, 185.5, null],
							"close":  [186.0, 187.5, null],
							"volume": [1000000, 1200000, null]
						}]
					}
				}],
				"error": null
			}
		}`)

		candles, err := parseYahooChart(body)
		require.NoError(t, err)

		require.Len(t, candles, 2) // the null row is dropped
		assert.Equal(t, time.Unix(1704153600, 0).UTC(), candles[0].Timestamp)
		assert.Equal(t, 186.0, candles[0].Close)
		assert.Equal(t, 1200000.0, candles[1].Volume)
	})

	t.Run("API error surfaced", func(t *testing.T) {
		body := []byte(`{
			"chart": {
				"result": null,
				"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
			}
		}`)

		_, err := parseYahooChart(body)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Not Found")
	})

	t.Run("empty result", func(t *testing.T) {
		candles, err := parseYahooChart([]byte(`{"chart": {"result": [], "error": null}}`))
		require.NoError(t, err)
		assert.Empty(t, candles)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := parseYahooChart([]byte(`{"chart":`))
		assert.Error(t, err)
	})
}

func TestParseBinanceKlines(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		body := []byte(`[
			[1704153600000, "42000.5", "42500.0", "41800.0", "42300.1", "1523.4", 1704239999999, "0", 0, "0", "0", "0"],
			[1704240000000, "42300.1", "43000.0", "42100.0", "42900.0", "1833.2", 1704326399999, "0", 0, "0", "0", "0"]
		]`)

		candles, err := parseBinanceKlines(body)
		require.NoError(t, err)

		require.Len(t, candles, 2)
		assert.Equal(t, time.UnixMilli(1704153600000).UTC(), candles[0].Timestamp)
		assert.Equal(t, 42000.5, candles[0].Open)
		assert.Equal(t, 42300.1, candles[0].Close)
		assert.Equal(t, 1833.2, candles[1].Volume)
	})

	t.Run("empty payload", func(t *testing.T) {
		candles, err := parseBinanceKlines([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, candles)
	})

	t.Run("non-numeric price", func(t *testing.T) {
		body := []byte(`[[1704153600000, "abc", "1", "1", "1", "1", 0, "0", 0, "0", "0", "0"]]`)

		_, err := parseBinanceKlines(body)
		assert.Error(t, err)
	})
}

func TestBinanceSymbol(t *testing.T) {
	assert.Equal(t, "BTCUSDT", binanceSymbol("btc"))
	assert.Equal(t, "BTCUSDT", binanceSymbol("BTC-USDT"))
	assert.Equal(t, "ETHBTC", binanceSymbol("eth/btc"))
	assert.Equal(t, "SOLUSDT", binanceSymbol("SOLUSDT"))
}

func TestParseCoinGeckoChart(t *testing.T) {
	t.Run("synthetic candles from prices", func(t *testing.T) {
		body := []byte(`{
			"prices": [[1704153600000, 42000.0], [1704240000000, 43000.0]],
			"total_volumes": [[1704153600000, 25000000000.0], [1704240000000, 27000000000.0]]
		}`)

		candles, err := parseCoinGeckoChart(body)
		require.NoError(t, err)

		require.Len(t, candles, 2)
		assert.Equal(t, 42000.0, candles[0].Close)
		assert.Equal(t, 42000.0*1.001, candles[0].High)
		assert.Equal(t, 42000.0*0.999, candles[0].Low)
		assert.Equal(t, 27000000000.0, candles[1].Volume)

		for _, c := range candles {
			assert.NoError(t, c.Validate())
		}
	})

	t.Run("zero price dropped", func(t *testing.T) {
		candles, err := parseCoinGeckoChart([]byte(`{"prices": [[1704153600000, 0]], "total_volumes": []}`))
		require.NoError(t, err)
		assert.Empty(t, candles)
	})
}

func TestCoinGeckoId(t *testing.T) {
	assert.Equal(t, "bitcoin", coinGeckoId("BTC-USD"))
	assert.Equal(t, "ethereum", coinGeckoId("ETH"))
	assert.Equal(t, "solana", coinGeckoId("solusdt"))
	assert.Equal(t, "dogecoin", coinGeckoId("dogecoin"))
}

func TestParseFinnhubCandles(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		body := []byte(`{
			"s": "ok",
			"t": [1704153600, 1704240000],
			"o": [185.0, 186.5],
			"h": [187.0, 188.0],
			"l": [184.0, 185.5],
			"c": [186.0, 187.5],
			"v": [1000000, 1200000]
		}`)

		candles, err := parseFinnhubCandles(body)
		require.NoError(t, err)

		require.Len(t, candles, 2)
		assert.Equal(t, 186.0, candles[0].Close)
		assert.Equal(t, 188.0, candles[1].High)
	})

	t.Run("no_data status", func(t *testing.T) {
		_, err := parseFinnhubCandles([]byte(`{"s": "no_data"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no_data")
	})

	t.Run("ragged arrays", func(t *testing.T) {
		body := []byte(`{"s": "ok", "t": [1, 2], "o": [1.0], "h": [1.0], "l": [1.0], "c": [1.0], "v": [1.0]}`)

		_, err := parseFinnhubCandles(body)
		assert.Error(t, err)
	})
}

func TestParseAlphaVantageDaily(t *testing.T) {
	window := func() (time.Time, time.Time) {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	}

	t.Run("sorted and filtered", func(t *testing.T) {
		body := []byte(`{
			"Time Series (Daily)": {
				"2024-01-03": {"1. open": "186.5", "2. high": "188.0", "3. low": "185.5", "4. close": "187.5", "5. volume": "1200000"},
				"2024-01-02": {"1. open": "185.0", "2. high": "187.0", "3. low": "184.0", "4. close": "186.0", "5. volume": "1000000"},
				"2023-12-29": {"1. open": "180.0", "2. high": "181.0", "3. low": "179.0", "4. close": "180.5", "5. volume": "900000"}
			}
		}`)

		start, end := window()
		candles, err := parseAlphaVantageDaily(body, start, end)
		require.NoError(t, err)

		require.Len(t, candles, 2) // the December row is outside the window
		assert.True(t, candles[0].Timestamp.Before(candles[1].Timestamp))
		assert.Equal(t, 186.0, candles[0].Close)
	})

	t.Run("throttle note surfaced", func(t *testing.T) {
		start, end := window()
		_, err := parseAlphaVantageDaily([]byte(`{"Note": "API call frequency exceeded"}`), start, end)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled")
	})

	t.Run("error message surfaced", func(t *testing.T) {
		start, end := window()
		_, err := parseAlphaVantageDaily([]byte(`{"Error Message": "Invalid API call"}`), start, end)
		assert.Error(t, err)
	})
}

func TestSplitPair(t *testing.T) {
	t.Run("accepted formats", func(t *testing.T) {
		for _, symbol := range []string{"EURUSD", "EUR/USD", "EUR-USD", "eurusd=X"} {
			base, quote, err := splitPair(symbol)
			require.NoError(t, err, symbol)
			assert.Equal(t, "EUR", base)
			assert.Equal(t, "USD", quote)
		}
	})

	t.Run("rejects non-pairs", func(t *testing.T) {
		_, _, err := splitPair("AAPL")
		assert.Error(t, err)
	})
}

func TestCrossRate(t *testing.T) {
	quotes := map[string]float64{
		"USDEUR": 0.9,
		"USDJPY": 150.0,
	}

	assert.InDelta(t, 0.9, crossRate(quotes, "USD", "EUR"), 1e-9)
	assert.InDelta(t, 1.0/0.9, crossRate(quotes, "EUR", "USD"), 1e-9)
	assert.InDelta(t, 150.0/0.9, crossRate(quotes, "EUR", "JPY"), 1e-9)
	assert.Equal(t, 0.0, crossRate(quotes, "GBP", "USD"))
}

func TestSyntheticDailyCandle(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	t.Run("first bar opens at its close", func(t *testing.T) {
		c := syntheticDailyCandle(day, 0, 1.105)
		assert.Equal(t, 1.105, c.Open)
		assert.Equal(t, 1.105, c.Close)
		assert.NoError(t, c.Validate())
	})

	t.Run("later bars open at the previous close", func(t *testing.T) {
		c := syntheticDailyCandle(day, 1.10, 1.12)
		assert.Equal(t, 1.10, c.Open)
		assert.Equal(t, 1.12, c.High)
		assert.Equal(t, 1.10, c.Low)
		assert.NoError(t, c.Validate())
	})
}
