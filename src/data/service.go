package data

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/stratbench/stratbench/src/models"
)

// FetchRequest describes one candle-history request. Providers translate it
// into their own query format.
type FetchRequest struct {
	Symbol    string
	Timeframe models.Timeframe
	Start     time.Time
	End       time.Time
}

// Provider fetches candle history from one external market-data source.
type Provider interface {
	Name() string
	FetchCandles(req FetchRequest) (*models.PriceSeries, error)
}

// Service tries its providers in order until one returns data, consulting
// the candle cache first. A nil cache disables caching.
type Service struct {
	providers []Provider
	cache     *CandleCache
}

func NewService(cache *CandleCache, providers ...Provider) *Service {
	return &Service{
		providers: providers,
		cache:     cache,
	}
}

// DefaultProviders is the fallback order for fetches: Yahoo covers most
// symbols, Binance crypto pairs, then the keyed providers as backups.
func DefaultProviders() []Provider {
	return []Provider{
		NewYahooProvider(),
		NewBinanceProvider(),
		NewCoinGeckoProvider(),
		NewFinnhubProvider(),
		NewAlphaVantageProvider(),
		NewCurrencyLayerProvider(),
	}
}

func (s *Service) FetchCandles(req FetchRequest) (*models.PriceSeries, error) {
	if req.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol not set", models.InvalidSeriesErr)
	}

	if s.cache != nil {
		if series, found := s.cache.Get(req); found {
			log.WithFields(log.Fields{
				"symbol":    req.Symbol,
				"timeframe": req.Timeframe,
			}).Info("using cached candles")
			return series, nil
		}
	}

	var lastErr error
	for _, provider := range s.providers {
		series, err := provider.FetchCandles(req)
		if err != nil {
			log.WithFields(log.Fields{
				"provider": provider.Name(),
				"symbol":   req.Symbol,
			}).Warnf("provider fetch failed: %v", err)

			lastErr = err
			continue
		}

		if series.Len() == 0 {
			log.WithFields(log.Fields{
				"provider": provider.Name(),
				"symbol":   req.Symbol,
			}).Warn("provider returned no candles")
			continue
		}

		log.WithFields(log.Fields{
			"provider": provider.Name(),
			"symbol":   req.Symbol,
			"candles":  series.Len(),
		}).Info("fetched candles")

		if s.cache != nil {
			if cacheErr := s.cache.Put(req, series); cacheErr != nil {
				log.Warnf("failed to cache candles for %s: %v", req.Symbol, cacheErr)
			}
		}

		return series, nil
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all providers failed for %s: %w", req.Symbol, lastErr)
	}

	return nil, fmt.Errorf("no provider returned candles for %s", req.Symbol)
}

// newSeries validates and normalizes raw provider candles into a PriceSeries,
// dropping candles the validator rejects rather than failing the fetch.
func newSeries(symbol string, timeframe models.Timeframe, candles []models.Candle) (*models.PriceSeries, error) {
	valid := make([]models.Candle, 0, len(candles))
	var lastTimestamp time.Time
	for i := range candles {
		if err := candles[i].Validate(); err != nil {
			log.Debugf("dropping invalid candle for %s: %v", symbol, err)
			continue
		}

		if !candles[i].Timestamp.After(lastTimestamp) {
			continue
		}

		valid = append(valid, candles[i])
		lastTimestamp = candles[i].Timestamp
	}

	return models.NewPriceSeries(symbol, timeframe, valid)
}
