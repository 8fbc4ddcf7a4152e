package data

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stratbench/stratbench/src/models"
)

const DefaultCacheTTL = 24 * time.Hour

// CandleCacheEntry is one cached fetch, keyed by the request fingerprint.
type CandleCacheEntry struct {
	CacheKey  string `gorm:"primaryKey"`
	Symbol    string `gorm:"index:idx_symbol_timeframe"`
	Timeframe string `gorm:"index:idx_symbol_timeframe"`
	StartDate time.Time
	EndDate   time.Time
	DataJson  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (CandleCacheEntry) TableName() string {
	return "candle_cache"
}

// CandleCache stores fetched series in a local sqlite database with a TTL,
// so repeated backtests over the same window skip the provider round trip.
type CandleCache struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewCandleCache(path string, ttl time.Duration) (*CandleCache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&CandleCacheEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return &CandleCache{
		db:  db,
		ttl: ttl,
	}, nil
}

func cacheKey(req FetchRequest) string {
	fingerprint := fmt.Sprintf("%s_%s_%s_%s",
		req.Symbol,
		req.Start.UTC().Format("2006-01-02"),
		req.End.UTC().Format("2006-01-02"),
		req.Timeframe,
	)

	return fmt.Sprintf("%x", md5.Sum([]byte(fingerprint)))
}

// Get returns the cached series for req if present and unexpired.
func (c *CandleCache) Get(req FetchRequest) (*models.PriceSeries, bool) {
	var entry CandleCacheEntry
	err := c.db.
		Where("cache_key = ? AND expires_at > ?", cacheKey(req), time.Now()).
		First(&entry).Error
	if err != nil {
		return nil, false
	}

	var series models.PriceSeries
	if err := json.Unmarshal([]byte(entry.DataJson), &series); err != nil {
		log.Warnf("discarding corrupt cache entry for %s: %v", req.Symbol, err)
		c.db.Delete(&entry)
		return nil, false
	}

	return &series, true
}

func (c *CandleCache) Put(req FetchRequest, series *models.PriceSeries) error {
	data, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("failed to encode series for cache: %w", err)
	}

	now := time.Now()
	entry := CandleCacheEntry{
		CacheKey:  cacheKey(req),
		Symbol:    req.Symbol,
		Timeframe: string(req.Timeframe),
		StartDate: req.Start,
		EndDate:   req.End,
		DataJson:  string(data),
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	if err := c.db.Save(&entry).Error; err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return nil
}

// PurgeExpired deletes every entry past its expiry and returns the count.
func (c *CandleCache) PurgeExpired() (int64, error) {
	result := c.db.
		Where("expires_at <= ?", time.Now()).
		Delete(&CandleCacheEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// Stats summarizes cache occupancy for the CLI.
type CacheStats struct {
	TotalEntries   int64
	ActiveEntries  int64
	ExpiredEntries int64
	UniqueSymbols  int64
}

func (c *CandleCache) Stats() (*CacheStats, error) {
	var stats CacheStats
	now := time.Now()

	if err := c.db.Model(&CandleCacheEntry{}).Count(&stats.TotalEntries).Error; err != nil {
		return nil, fmt.Errorf("failed to count cache entries: %w", err)
	}

	if err := c.db.Model(&CandleCacheEntry{}).Where("expires_at > ?", now).Count(&stats.ActiveEntries).Error; err != nil {
		return nil, fmt.Errorf("failed to count active cache entries: %w", err)
	}

	stats.ExpiredEntries = stats.TotalEntries - stats.ActiveEntries

	if err := c.db.Model(&CandleCacheEntry{}).Distinct("symbol").Count(&stats.UniqueSymbols).Error; err != nil {
		return nil, fmt.Errorf("failed to count cached symbols: %w", err)
	}

	return &stats, nil
}
