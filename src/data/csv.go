package data

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/stratbench/stratbench/src/models"
)

const csvTimeLayout = "2006-01-02T15:04:05Z07:00"

type candleRow struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

// parseCandleTimestamp accepts RFC 3339 or bare dates, the two formats
// exported data files carry.
func parseCandleTimestamp(raw string) (time.Time, error) {
	for _, layout := range []string{csvTimeLayout, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// ImportCandlesCSV loads a candle history file into a validated series.
func ImportCandlesCSV(path, symbol string, timeframe models.Timeframe) (*models.PriceSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var rows []*candleRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for _, row := range rows {
		ts, parseErr := parseCandleTimestamp(row.Timestamp)
		if parseErr != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, parseErr)
		}

		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		})
	}

	series, err := models.NewPriceSeries(symbol, timeframe, candles)
	if err != nil {
		return nil, err
	}

	log.Infof("imported %d candles from %s", series.Len(), path)
	return series, nil
}

// ExportCandlesCSV writes a series out in the same format ImportCandlesCSV
// reads.
func ExportCandlesCSV(path string, series *models.PriceSeries) error {
	rows := make([]*candleRow, 0, series.Len())
	for i := range series.Candles {
		c := series.Candles[i]
		rows = append(rows, &candleRow{
			Timestamp: c.Timestamp.UTC().Format(csvTimeLayout),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Infof("exported %d candles to %s", len(rows), path)
	return nil
}

type tradeRow struct {
	ID             int     `csv:"id"`
	Symbol         string  `csv:"symbol"`
	EntryTimestamp string  `csv:"entry_timestamp"`
	ExitTimestamp  string  `csv:"exit_timestamp"`
	EntryPrice     float64 `csv:"entry_price"`
	ExitPrice      float64 `csv:"exit_price"`
	Quantity       float64 `csv:"quantity"`
	ProfitLoss     float64 `csv:"profit_loss"`
	ReturnFraction float64 `csv:"return_fraction"`
	DurationHours  float64 `csv:"duration_hours"`
	ExitReason     string  `csv:"exit_reason"`
}

// ExportTradeHistoryCSV writes a backtest's closed trades to path.
func ExportTradeHistoryCSV(path string, trades models.Trades) error {
	rows := make([]*tradeRow, 0, len(trades))
	for _, trade := range trades {
		rows = append(rows, &tradeRow{
			ID:             trade.ID,
			Symbol:         trade.Symbol,
			EntryTimestamp: trade.EntryTimestamp.UTC().Format(csvTimeLayout),
			ExitTimestamp:  trade.ExitTimestamp.UTC().Format(csvTimeLayout),
			EntryPrice:     trade.EntryPrice,
			ExitPrice:      trade.ExitPrice,
			Quantity:       trade.Quantity,
			ProfitLoss:     trade.ProfitLoss,
			ReturnFraction: trade.ReturnFraction,
			DurationHours:  trade.Duration.Hours(),
			ExitReason:     string(trade.ExitReason),
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	log.Infof("exported %d trades to %s", len(rows), path)
	return nil
}
