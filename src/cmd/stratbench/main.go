package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stratbench/stratbench/src/api"
	"github.com/stratbench/stratbench/src/backtester"
	"github.com/stratbench/stratbench/src/data"
	"github.com/stratbench/stratbench/src/eventpubsub"
	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/report"
	"github.com/stratbench/stratbench/src/strategies"
	"github.com/stratbench/stratbench/src/utils"
)

func newDataService(cmd *cobra.Command) (*data.Service, error) {
	cachePath, err := cmd.Flags().GetString("cache")
	if err != nil {
		return nil, fmt.Errorf("error getting cache flag: %w", err)
	}

	var cache *data.CandleCache
	if cachePath != "" {
		cache, err = data.NewCandleCache(cachePath, data.DefaultCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("error opening candle cache: %w", err)
		}

		if purged, purgeErr := cache.PurgeExpired(); purgeErr != nil {
			log.Warnf("error purging candle cache: %v", purgeErr)
		} else if purged > 0 {
			log.Infof("purged %d expired cache entries", purged)
		}
	}

	return data.NewService(cache, data.DefaultProviders()...), nil
}

func resolveSeries(cmd *cobra.Command, symbol string) (*models.PriceSeries, error) {
	timeframeFlag, err := cmd.Flags().GetString("timeframe")
	if err != nil {
		return nil, fmt.Errorf("error getting timeframe: %w", err)
	}
	timeframe := models.Timeframe(timeframeFlag)

	csvPath, err := cmd.Flags().GetString("csv")
	if err != nil {
		return nil, fmt.Errorf("error getting csv flag: %w", err)
	}

	if csvPath != "" {
		return data.ImportCandlesCSV(csvPath, symbol, timeframe)
	}

	startFlag, err := cmd.Flags().GetString("start")
	if err != nil {
		return nil, fmt.Errorf("error getting start flag: %w", err)
	}

	endFlag, err := cmd.Flags().GetString("end")
	if err != nil {
		return nil, fmt.Errorf("error getting end flag: %w", err)
	}

	end := time.Now().UTC().Truncate(24 * time.Hour)
	start := end.AddDate(-1, 0, 0)

	if startFlag != "" {
		if start, err = time.Parse("2006-01-02", startFlag); err != nil {
			return nil, fmt.Errorf("invalid --start %q: %w", startFlag, err)
		}
	}

	if endFlag != "" {
		if end, err = time.Parse("2006-01-02", endFlag); err != nil {
			return nil, fmt.Errorf("invalid --end %q: %w", endFlag, err)
		}
	}

	service, err := newDataService(cmd)
	if err != nil {
		return nil, err
	}

	return service.FetchCandles(data.FetchRequest{
		Symbol:    symbol,
		Timeframe: timeframe,
		Start:     start,
		End:       end,
	})
}

var rootCmd = &cobra.Command{
	Use:   "stratbench",
	Short: "Backtest trading strategies over OHLCV candle history",
}

var runCmd = &cobra.Command{
	Use:   "run --symbol AAPL --strategy 1",
	Short: "Run one backtest and print the metrics report",
	Run: func(cmd *cobra.Command, args []string) {
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil || symbol == "" {
			log.Fatalf("missing required --symbol flag")
		}

		strategyID, err := cmd.Flags().GetInt("strategy")
		if err != nil {
			log.Fatalf("error getting strategy: %v", err)
		}

		balance, err := cmd.Flags().GetFloat64("balance")
		if err != nil {
			log.Fatalf("error getting balance: %v", err)
		}

		compare, err := cmd.Flags().GetBool("compare")
		if err != nil {
			log.Fatalf("error getting compare: %v", err)
		}

		series, err := resolveSeries(cmd, symbol)
		if err != nil {
			log.Fatalf("error resolving series: %v", err)
		}

		if compare {
			runComparison(series, balance)
			return
		}

		result, err := backtester.RunBacktest(series, strategies.StrategyID(strategyID), nil, balance)
		if err != nil {
			log.Fatalf("backtest failed: %v", err)
		}

		fmt.Print(report.RenderMetrics(result))
		fmt.Print(report.RenderTrades(result.Trades))

		tradesOut, err := cmd.Flags().GetString("trades-out")
		if err != nil {
			log.Fatalf("error getting trades-out: %v", err)
		}

		if tradesOut != "" {
			if err := data.ExportTradeHistoryCSV(tradesOut, result.Trades); err != nil {
				log.Fatalf("error exporting trades: %v", err)
			}
		}
	},
}

func runComparison(series *models.PriceSeries, balance float64) {
	var reports []*models.MetricsReport
	for _, id := range strategies.AllStrategyIDs() {
		result, err := backtester.RunBacktest(series, id, nil, balance)
		if err != nil {
			log.Fatalf("backtest failed for %s: %v", id, err)
		}

		reports = append(reports, result)
	}

	fmt.Print(report.RenderComparison(backtester.CompareStrategies(reports)))
}

var batchCmd = &cobra.Command{
	Use:   "batch --config run.yaml",
	Short: "Run a yaml-described batch of backtests concurrently",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil || configPath == "" {
			log.Fatalf("missing required --config flag")
		}

		config, err := backtester.LoadRunConfig(configPath)
		if err != nil {
			log.Fatalf("error loading config: %v", err)
		}

		service, err := newDataService(cmd)
		if err != nil {
			log.Fatalf("error creating data service: %v", err)
		}

		eventpubsub.Init()

		var completed, failed int64
		if err := eventpubsub.Subscribe(eventpubsub.TopicBacktestCompleted, func(report *models.MetricsReport) {
			atomic.AddInt64(&completed, 1)
			log.WithFields(log.Fields{
				"symbol":   report.Symbol,
				"strategy": report.Strategy,
				"pnl":      report.NetProfitLoss,
			}).Info("backtest event")
		}); err != nil {
			log.Fatalf("error subscribing to %s: %v", eventpubsub.TopicBacktestCompleted, err)
		}

		if err := eventpubsub.Subscribe(eventpubsub.TopicBacktestFailed, func(result backtester.BatchResult) {
			atomic.AddInt64(&failed, 1)
		}); err != nil {
			log.Fatalf("error subscribing to %s: %v", eventpubsub.TopicBacktestFailed, err)
		}

		var requests []backtester.BatchRequest
		for _, bt := range config.Backtests {
			timeframe := models.Timeframe(bt.Timeframe)
			if timeframe == "" {
				timeframe = models.Timeframe1Day
			}

			end := time.Now().UTC().Truncate(24 * time.Hour)
			series, fetchErr := service.FetchCandles(data.FetchRequest{
				Symbol:    bt.Symbol,
				Timeframe: timeframe,
				Start:     end.AddDate(-1, 0, 0),
				End:       end,
			})
			if fetchErr != nil {
				log.Fatalf("error fetching %s: %v", bt.Symbol, fetchErr)
			}

			requests = append(requests, backtester.BatchRequest{
				Series:     series,
				StrategyID: strategies.StrategyID(bt.StrategyID),
				Params:     bt.Params,
			})
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		runner := backtester.NewBatchRunner(config.InitialBalance, config.MaxWorkers)
		results := runner.Run(ctx, requests)

		for _, result := range results {
			if result.Err != nil {
				log.Errorf("%s / %s failed: %v", result.Symbol, result.Strategy, result.Err)
				continue
			}

			fmt.Print(report.RenderMetrics(result.Report))
		}

		eventpubsub.Wait()
		log.Infof("batch finished: %d completed, %d failed", atomic.LoadInt64(&completed), atomic.LoadInt64(&failed))
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch --symbol AAPL --out candles.csv",
	Short: "Fetch candle history and write it to CSV",
	Run: func(cmd *cobra.Command, args []string) {
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil || symbol == "" {
			log.Fatalf("missing required --symbol flag")
		}

		out, err := cmd.Flags().GetString("out")
		if err != nil {
			log.Fatalf("error getting out flag: %v", err)
		}

		if out == "" {
			out = fmt.Sprintf("%s_candles.csv", symbol)
		}

		series, err := resolveSeries(cmd, symbol)
		if err != nil {
			log.Fatalf("error fetching candles: %v", err)
		}

		if err := data.ExportCandlesCSV(out, series); err != nil {
			log.Fatalf("error writing csv: %v", err)
		}

		log.Infof("wrote %d candles to %s", series.Len(), filepath.Clean(out))
	},
}

func openCache(cmd *cobra.Command) *data.CandleCache {
	cachePath, err := cmd.Flags().GetString("cache")
	if err != nil || cachePath == "" {
		log.Fatalf("missing --cache path")
	}

	cache, err := data.NewCandleCache(cachePath, data.DefaultCacheTTL)
	if err != nil {
		log.Fatalf("error opening candle cache: %v", err)
	}

	return cache
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the sqlite candle cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print candle cache occupancy",
	Run: func(cmd *cobra.Command, args []string) {
		stats, err := openCache(cmd).Stats()
		if err != nil {
			log.Fatalf("error reading cache stats: %v", err)
		}

		fmt.Printf("entries:        %d\n", stats.TotalEntries)
		fmt.Printf("active:         %d\n", stats.ActiveEntries)
		fmt.Printf("expired:        %d\n", stats.ExpiredEntries)
		fmt.Printf("unique symbols: %d\n", stats.UniqueSymbols)
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired candle cache entries",
	Run: func(cmd *cobra.Command, args []string) {
		purged, err := openCache(cmd).PurgeExpired()
		if err != nil {
			log.Fatalf("error purging cache: %v", err)
		}

		log.Infof("purged %d expired cache entries", purged)
	},
}

var serverCmd = &cobra.Command{
	Use:   "server --addr :8080",
	Short: "Serve the backtesting HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		addr, err := cmd.Flags().GetString("addr")
		if err != nil {
			log.Fatalf("error getting addr: %v", err)
		}

		service, err := newDataService(cmd)
		if err != nil {
			log.Fatalf("error creating data service: %v", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if err := api.Serve(ctx, addr, api.NewHandler(service)); err != nil {
			log.Fatalf("server error: %v", err)
		}
	},
}

func main() {
	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Fatalf("error loading environment variables: %v", err)
	}

	rootCmd.PersistentFlags().String("cache", "cache.db", "Path to the sqlite candle cache; empty disables caching.")
	rootCmd.PersistentFlags().String("timeframe", "1d", "Candle timeframe: 1m, 5m, 15m, 1h, 1d or 1w.")
	rootCmd.PersistentFlags().String("start", "", "Fetch window start (YYYY-MM-DD). Defaults to one year ago.")
	rootCmd.PersistentFlags().String("end", "", "Fetch window end (YYYY-MM-DD). Defaults to today.")
	rootCmd.PersistentFlags().String("csv", "", "Load candles from this CSV file instead of fetching.")

	runCmd.Flags().String("symbol", "", "The symbol to backtest.")
	runCmd.Flags().Int("strategy", 1, "Strategy id: 1=sma-crossover, 2=rsi-mean-reversion, 3=bollinger-bands, 4=macd-crossover, 5=multi-indicator.")
	runCmd.Flags().Float64("balance", 100000, "Initial account balance.")
	runCmd.Flags().Bool("compare", false, "Run every strategy and print a comparison table.")
	runCmd.Flags().String("trades-out", "", "Write the closed-trade log to this CSV file.")

	batchCmd.Flags().String("config", "", "Path to the yaml batch config.")

	fetchCmd.Flags().String("symbol", "", "The symbol to fetch.")
	fetchCmd.Flags().String("out", "", "Output CSV path.")

	serverCmd.Flags().String("addr", ":8080", "Listen address for the API server.")

	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
	rootCmd.AddCommand(runCmd, batchCmd, fetchCmd, serverCmd, cacheCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
