package backtester

import (
	"context"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/stratbench/stratbench/src/eventpubsub"
	"github.com/stratbench/stratbench/src/models"
	"github.com/stratbench/stratbench/src/strategies"
)

// BatchRequest is one (series, strategy, params) tuple. Every request owns
// its series and engine state, so requests never share mutable state and can
// run concurrently without locking.
type BatchRequest struct {
	Series     *models.PriceSeries
	StrategyID strategies.StrategyID
	Params     strategies.Params
}

type BatchResult struct {
	Symbol   string
	Strategy string
	Report   *models.MetricsReport
	Err      error
}

// BatchRunner evaluates independent backtests concurrently. Parallelism
// exists only across runs; each individual simulation stays sequential.
type BatchRunner struct {
	initialBalance float64
	maxWorkers     int
}

func NewBatchRunner(initialBalance float64, maxWorkers int) *BatchRunner {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() + 4
		if maxWorkers > 32 {
			maxWorkers = 32
		}
	}

	return &BatchRunner{
		initialBalance: initialBalance,
		maxWorkers:     maxWorkers,
	}
}

// Run evaluates all requests and returns one result per request, in request
// order. Requests not yet started when ctx is cancelled come back with the
// context's error.
func (r *BatchRunner) Run(ctx context.Context, requests []BatchRequest) []BatchResult {
	results := make([]BatchResult, len(requests))
	for i, req := range requests {
		results[i] = BatchResult{
			Symbol:   req.Series.Symbol,
			Strategy: req.StrategyID.String(),
		}
	}

	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < r.maxWorkers; w += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				req := requests[idx]

				report, err := RunBacktest(req.Series, req.StrategyID, req.Params, r.initialBalance)
				if err != nil {
					results[idx].Err = err
					log.WithFields(log.Fields{
						"symbol":   req.Series.Symbol,
						"strategy": req.StrategyID.String(),
					}).Errorf("backtest failed: %v", err)

					eventpubsub.Publish(eventpubsub.TopicBacktestFailed, results[idx])
					continue
				}

				results[idx].Report = report
				log.WithFields(log.Fields{
					"symbol":   report.Symbol,
					"strategy": report.Strategy,
					"trades":   report.TotalTrades,
					"pnl":      report.NetProfitLoss,
				}).Info("backtest completed")

				eventpubsub.Publish(eventpubsub.TopicBacktestCompleted, report)
			}
		}()
	}

	scheduled := make([]bool, len(requests))
dispatch:
	for i := range requests {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
			scheduled[i] = true
		}
	}

	close(jobs)
	wg.Wait()

	for i := range results {
		if !scheduled[i] && results[i].Err == nil {
			results[i].Err = ctx.Err()
		}
	}

	return results
}
