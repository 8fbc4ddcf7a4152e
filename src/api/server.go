package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// NewRouter wires the API routes onto a fresh gorilla router.
func NewRouter(handler *Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/backtest", handler.postBacktest).Methods("POST")
	router.HandleFunc("/api/compare", handler.postCompare).Methods("POST")
	router.HandleFunc("/api/candles/{symbol}", handler.getCandles).Methods("GET")
	router.HandleFunc("/api/strategies", handler.getStrategies).Methods("GET")
	router.HandleFunc("/api/indicators", handler.getIndicators).Methods("GET")

	return router
}

// Serve runs the API server until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler *Handler) error {
	server := &http.Server{
		Addr:    addr,
		Handler: NewRouter(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("API server listening on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}

		log.Info("API server stopped")
		return nil
	}
}
