package models

import "fmt"

var InvalidSeriesErr = fmt.Errorf("price series failed validation")
var InsufficientDataErr = fmt.Errorf("not enough candles to run a backtest")
var InvalidConfigErr = fmt.Errorf("invalid strategy configuration")
var UnknownStrategyErr = fmt.Errorf("unknown strategy id")
var NonPositiveBalanceErr = fmt.Errorf("initial balance must be positive")
var SignalLengthMismatchErr = fmt.Errorf("signal sequence length does not match series length")

// InsufficientDataError reports the minimum series length the caller must
// supply for the run to proceed.
type InsufficientDataError struct {
	MinRequired int
	Actual      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%v: requires at least %d candles, got %d", InsufficientDataErr, e.MinRequired, e.Actual)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == InsufficientDataErr
}

type ErrorDTO struct {
	Msg string `json:"msg"`
}
