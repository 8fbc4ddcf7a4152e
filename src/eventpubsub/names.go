package eventpubsub

const (
	TopicBacktestCompleted = "backtest:completed"
	TopicBacktestFailed    = "backtest:failed"
)
