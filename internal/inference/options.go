package inference

import "go.uber.org/zap"

type options struct {
	logger    *zap.Logger
	cacheSize int
}

// Option configures a predictor.
type Option func(*options)

// WithLogger sets a logger for prediction and failure events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCacheSize enables an LRU of the given number of predictions; 0 disables it.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}
