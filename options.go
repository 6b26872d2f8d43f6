package slotstore

import "github.com/hupe1980/slotstore/clock"

type options struct {
	metrics MetricsCollector
	logger  *Logger
	clock   clock.Clock
}

// Option configures a Store at construction time.
type Option func(*options)

// WithMetricsCollector routes operation metrics to mc. A nil mc turns
// metrics off.
//
//	metrics := &slotstore.BasicMetricsCollector{}
//	s := slotstore.New("subject", slotstore.WithMetricsCollector(metrics))
//	// ...
//	fmt.Println(metrics.GetStats().InsertRetries)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithLogger sets the store logger. A nil logger turns logging off.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithClock sets the time source used to stamp revisions and time
// operations. Defaults to the system clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c == nil {
			c = clock.NewReal()
		}
		o.clock = c
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metrics: NoopMetricsCollector{},
		logger:  NoopLogger(),
		clock:   clock.NewReal(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
