package aiofile

import (
	"log/slog"

	"github.com/hupe1980/aiofile/resource"
)

// DefaultReadLength is the number of bytes requested by Read when the
// caller passes a non-positive length.
const DefaultReadLength = 8192

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	readLength       int
	perm             uint32
	resources        *resource.Controller
}

// Option configures File and Driver behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &aiofile.BasicMetricsCollector{}
//	d, _ := aiofile.NewLocalDriver(aiofile.WithMetricsCollector(metrics))
//	// ... use files opened by d ...
//	stats := metrics.GetStats()
//	fmt.Printf("Writes: %d, Avg latency: %dns\n", stats.WriteCount, stats.WriteAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := aiofile.NewJSONLogger(slog.LevelDebug)
//	d, _ := aiofile.NewLocalDriver(aiofile.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithReadLength sets the length used by Read when called with a
// non-positive length. Values <= 0 restore DefaultReadLength.
func WithReadLength(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultReadLength
		}
		o.readLength = n
	}
}

// WithCreatePerm sets the permission bits for files created by Driver.Open.
// Defaults to 0666 (before umask).
func WithCreatePerm(perm uint32) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// WithResources bounds the native requests issued by a driver's backend.
// Only used by NewLocalDriver and NewNativeDriver.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MaxConcurrentRequests: 4,
//	    IOLimitBytesPerSec:    64 << 20,
//	})
//	d, _ := aiofile.NewLocalDriver(aiofile.WithResources(rc))
func WithResources(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		readLength:       DefaultReadLength,
		perm:             0o666,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
