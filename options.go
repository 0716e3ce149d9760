package anchorgo

import (
	"log/slog"
	"math/rand"

	"github.com/hupe1980/anchorgo/aggregate"
	"github.com/hupe1980/anchorgo/internal/kmeans"
	"github.com/hupe1980/anchorgo/model"
)

// DefaultMaxIterations is the iteration cap applied when none is configured.
const DefaultMaxIterations = kmeans.DefaultMaxIterations

// EmptyClusterPolicy decides what happens to a centroid that received no boxes.
type EmptyClusterPolicy = kmeans.EmptyClusterPolicy

const (
	// EmptyClusterRetain keeps the previous centroid and logs a warning (default).
	EmptyClusterRetain = kmeans.EmptyClusterRetain
	// EmptyClusterReseed replaces the centroid with a randomly drawn box.
	EmptyClusterReseed = kmeans.EmptyClusterReseed
)

type options struct {
	rand             *rand.Rand
	aggregator       aggregate.Func
	maxIterations    int
	emptyPolicy      EmptyClusterPolicy
	initial          []model.Size
	workers          int
	observers        []Observer
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a KMeans run.
type Option func(*options)

// WithSeed seeds the random initialization for reproducible runs.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rand = rand.New(rand.NewSource(seed))
	}
}

// WithRand injects the random source used for initialization and reseeding.
// The source is used from a single goroutine for the duration of the run.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithAggregator sets the per-dimension centroid aggregator.
//
// If nil is passed, aggregate.Median is used.
func WithAggregator(fn aggregate.Func) Option {
	return func(o *options) {
		if fn == nil {
			fn = aggregate.Median
		}
		o.aggregator = fn
	}
}

// WithMaxIterations caps the number of clustering passes.
// When the cap is hit the best centroids seen are returned with
// Result.Converged set to false. Values <= 0 select DefaultMaxIterations.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithEmptyClusterPolicy selects how empty clusters are handled.
func WithEmptyClusterPolicy(p EmptyClusterPolicy) Option {
	return func(o *options) {
		o.emptyPolicy = p
	}
}

// WithInitialCentroids replaces random initialization with the given k sizes,
// e.g. to refine an existing anchor set.
func WithInitialCentroids(centroids []model.Size) Option {
	return func(o *options) {
		o.initial = centroids
	}
}

// WithWorkers computes distance matrix rows on up to n goroutines.
// The output does not depend on n. Defaults to 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithObserver registers an observer invoked once per iteration.
// May be given multiple times.
//
// Example:
//
//	res, _ := anchorgo.KMeans(ctx, boxes, 9, anchorgo.WithObserver(
//	    anchorgo.ObserverFunc(func(it anchorgo.Iteration) {
//	        fmt.Println(it.Index, it.Loss)
//	    }),
//	))
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithMetricsCollector configures a metrics collector for monitoring runs.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &anchorgo.BasicMetricsCollector{}
//	res, _ := anchorgo.KMeans(ctx, boxes, 9, anchorgo.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Iterations: %d, Last loss: %f\n", stats.IterationCount, stats.LastLoss)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for runs.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := anchorgo.NewJSONLogger(slog.LevelInfo)
//	res, _ := anchorgo.KMeans(ctx, boxes, 9, anchorgo.WithLogger(logger))
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

func applyOptions(optFns []Option) options {
	o := options{
		aggregator:       aggregate.Median,
		maxIterations:    DefaultMaxIterations,
		emptyPolicy:      EmptyClusterRetain,
		workers:          1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
