package anchorgo

import (
	"math"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package prom
// provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordRun is called after each KMeans call.
	// iterations is zero and converged false when err is not nil.
	RecordRun(k, boxes, iterations int, converged bool, duration time.Duration, err error)

	// RecordIteration is called once per clustering pass.
	RecordIteration(loss, meanIoU float64, reassigned int)

	// RecordEmptyClusters is called after a run with the number of empty
	// clusters encountered, if any.
	RecordEmptyClusters(count int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, int, int, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordIteration(float64, float64, int)               {}
func (NoopMetricsCollector) RecordEmptyClusters(int)                             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunNotConverged atomic.Int64
	RunTotalNanos   atomic.Int64
	IterationCount  atomic.Int64
	ReassignedTotal atomic.Int64
	EmptyClusters   atomic.Int64

	lastLoss    atomic.Uint64
	lastMeanIoU atomic.Uint64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(k, boxes, iterations int, converged bool, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
		return
	}
	if !converged {
		b.RunNotConverged.Add(1)
	}
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(loss, meanIoU float64, reassigned int) {
	b.IterationCount.Add(1)
	b.ReassignedTotal.Add(int64(reassigned))
	b.lastLoss.Store(math.Float64bits(loss))
	b.lastMeanIoU.Store(math.Float64bits(meanIoU))
}

// RecordEmptyClusters implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmptyClusters(count int) {
	b.EmptyClusters.Add(int64(count))
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:        b.RunCount.Load(),
		RunErrors:       b.RunErrors.Load(),
		RunNotConverged: b.RunNotConverged.Load(),
		RunAvgNanos:     b.getAvgRunNanos(),
		IterationCount:  b.IterationCount.Load(),
		ReassignedTotal: b.ReassignedTotal.Load(),
		EmptyClusters:   b.EmptyClusters.Load(),
		LastLoss:        math.Float64frombits(b.lastLoss.Load()),
		LastMeanIoU:     math.Float64frombits(b.lastMeanIoU.Load()),
	}
}

func (b *BasicMetricsCollector) getAvgRunNanos() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount        int64
	RunErrors       int64
	RunNotConverged int64
	RunAvgNanos     int64
	IterationCount  int64
	ReassignedTotal int64
	EmptyClusters   int64
	LastLoss        float64
	LastMeanIoU     float64
}
