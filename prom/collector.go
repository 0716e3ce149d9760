package prom

import (
	"time"

	"github.com/hupe1980/anchorgo"
	"github.com/prometheus/client_golang/prometheus"
)

var _ anchorgo.MetricsCollector = (*Collector)(nil)

// Collector implements anchorgo.MetricsCollector with Prometheus metrics.
type Collector struct {
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	iterations    prometheus.Counter
	reassigned    prometheus.Counter
	emptyClusters prometheus.Counter
	lastLoss      prometheus.Gauge
	lastMeanIoU   prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg leaves the metrics unregistered.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anchorgo_runs_total",
			Help: "Total k-means runs by outcome",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "anchorgo_run_duration_seconds",
			Help:    "Duration of k-means runs",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anchorgo_iterations_total",
			Help: "Total clustering passes",
		}),
		reassigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anchorgo_reassigned_boxes_total",
			Help: "Total boxes that changed cluster between passes",
		}),
		emptyClusters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anchorgo_empty_clusters_total",
			Help: "Total empty-cluster events",
		}),
		lastLoss: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anchorgo_last_loss",
			Help: "Loss reported by the most recent pass",
		}),
		lastMeanIoU: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anchorgo_last_mean_iou",
			Help: "Mean best IoU reported by the most recent pass",
		}),
	}

	if reg == nil {
		return c, nil
	}

	for _, m := range []prometheus.Collector{
		c.runs, c.runDuration, c.iterations, c.reassigned,
		c.emptyClusters, c.lastLoss, c.lastMeanIoU,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RecordRun implements anchorgo.MetricsCollector.
func (c *Collector) RecordRun(k, boxes, iterations int, converged bool, d time.Duration, err error) {
	status := "converged"
	switch {
	case err != nil:
		status = "error"
	case !converged:
		status = "not_converged"
	}
	c.runs.WithLabelValues(status).Inc()
	c.runDuration.WithLabelValues(status).Observe(d.Seconds())
}

// RecordIteration implements anchorgo.MetricsCollector.
func (c *Collector) RecordIteration(loss, meanIoU float64, reassigned int) {
	c.iterations.Inc()
	c.reassigned.Add(float64(reassigned))
	c.lastLoss.Set(loss)
	c.lastMeanIoU.Set(meanIoU)
}

// RecordEmptyClusters implements anchorgo.MetricsCollector.
func (c *Collector) RecordEmptyClusters(count int) {
	c.emptyClusters.Add(float64(count))
}
