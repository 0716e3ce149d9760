// Package prom exports anchorgo run metrics to Prometheus.
//
//	c, _ := prom.NewCollector(prometheus.DefaultRegisterer)
//	res, _ := anchorgo.KMeans(ctx, boxes, 9, anchorgo.WithMetricsCollector(c))
package prom
