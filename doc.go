// Package anchorgo computes anchor box sizes for object detection.
//
// Anchors are learned with k-means over relative ground-truth box sizes,
// using 1 - IoU as the distance instead of Euclidean distance so that large
// and small boxes are treated alike.
//
// # Quick Start
//
//	ctx := context.Background()
//	boxes := []model.Size{{Width: 0.12, Height: 0.30}, ...} // fractions of image size
//	res, _ := anchorgo.KMeans(ctx, boxes, 9, anchorgo.WithSeed(42))
//	anchors, _ := res.Anchors(1344, 756) // pixel sizes
//
// # Convergence
//
// The loop stops as soon as no box changes cluster. A configurable cap
// (WithMaxIterations, default 1000) guards against oscillation; when it is
// hit the best centroids seen are returned and Result.Converged is false.
//
// # Empty Clusters
//
// A cluster without members keeps its previous centroid by default
// (EmptyClusterRetain). EmptyClusterReseed draws a random box instead.
//
// # Observability
//
//   - Observer / ObserverFunc: per-iteration callback with loss and centroids
//   - Logger: structured slog logging (no-op by default)
//   - MetricsCollector: run and iteration metrics; see package prom
package anchorgo
