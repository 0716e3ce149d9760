// Package kmeans implements k-means clustering of box sizes under the IoU distance.
//
// Used by the root package to learn anchor sizes from ground-truth boxes.
// Centroids are recomputed with a pluggable per-dimension aggregator
// (median by default) and the loop stops once assignments are stable.
package kmeans
