// Package aggregate provides per-dimension aggregators used to recompute a
// cluster centroid from its member sizes.
//
// Median is the default. Mean and Quantile are backed by gonum/stat.
package aggregate
