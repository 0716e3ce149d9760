// Package testutil provides testing utilities for anchorgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG for generating synthetic box sizes and a
// brute-force reference for anchor quality.
//
// # Random Box Sizes
//
//	rng := testutil.NewRNG(seed)
//	boxes := rng.UniformSizes(100)                        // (0, 1]
//	boxes = rng.ClusteredSizes(centers, 20, 0.01)          // tight groups
//
// # Ground Truth
//
//	avg := testutil.BruteForceMeanIoU(boxes, centroids)
package testutil
