package anchorgo

import (
	"context"
	"math"
	"time"

	"github.com/hupe1980/anchorgo/internal/kmeans"
	"github.com/hupe1980/anchorgo/model"
	"golang.org/x/time/rate"
)

// progressInterval throttles info-level progress logs.
const progressInterval = time.Second

// Result is the outcome of a KMeans run.
type Result struct {
	// Centroids holds exactly k relative anchor sizes.
	Centroids []model.Size
	// Assignments maps every input box to its centroid index.
	Assignments []int
	// ClusterSizes counts the boxes assigned to each centroid.
	ClusterSizes []int
	// Iterations is the number of distance-matrix passes performed.
	Iterations int
	// Converged is false when the iteration cap stopped the run.
	Converged bool
	// Loss is the distance change reported by the final pass.
	Loss float64
	// MeanIoU is the mean best IoU of the boxes against Centroids.
	MeanIoU float64
	// EmptyClusters counts empty-cluster events across all passes.
	EmptyClusters int
}

// KMeans learns k anchor sizes from relative box sizes using k-means with
// 1 - IoU as the distance and a per-dimension aggregator (median by default)
// as the centroid update.
//
// It returns an error wrapping ErrInvalidInput if k < 1, k > len(boxes), or any
// box has a non-positive dimension. A run that hits the iteration cap is not
// an error; check Result.Converged.
func KMeans(ctx context.Context, boxes []model.Size, k int, optFns ...Option) (*Result, error) {
	o := applyOptions(optFns)
	logger := o.logger.WithK(k).WithCount(len(boxes))
	progress := rate.Sometimes{First: 1, Interval: progressInterval}

	start := time.Now()

	res, err := kmeans.Train(ctx, boxes, kmeans.Config{
		K:             k,
		MaxIterations: o.maxIterations,
		Aggregator:    o.aggregator,
		EmptyPolicy:   o.emptyPolicy,
		Init:          o.initial,
		Rand:          o.rand,
		Workers:       o.workers,
		Logger:        logger.Logger,
		Observer: func(it kmeans.Iteration) {
			o.metricsCollector.RecordIteration(it.Loss, it.MeanIoU, it.Reassigned)
			logger.LogIteration(ctx, it)
			progress.Do(func() { logger.LogProgress(ctx, it) })
			for _, obs := range o.observers {
				obs.OnIteration(it)
			}
		},
	})
	duration := time.Since(start)

	if err != nil {
		err = translateError(err)
		o.metricsCollector.RecordRun(k, len(boxes), 0, false, duration, err)
		logger.LogRun(ctx, nil, duration, err)
		return nil, err
	}

	out := &Result{
		Centroids:     res.Centroids,
		Assignments:   res.Assignments,
		ClusterSizes:  res.ClusterSizes,
		Iterations:    res.Iterations,
		Converged:     res.Converged,
		Loss:          res.Loss,
		MeanIoU:       res.MeanIoU,
		EmptyClusters: res.EmptyClusters,
	}

	o.metricsCollector.RecordRun(k, len(boxes), out.Iterations, out.Converged, duration, nil)
	if out.EmptyClusters > 0 {
		o.metricsCollector.RecordEmptyClusters(out.EmptyClusters)
	}
	logger.LogRun(ctx, out, duration, nil)

	return out, nil
}

// Anchors scales the centroids to pixel anchors for a width x height image.
func (r *Result) Anchors(width, height int) ([]model.Anchor, error) {
	return GenerateAnchors(width, height, r.Centroids)
}

// Assign returns the index of the centroid with the highest IoU against box.
func (r *Result) Assign(box model.Size) int {
	return kmeans.Assign(box, r.Centroids)
}

// Nearest returns the indices of the n centroids with the highest IoU against
// box, best first.
func (r *Result) Nearest(box model.Size, n int) []int {
	return kmeans.Nearest(box, r.Centroids, n)
}

// GenerateAnchors maps relative centroid sizes to pixel sizes for an image of
// width x height: floor(size * (width, height)).
func GenerateAnchors(width, height int, centroids []model.Size) ([]model.Anchor, error) {
	if width <= 0 || height <= 0 {
		return nil, &ErrInvalidImageSize{Width: width, Height: height}
	}

	w, h := float64(width), float64(height)

	anchors := make([]model.Anchor, len(centroids))
	for i, c := range centroids {
		anchors[i] = model.Anchor{
			Width:  int(math.Floor(c.Width * w)),
			Height: int(math.Floor(c.Height * h)),
		}
	}

	return anchors, nil
}
