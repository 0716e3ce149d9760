package iou

import (
	"context"
	"errors"
	"math"

	"github.com/hupe1980/anchorgo/model"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrEmpty is returned when a distance matrix is requested for no boxes or no centroids.
var ErrEmpty = errors.New("iou: empty boxes or centroids")

// minRowsPerWorker keeps tiny matrices on a single goroutine.
const minRowsPerWorker = 256

// IoU returns the intersection over union of two origin-anchored sizes.
// It returns 0 when the union is not positive.
func IoU(a, b model.Size) float64 {
	inter := math.Min(a.Width, b.Width) * math.Min(a.Height, b.Height)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// Distance returns 1 - IoU(a, b).
func Distance(a, b model.Size) float64 {
	return 1 - IoU(a, b)
}

// Matrix computes the N x k matrix of IoU distances between boxes and centroids.
// D[i, j] = 1 - IoU(boxes[i], centroids[j]).
//
// With workers > 1 rows are split into blocks computed concurrently.
// The result does not depend on the worker count.
func Matrix(ctx context.Context, boxes, centroids []model.Size, workers int) (*mat.Dense, error) {
	n, k := len(boxes), len(centroids)
	if n == 0 || k == 0 {
		return nil, ErrEmpty
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := mat.NewDense(n, k, nil)

	if workers <= 1 || n < 2*minRowsPerWorker {
		fillRows(d, boxes, centroids, 0, n)
		return d, nil
	}

	block := (n + workers - 1) / workers
	if block < minRowsPerWorker {
		block = minRowsPerWorker
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for lo := 0; lo < n; lo += block {
		hi := min(lo+block, n)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fillRows(d, boxes, centroids, lo, hi)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return d, nil
}

// fillRows writes rows [lo, hi) of d. Blocks never overlap.
func fillRows(d *mat.Dense, boxes, centroids []model.Size, lo, hi int) {
	for i := lo; i < hi; i++ {
		row := d.RawRowView(i)
		box := boxes[i]
		for j, c := range centroids {
			row[j] = Distance(box, c)
		}
	}
}

// Loss returns the sum of absolute element-wise differences between cur and prev.
// A nil prev is treated as all zeros. It panics if the shapes differ.
func Loss(cur, prev *mat.Dense) float64 {
	if prev == nil {
		return floats.Norm(cur.RawMatrix().Data, 1)
	}

	var diff mat.Dense
	diff.Sub(cur, prev)
	return floats.Norm(diff.RawMatrix().Data, 1)
}

// Argmin writes the index of the nearest centroid for every row of d into dst
// and returns it. Ties resolve to the lowest index.
// dst is reallocated if it is too short.
func Argmin(d *mat.Dense, dst []int) []int {
	n, _ := d.Dims()
	if cap(dst) < n {
		dst = make([]int, n)
	}
	dst = dst[:n]

	for i := range n {
		dst[i] = floats.MinIdx(d.RawRowView(i))
	}

	return dst
}

// MeanIoU returns the mean over rows of the best IoU, i.e. 1 - min(row).
func MeanIoU(d *mat.Dense) float64 {
	n, _ := d.Dims()

	var sum float64
	for i := range n {
		sum += 1 - floats.Min(d.RawRowView(i))
	}

	return sum / float64(n)
}
