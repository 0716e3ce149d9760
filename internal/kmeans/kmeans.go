package kmeans

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/anchorgo/aggregate"
	"github.com/hupe1980/anchorgo/iou"
	"github.com/hupe1980/anchorgo/model"
	"gonum.org/v1/gonum/mat"
)

// DefaultMaxIterations bounds the loop when Config.MaxIterations is not set.
const DefaultMaxIterations = 1000

// EmptyClusterPolicy decides what happens to a centroid that received no boxes.
type EmptyClusterPolicy int

const (
	// EmptyClusterRetain keeps the previous centroid.
	EmptyClusterRetain EmptyClusterPolicy = iota
	// EmptyClusterReseed replaces the centroid with a randomly drawn box.
	EmptyClusterReseed
)

func (p EmptyClusterPolicy) String() string {
	switch p {
	case EmptyClusterRetain:
		return "retain"
	case EmptyClusterReseed:
		return "reseed"
	default:
		return "unknown"
	}
}

// Iteration describes one pass of the clustering loop.
type Iteration struct {
	// Index is zero-based.
	Index int
	// Loss is the sum of absolute changes in the distance matrix since the previous pass.
	Loss float64
	// MeanIoU is the mean best IoU of all boxes against Centroids.
	MeanIoU float64
	// Reassigned counts boxes whose assignment differs from the previous pass.
	Reassigned int
	// Centroids is a copy of the centroids the distances were computed against.
	Centroids []model.Size
}

// Config controls a training run.
type Config struct {
	K             int
	MaxIterations int
	Aggregator    aggregate.Func
	EmptyPolicy   EmptyClusterPolicy
	// Init, if set, replaces random initialization. Must hold K valid sizes.
	Init    []model.Size
	Rand    *rand.Rand
	Workers int
	// Observer is called once per iteration, after assignment.
	Observer func(Iteration)
	Logger   *slog.Logger
}

// Result is the outcome of a training run.
type Result struct {
	Centroids     []model.Size
	Assignments   []int
	ClusterSizes  []int
	Iterations    int
	Converged     bool
	Loss          float64
	MeanIoU       float64
	EmptyClusters int
}

// Train clusters boxes into cfg.K centroids under the IoU distance.
//
// Initial centroids are drawn uniformly with replacement. Each pass assigns
// every box to its nearest centroid and stops when the assignment equals the
// previous one (initially all zeros). Otherwise every non-empty cluster is
// recomputed with the aggregator.
//
// If MaxIterations passes complete without convergence the best centroids
// seen (by mean IoU) are returned with Converged set to false.
func Train(ctx context.Context, boxes []model.Size, cfg Config) (*Result, error) {
	n := len(boxes)
	if n == 0 {
		return nil, ErrNoBoxes
	}
	if cfg.K < 1 || cfg.K > n {
		return nil, &ErrInvalidK{K: cfg.K, N: n}
	}
	for i, b := range boxes {
		if !b.Valid() {
			return nil, &ErrInvalidBox{Index: i, Size: b}
		}
	}

	cfg = cfg.withDefaults()
	k := cfg.K

	centroids, err := initCentroids(boxes, cfg)
	if err != nil {
		return nil, err
	}

	last := make([]int, n)
	cur := make([]int, n)
	members := make([]*roaring.Bitmap, k)
	for j := range members {
		members[j] = roaring.New()
	}

	var (
		prev  *mat.Dense
		best  *Result
		empty int
	)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d, err := iou.Matrix(ctx, boxes, centroids, cfg.Workers)
		if err != nil {
			return nil, err
		}

		loss := iou.Loss(d, prev)
		prev = d
		meanIoU := iou.MeanIoU(d)

		cur = iou.Argmin(d, cur)
		reassigned := countChanged(last, cur)

		cfg.Observer(Iteration{
			Index:      iter,
			Loss:       loss,
			MeanIoU:    meanIoU,
			Reassigned: reassigned,
			Centroids:  slices.Clone(centroids),
		})

		if best == nil || meanIoU > best.MeanIoU {
			best = snapshot(centroids, cur, members, loss, meanIoU)
		}

		if reassigned == 0 {
			res := snapshot(centroids, cur, members, loss, meanIoU)
			res.Iterations = iter + 1
			res.Converged = true
			res.EmptyClusters = empty
			return res, nil
		}

		empty += update(boxes, cur, centroids, members, cfg)

		last, cur = cur, last
	}

	cfg.Logger.Warn("kmeans did not converge",
		"k", k,
		"max_iterations", cfg.MaxIterations,
		"mean_iou", best.MeanIoU,
	)

	best.Iterations = cfg.MaxIterations
	best.Converged = false
	best.EmptyClusters = empty

	return best, nil
}

func (c Config) withDefaults() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.Aggregator == nil {
		c.Aggregator = aggregate.Median
	}
	if c.Rand == nil {
		c.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.Observer == nil {
		c.Observer = func(Iteration) {}
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

func initCentroids(boxes []model.Size, cfg Config) ([]model.Size, error) {
	if cfg.Init != nil {
		if len(cfg.Init) != cfg.K {
			return nil, &ErrInvalidInit{Index: -1, Len: len(cfg.Init), K: cfg.K}
		}
		for i, c := range cfg.Init {
			if !c.Valid() {
				return nil, &ErrInvalidInit{Index: i, Size: c, Len: len(cfg.Init), K: cfg.K}
			}
		}
		return slices.Clone(cfg.Init), nil
	}

	centroids := make([]model.Size, cfg.K)
	for j := range centroids {
		centroids[j] = boxes[cfg.Rand.Intn(len(boxes))]
	}
	return centroids, nil
}

// update recomputes centroids in place from the assignment and returns the
// number of clusters that had no members.
func update(boxes []model.Size, assign []int, centroids []model.Size, members []*roaring.Bitmap, cfg Config) int {
	buildMembership(assign, members)

	empty := 0
	buf := make([]model.Size, 0, len(boxes))

	for j, bm := range members {
		if bm.IsEmpty() {
			empty++
			handleEmpty(j, boxes, centroids, cfg)
			continue
		}

		buf = buf[:0]
		it := bm.Iterator()
		for it.HasNext() {
			buf = append(buf, boxes[it.Next()])
		}

		next := aggregate.Centroid(cfg.Aggregator, buf)
		if !next.Valid() {
			cfg.Logger.Warn("aggregator produced invalid centroid, keeping previous",
				"cluster", j,
				"members", len(buf),
				"centroid", next.String(),
			)
			continue
		}
		centroids[j] = next
	}

	return empty
}

func handleEmpty(j int, boxes []model.Size, centroids []model.Size, cfg Config) {
	if cfg.EmptyPolicy == EmptyClusterReseed {
		centroids[j] = boxes[cfg.Rand.Intn(len(boxes))]
	}

	cfg.Logger.Warn("empty cluster",
		"cluster", j,
		"policy", cfg.EmptyPolicy.String(),
		"centroid", centroids[j].String(),
	)
}

func buildMembership(assign []int, members []*roaring.Bitmap) {
	for _, bm := range members {
		bm.Clear()
	}
	for i, j := range assign {
		members[j].Add(uint32(i))
	}
}

func snapshot(centroids []model.Size, assign []int, members []*roaring.Bitmap, loss, meanIoU float64) *Result {
	buildMembership(assign, members)

	sizes := make([]int, len(members))
	for j, bm := range members {
		sizes[j] = int(bm.GetCardinality())
	}

	return &Result{
		Centroids:    slices.Clone(centroids),
		Assignments:  slices.Clone(assign),
		ClusterSizes: sizes,
		Loss:         loss,
		MeanIoU:      meanIoU,
	}
}

func countChanged(a, b []int) int {
	changed := 0
	for i := range a {
		if a[i] != b[i] {
			changed++
		}
	}
	return changed
}

// Assign returns the index of the centroid nearest to box under the IoU distance.
// Ties resolve to the lowest index. It returns -1 for no centroids.
func Assign(box model.Size, centroids []model.Size) int {
	bestCluster := -1
	minDist := 2.0

	for j, c := range centroids {
		d := iou.Distance(box, c)
		if d < minDist {
			minDist = d
			bestCluster = j
		}
	}

	return bestCluster
}

type centroidDist struct {
	id   int
	dist float64
}

// Nearest returns the indices of the n centroids closest to box, nearest first.
func Nearest(box model.Size, centroids []model.Size, n int) []int {
	n = max(0, min(n, len(centroids)))

	dists := make([]centroidDist, len(centroids))
	for i, c := range centroids {
		dists[i] = centroidDist{id: i, dist: iou.Distance(box, c)}
	}

	sort.SliceStable(dists, func(i, j int) bool {
		return dists[i].dist < dists[j].dist
	})

	result := make([]int, n)
	for i := range n {
		result[i] = dists[i].id
	}

	return result
}
