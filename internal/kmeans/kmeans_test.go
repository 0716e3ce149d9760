package kmeans

import (
	"context"
	"math/rand"
	"testing"

	"github.com/hupe1980/anchorgo/aggregate"
	"github.com/hupe1980/anchorgo/model"
	"github.com/hupe1980/anchorgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeClusters returns well separated groups whose first element is not the median.
func threeClusters() []model.Size {
	return []model.Size{
		{Width: 0.10, Height: 0.10}, {Width: 0.12, Height: 0.11}, {Width: 0.11, Height: 0.12},
		{Width: 0.50, Height: 0.50}, {Width: 0.52, Height: 0.48}, {Width: 0.48, Height: 0.52},
		{Width: 0.90, Height: 0.20}, {Width: 0.88, Height: 0.22}, {Width: 0.92, Height: 0.18},
	}
}

func TestTrain_ConvergesToMedians(t *testing.T) {
	boxes := threeClusters()

	res, err := Train(context.Background(), boxes, Config{
		K:    3,
		Init: []model.Size{boxes[0], boxes[3], boxes[6]},
	})
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, 2, res.Iterations)
	assert.Equal(t, []model.Size{{Width: 0.11, Height: 0.11}, {Width: 0.50, Height: 0.50}, {Width: 0.90, Height: 0.20}}, res.Centroids)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2, 2, 2}, res.Assignments)
	assert.Equal(t, []int{3, 3, 3}, res.ClusterSizes)
	assert.Zero(t, res.EmptyClusters)
	assert.InDelta(t, testutil.BruteForceMeanIoU(boxes, res.Centroids), res.MeanIoU, 1e-12)
}

func TestTrain_StableInputUnchanged(t *testing.T) {
	boxes := threeClusters()
	medians := []model.Size{{Width: 0.11, Height: 0.11}, {Width: 0.50, Height: 0.50}, {Width: 0.90, Height: 0.20}}

	res, err := Train(context.Background(), boxes, Config{K: 3, Init: medians})
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, medians, res.Centroids)
}

func TestTrain_CustomAggregator(t *testing.T) {
	boxes := threeClusters()
	maxQ, err := aggregate.Quantile(1)
	require.NoError(t, err)

	res, err := Train(context.Background(), boxes, Config{
		K:          3,
		Init:       []model.Size{boxes[0], boxes[3], boxes[6]},
		Aggregator: maxQ,
	})
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, model.Size{Width: 0.12, Height: 0.12}, res.Centroids[0])
	assert.Equal(t, model.Size{Width: 0.52, Height: 0.52}, res.Centroids[1])
}

func TestTrain_Terminates(t *testing.T) {
	rng := testutil.NewRNG(4711)
	centers := []model.Size{{Width: 0.05, Height: 0.08}, {Width: 0.3, Height: 0.2}, {Width: 0.7, Height: 0.6}}
	boxes := rng.ClusteredSizes(centers, 7, 0.005)[:20]
	rng.Shuffle(boxes)

	for seed := int64(0); seed < 20; seed++ {
		res, err := Train(context.Background(), boxes, Config{
			K:             3,
			Rand:          rand.New(rand.NewSource(seed)),
			MaxIterations: 50,
		})
		require.NoError(t, err)

		assert.True(t, res.Converged, "seed %d", seed)
		assert.LessOrEqual(t, res.Iterations, 50)
		require.Len(t, res.Centroids, 3)
		for _, c := range res.Centroids {
			assert.True(t, c.Valid())
		}
		assert.Len(t, res.Assignments, 20)

		total := 0
		for _, s := range res.ClusterSizes {
			total += s
		}
		assert.Equal(t, 20, total)
	}
}

func TestTrain_Deterministic(t *testing.T) {
	boxes := testutil.NewRNG(1).UniformSizes(200)

	run := func() *Result {
		res, err := Train(context.Background(), boxes, Config{
			K:    5,
			Rand: rand.New(rand.NewSource(99)),
		})
		require.NoError(t, err)
		return res
	}

	assert.Equal(t, run(), run())
}

func TestTrain_WorkersMatchSerial(t *testing.T) {
	boxes := testutil.NewRNG(3).UniformSizes(1500)

	serial, err := Train(context.Background(), boxes, Config{K: 6, Rand: rand.New(rand.NewSource(5))})
	require.NoError(t, err)

	parallel, err := Train(context.Background(), boxes, Config{K: 6, Rand: rand.New(rand.NewSource(5)), Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestTrain_SingleClusterReturnsInitial(t *testing.T) {
	boxes := threeClusters()

	res, err := Train(context.Background(), boxes, Config{K: 1, Init: []model.Size{boxes[4]}})
	require.NoError(t, err)

	// The first assignment is all zeros, which equals the initial assignment.
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, []model.Size{boxes[4]}, res.Centroids)
	assert.Equal(t, []int{9}, res.ClusterSizes)
}

func TestTrain_EmptyClusterRetained(t *testing.T) {
	boxes := []model.Size{
		{Width: 0.10, Height: 0.10}, {Width: 0.09, Height: 0.09}, {Width: 0.11, Height: 0.11},
		{Width: 0.50, Height: 0.50}, {Width: 0.49, Height: 0.49}, {Width: 0.51, Height: 0.51},
	}

	res, err := Train(context.Background(), boxes, Config{
		K:    3,
		Init: []model.Size{boxes[0], boxes[0], boxes[3]},
	})
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.EmptyClusters)
	assert.Equal(t, []int{3, 0, 3}, res.ClusterSizes)
	assert.Equal(t, []model.Size{{Width: 0.10, Height: 0.10}, {Width: 0.10, Height: 0.10}, {Width: 0.50, Height: 0.50}}, res.Centroids)
}

func TestTrain_EmptyClusterReseeded(t *testing.T) {
	boxes := []model.Size{
		{Width: 0.10, Height: 0.10}, {Width: 0.09, Height: 0.09}, {Width: 0.11, Height: 0.11},
		{Width: 0.50, Height: 0.50}, {Width: 0.49, Height: 0.49}, {Width: 0.51, Height: 0.51},
	}

	res, err := Train(context.Background(), boxes, Config{
		K:           3,
		Init:        []model.Size{boxes[0], boxes[0], boxes[3]},
		EmptyPolicy: EmptyClusterReseed,
		Rand:        rand.New(rand.NewSource(7)),
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.EmptyClusters, 1)
	require.Len(t, res.Centroids, 3)
	for _, c := range res.Centroids {
		assert.True(t, c.Valid())
	}
}

func TestTrain_MaxIterations(t *testing.T) {
	boxes := threeClusters()
	init := []model.Size{boxes[0], boxes[3], boxes[6]}

	res, err := Train(context.Background(), boxes, Config{K: 3, Init: init, MaxIterations: 1})
	require.NoError(t, err)

	assert.False(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, init, res.Centroids)
}

func TestTrain_Observer(t *testing.T) {
	boxes := threeClusters()

	var seen []Iteration
	_, err := Train(context.Background(), boxes, Config{
		K:        3,
		Init:     []model.Size{boxes[0], boxes[3], boxes[6]},
		Observer: func(it Iteration) { seen = append(seen, it) },
	})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Equal(t, 0, seen[0].Index)
	assert.Equal(t, 1, seen[1].Index)
	assert.Equal(t, 6, seen[0].Reassigned)
	assert.Equal(t, 0, seen[1].Reassigned)
	assert.Greater(t, seen[0].Loss, 0.0)
	assert.Greater(t, seen[1].Loss, 0.0)
	assert.Equal(t, boxes[0], seen[0].Centroids[0])
	assert.Equal(t, model.Size{Width: 0.11, Height: 0.11}, seen[1].Centroids[0])
}

func TestTrain_InvalidInput(t *testing.T) {
	boxes := threeClusters()
	ctx := context.Background()

	_, err := Train(ctx, nil, Config{K: 1})
	assert.ErrorIs(t, err, ErrNoBoxes)

	var ek *ErrInvalidK
	_, err = Train(ctx, boxes, Config{K: 0})
	require.ErrorAs(t, err, &ek)
	assert.Equal(t, 0, ek.K)

	_, err = Train(ctx, boxes, Config{K: 10})
	require.ErrorAs(t, err, &ek)
	assert.Equal(t, 9, ek.N)

	var eb *ErrInvalidBox
	bad := append([]model.Size{{Width: 0.1, Height: 0.1}}, model.Size{Width: 0.2, Height: 0})
	_, err = Train(ctx, bad, Config{K: 1})
	require.ErrorAs(t, err, &eb)
	assert.Equal(t, 1, eb.Index)

	var ei *ErrInvalidInit
	_, err = Train(ctx, boxes, Config{K: 2, Init: []model.Size{{Width: 0.1, Height: 0.1}}})
	require.ErrorAs(t, err, &ei)
	assert.Equal(t, -1, ei.Index)

	_, err = Train(ctx, boxes, Config{K: 2, Init: []model.Size{{Width: 0.1, Height: 0.1}, {Width: -1, Height: 0.1}}})
	require.ErrorAs(t, err, &ei)
	assert.Equal(t, 1, ei.Index)
}

func TestTrain_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Train(ctx, testutil.NewRNG(1).UniformSizes(100), Config{K: 3})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssign(t *testing.T) {
	centroids := []model.Size{{Width: 0.1, Height: 0.1}, {Width: 0.5, Height: 0.5}, {Width: 0.5, Height: 0.5}}

	assert.Equal(t, 0, Assign(model.Size{Width: 0.12, Height: 0.1}, centroids))
	assert.Equal(t, 1, Assign(model.Size{Width: 0.45, Height: 0.5}, centroids))
	assert.Equal(t, -1, Assign(model.Size{Width: 0.1, Height: 0.1}, nil))
}

func TestNearest(t *testing.T) {
	centroids := []model.Size{{Width: 0.1, Height: 0.1}, {Width: 0.5, Height: 0.5}, {Width: 0.3, Height: 0.3}}

	assert.Equal(t, []int{2, 1}, Nearest(model.Size{Width: 0.35, Height: 0.35}, centroids, 2))
	assert.Equal(t, []int{0, 2, 1}, Nearest(model.Size{Width: 0.1, Height: 0.1}, centroids, 10))
	assert.Empty(t, Nearest(model.Size{Width: 0.1, Height: 0.1}, centroids, -1))
}

func TestEmptyClusterPolicyString(t *testing.T) {
	assert.Equal(t, "retain", EmptyClusterRetain.String())
	assert.Equal(t, "reseed", EmptyClusterReseed.String())
	assert.Equal(t, "unknown", EmptyClusterPolicy(9).String())
}
