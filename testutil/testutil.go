package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/anchorgo/model"
)

// MinSide is the smallest relative side produced by the generators.
const MinSide = 1e-3

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformSizes generates sizes with both sides uniform in [MinSide, 1].
func (r *RNG) UniformSizes(num int) []model.Size {
	return r.UniformRangeSizes(num, MinSide, 1)
}

// UniformRangeSizes generates sizes with both sides uniform in [minVal, maxVal).
func (r *RNG) UniformRangeSizes(num int, minVal, maxVal float64) []model.Size {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := maxVal - minVal
	sizes := make([]model.Size, num)
	for i := range sizes {
		sizes[i] = model.Size{
			Width:  minVal + r.rand.Float64()*span,
			Height: minVal + r.rand.Float64()*span,
		}
	}

	return sizes
}

// ClusteredSizes generates perCluster sizes around each center with Gaussian
// noise of the given spread. Sides are clamped to [MinSide, 1].
// The output is grouped by center: the first perCluster sizes belong to centers[0].
func (r *RNG) ClusteredSizes(centers []model.Size, perCluster int, spread float64) []model.Size {
	r.mu.Lock()
	defer r.mu.Unlock()

	sizes := make([]model.Size, 0, len(centers)*perCluster)
	for _, c := range centers {
		for range perCluster {
			sizes = append(sizes, model.Size{
				Width:  clamp(c.Width + r.rand.NormFloat64()*spread),
				Height: clamp(c.Height + r.rand.NormFloat64()*spread),
			})
		}
	}

	return sizes
}

// Shuffle permutes sizes in place.
func (r *RNG) Shuffle(sizes []model.Size) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(sizes), func(i, j int) {
		sizes[i], sizes[j] = sizes[j], sizes[i]
	})
}

// BruteForceMeanIoU returns the mean over boxes of the best IoU against any centroid.
// It is a straightforward reference used to validate optimized code paths.
func BruteForceMeanIoU(boxes, centroids []model.Size) float64 {
	if len(boxes) == 0 || len(centroids) == 0 {
		return 0
	}

	var sum float64
	for _, b := range boxes {
		best := 0.0
		for _, c := range centroids {
			inter := math.Min(b.Width, c.Width) * math.Min(b.Height, c.Height)
			union := b.Width*b.Height + c.Width*c.Height - inter
			if union <= 0 {
				continue
			}
			if v := inter / union; v > best {
				best = v
			}
		}
		sum += best
	}

	return sum / float64(len(boxes))
}

func clamp(v float64) float64 {
	return math.Max(MinSide, math.Min(1, v))
}
