package anchorgo

import "github.com/hupe1980/anchorgo/internal/kmeans"

// Iteration describes one pass of the clustering loop: its zero-based index,
// the loss (sum of absolute distance changes since the previous pass), the
// mean best IoU, the number of reassigned boxes and a copy of the centroids.
type Iteration = kmeans.Iteration

// Observer receives a notification after every clustering pass.
// Observers run synchronously on the clustering goroutine.
type Observer interface {
	OnIteration(it Iteration)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(it Iteration)

// OnIteration implements Observer.
func (f ObserverFunc) OnIteration(it Iteration) { f(it) }
