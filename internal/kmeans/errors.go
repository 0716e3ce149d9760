package kmeans

import (
	"errors"
	"fmt"

	"github.com/hupe1980/anchorgo/model"
)

// ErrNoBoxes is returned when training is requested on an empty input.
var ErrNoBoxes = errors.New("kmeans: no boxes")

// ErrInvalidK indicates k outside [1, n].
type ErrInvalidK struct {
	K int
	N int
}

func (e *ErrInvalidK) Error() string {
	return fmt.Sprintf("kmeans: k must be in [1, %d], got %d", e.N, e.K)
}

// ErrInvalidBox indicates a box size that is not strictly positive and finite.
type ErrInvalidBox struct {
	Index int
	Size  model.Size
}

func (e *ErrInvalidBox) Error() string {
	return fmt.Sprintf("kmeans: invalid box at index %d: %v", e.Index, e.Size)
}

// ErrInvalidInit indicates unusable initial centroids.
type ErrInvalidInit struct {
	Index int // -1 for a length mismatch
	Size  model.Size
	Len   int
	K     int
}

func (e *ErrInvalidInit) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("kmeans: %d initial centroids for k=%d", e.Len, e.K)
	}
	return fmt.Sprintf("kmeans: invalid initial centroid at index %d: %v", e.Index, e.Size)
}
