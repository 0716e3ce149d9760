package anchorgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/anchorgo/internal/kmeans"
	"github.com/hupe1980/anchorgo/model"
)

var (
	// ErrInvalidInput is the root of every argument error. Test with errors.Is.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidK is returned when k is not in [1, number of boxes].
	ErrInvalidK = fmt.Errorf("%w: k must be in [1, number of boxes]", ErrInvalidInput)

	// ErrNoBoxes is returned when clustering is requested on no boxes.
	ErrNoBoxes = fmt.Errorf("%w: no boxes", ErrInvalidInput)

	// ErrInvalidInitialCentroids is returned when WithInitialCentroids does not
	// supply k valid sizes.
	ErrInvalidInitialCentroids = fmt.Errorf("%w: initial centroids", ErrInvalidInput)
)

// ErrInvalidBox indicates a box size with a non-positive or non-finite dimension.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidBox struct {
	Index int
	Size  model.Size
	cause error
}

func (e *ErrInvalidBox) Error() string {
	return fmt.Sprintf("invalid box at index %d: %v", e.Index, e.Size)
}

func (e *ErrInvalidBox) Unwrap() error { return e.cause }

// Is reports ErrInvalidInput as a match.
func (e *ErrInvalidBox) Is(target error) bool { return target == ErrInvalidInput }

// ErrInvalidImageSize indicates a non-positive target image dimension.
type ErrInvalidImageSize struct {
	Width  int
	Height int
}

func (e *ErrInvalidImageSize) Error() string {
	return fmt.Sprintf("invalid image size: %dx%d", e.Width, e.Height)
}

// Is reports ErrInvalidInput as a match.
func (e *ErrInvalidImageSize) Is(target error) bool { return target == ErrInvalidInput }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, kmeans.ErrNoBoxes) {
		return fmt.Errorf("%w: %w", ErrNoBoxes, err)
	}
	var ek *kmeans.ErrInvalidK
	if errors.As(err, &ek) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}
	var eb *kmeans.ErrInvalidBox
	if errors.As(err, &eb) {
		return &ErrInvalidBox{Index: eb.Index, Size: eb.Size, cause: err}
	}
	var ei *kmeans.ErrInvalidInit
	if errors.As(err, &ei) {
		return fmt.Errorf("%w: %w", ErrInvalidInitialCentroids, err)
	}

	return err
}
