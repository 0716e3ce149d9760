package model

import (
	"fmt"
	"math"
)

// Size is a box size relative to the image it was annotated on.
// Both dimensions are expected in (0, 1].
type Size struct {
	Width  float64
	Height float64
}

// Area returns Width * Height.
func (s Size) Area() float64 {
	return s.Width * s.Height
}

// Valid reports whether both dimensions are finite and strictly positive.
func (s Size) Valid() bool {
	return positiveFinite(s.Width) && positiveFinite(s.Height)
}

// String returns a string representation of the Size.
func (s Size) String() string {
	return fmt.Sprintf("Size(%.4f x %.4f)", s.Width, s.Height)
}

// Anchor is an absolute anchor box size in pixels.
type Anchor struct {
	Width  int
	Height int
}

// String returns a string representation of the Anchor.
func (a Anchor) String() string {
	return fmt.Sprintf("Anchor(%dx%d)", a.Width, a.Height)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
