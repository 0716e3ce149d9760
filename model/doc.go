// Package model defines the value types shared across anchorgo.
//
// # Types
//
//   - Size: relative box size (fraction of image width and height)
//   - Anchor: absolute anchor size in pixels
//
// Sizes are treated as origin-anchored rectangles: only width and height
// matter, never position.
package model
