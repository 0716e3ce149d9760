// Package iou provides intersection-over-union calculations for box sizes.
//
// Boxes are compared as if anchored at a common origin, so only width and
// height take part in the overlap. The distance used for clustering is
// 1 - IoU, which lies in [0, 1].
//
// # Usage
//
//	sim := iou.IoU(a, b)
//	d, _ := iou.Matrix(ctx, boxes, centroids, 1) // N x k distances
//	nearest := iou.Argmin(d, nil)
package iou
