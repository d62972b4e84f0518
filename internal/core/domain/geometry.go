package domain

import (
	"math"
	"sort"
)

// Point2D is a position in page space.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Bounds is an axis-aligned rectangle in page space.
type Bounds struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Center returns the center point of the rectangle.
func (b Bounds) Center() Point2D {
	return Point2D{X: b.X + b.W/2, Y: b.Y + b.H/2}
}

// Contains reports whether the rectangle fully contains other.
func (b Bounds) Contains(other Bounds) bool {
	return other.X >= b.X &&
		other.Y >= b.Y &&
		other.X+other.W <= b.X+b.W &&
		other.Y+other.H <= b.Y+b.H
}

// BoundsAround returns a w×h rectangle centred on p.
func BoundsAround(p Point2D, w, h float64) Bounds {
	return Bounds{X: p.X - w/2, Y: p.Y - h/2, W: w, H: h}
}

// MedianPoint returns the per-axis median of the given positions: the median
// x and median y are computed independently, so the result need not coincide
// with any input point. For even-length input the lower-middle element is
// used on each axis. Returns the zero point for empty input.
func MedianPoint(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	sort.Float64s(xs)
	sort.Float64s(ys)

	// Lower-middle for even counts: index (n-1)/2.
	mid := (len(points) - 1) / 2
	return Point2D{X: xs[mid], Y: ys[mid]}
}
