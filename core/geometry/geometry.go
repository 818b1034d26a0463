// Package geometry provides planar pixel-space measurement primitives.
// All functions are pure; unit conversion lives in core/scale.
package geometry

import (
	"math"

	"floorplan-markup/core/types"
)

// DefaultTolerance is the comparison tolerance for pixel coordinates
const DefaultTolerance = 1e-9

// EqualWithin reports whether two coordinates coincide within tolerance
func EqualWithin(a, b types.Coordinate, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance && math.Abs(a.Y-b.Y) <= tolerance
}

// Distance returns the Euclidean distance between two pixel coordinates
func Distance(a, b types.Coordinate) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// PolylineLength returns the summed segment length of an ordered run.
// Fewer than two points measure zero.
func PolylineLength(points []types.Coordinate) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// PolygonArea returns the planar area enclosed by a ring of pixel
// coordinates via the shoelace formula. The ring closes implicitly;
// winding order does not matter. Fewer than three points enclose zero.
func PolygonArea(ring []types.Coordinate) float64 {
	if len(ring) < 3 {
		return 0
	}
	var twice float64
	for i := range ring {
		j := (i + 1) % len(ring)
		twice += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return math.Abs(twice) / 2
}
