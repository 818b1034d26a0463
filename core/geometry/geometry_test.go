package geometry

import (
	"math"
	"testing"

	"floorplan-markup/core/types"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b types.Coordinate
		want float64
	}{
		{
			name: "horizontal segment",
			a:    types.Coordinate{X: 0, Y: 0},
			b:    types.Coordinate{X: 100, Y: 0},
			want: 100,
		},
		{
			name: "vertical segment",
			a:    types.Coordinate{X: 5, Y: 10},
			b:    types.Coordinate{X: 5, Y: 40},
			want: 30,
		},
		{
			name: "3-4-5 triangle",
			a:    types.Coordinate{X: 0, Y: 0},
			b:    types.Coordinate{X: 3, Y: 4},
			want: 5,
		},
		{
			name: "coincident points",
			a:    types.Coordinate{X: 7, Y: 7},
			b:    types.Coordinate{X: 7, Y: 7},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > DefaultTolerance {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPolylineLength(t *testing.T) {
	tests := []struct {
		name   string
		points []types.Coordinate
		want   float64
	}{
		{
			name:   "empty run measures zero",
			points: nil,
			want:   0,
		},
		{
			name:   "single point measures zero",
			points: []types.Coordinate{{X: 10, Y: 10}},
			want:   0,
		},
		{
			name:   "L-shaped run sums segments",
			points: []types.Coordinate{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}},
			want:   200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PolylineLength(tt.points)
			if math.Abs(got-tt.want) > DefaultTolerance {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPolygonArea(t *testing.T) {
	square := []types.Coordinate{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	reversed := []types.Coordinate{{X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0}}

	tests := []struct {
		name string
		ring []types.Coordinate
		want float64
	}{
		{name: "degenerate two-point ring", ring: square[:2], want: 0},
		{name: "unit right triangle", ring: []types.Coordinate{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}, want: 0.5},
		{name: "axis-aligned square", ring: square, want: 100},
		{name: "winding order is irrelevant", ring: reversed, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PolygonArea(tt.ring)
			if math.Abs(got-tt.want) > DefaultTolerance {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}
