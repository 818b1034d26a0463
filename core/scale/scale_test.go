package scale

import (
	"math"
	"testing"

	"floorplan-markup/core/geometry"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

const tolerance = 1e-9

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name         string
		pointA       types.Coordinate
		pointB       types.Coordinate
		realDistance float64
		wantErr      errors.Type
		wantMPP      float64
	}{
		{
			name:         "hundred pixels over five meters",
			pointA:       types.Coordinate{X: 0, Y: 0},
			pointB:       types.Coordinate{X: 100, Y: 0},
			realDistance: 5.0,
			wantMPP:      0.05,
		},
		{
			name:         "diagonal reference segment",
			pointA:       types.Coordinate{X: 0, Y: 0},
			pointB:       types.Coordinate{X: 30, Y: 40},
			realDistance: 10,
			wantMPP:      0.2,
		},
		{
			name:         "coincident points rejected",
			pointA:       types.Coordinate{X: 50, Y: 50},
			pointB:       types.Coordinate{X: 50, Y: 50},
			realDistance: 5.0,
			wantErr:      errors.TypeInvalidCalibration,
		},
		{
			name:         "zero real distance rejected",
			pointA:       types.Coordinate{X: 0, Y: 0},
			pointB:       types.Coordinate{X: 100, Y: 0},
			realDistance: 0,
			wantErr:      errors.TypeInvalidCalibration,
		},
		{
			name:         "negative real distance rejected",
			pointA:       types.Coordinate{X: 0, Y: 0},
			pointB:       types.Coordinate{X: 100, Y: 0},
			realDistance: -3,
			wantErr:      errors.TypeInvalidCalibration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal, err := Calibrate(tt.pointA, tt.pointB, tt.realDistance)
			if tt.wantErr != "" {
				if !errors.IsType(err, tt.wantErr) {
					t.Fatalf("expected %s, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := cal.MetersPerPixel(); math.Abs(got-tt.wantMPP) > tolerance {
				t.Errorf("expected meters-per-pixel %v, got %v", tt.wantMPP, got)
			}
		})
	}
}

// TestCalibrateRoundTrip proves that converting the reference pixel
// distance back through the calibration reproduces the entered distance.
func TestCalibrateRoundTrip(t *testing.T) {
	pairs := []struct {
		a, b types.Coordinate
		real float64
	}{
		{types.Coordinate{X: 0, Y: 0}, types.Coordinate{X: 100, Y: 0}, 5.0},
		{types.Coordinate{X: 12.5, Y: -3}, types.Coordinate{X: 88, Y: 41.25}, 17.3},
		{types.Coordinate{X: -50, Y: -50}, types.Coordinate{X: 50, Y: 50}, 0.001},
	}

	for _, p := range pairs {
		cal, err := Calibrate(p.a, p.b, p.real)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := ToReal(geometry.Distance(p.a, p.b), &cal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(got-p.real) > tolerance {
			t.Errorf("round trip drifted: entered %v, got back %v", p.real, got)
		}
	}
}

func TestToRealUncalibrated(t *testing.T) {
	if _, err := ToReal(100, nil); !errors.IsType(err, errors.TypeUncalibrated) {
		t.Errorf("expected UNCALIBRATED_DRAWING, got %v", err)
	}
	if _, err := ToRealArea(100, nil); !errors.IsType(err, errors.TypeUncalibrated) {
		t.Errorf("expected UNCALIBRATED_DRAWING, got %v", err)
	}
}

// TestToRealAreaUsesSquaredFactor proves the area conversion squares the
// linear factor instead of reusing it.
func TestToRealAreaUsesSquaredFactor(t *testing.T) {
	cal := types.ScaleCalibration{ReferencePixelLength: 100, ReferenceRealLength: 5}

	area, err := ToRealArea(10000, &cal) // a 100x100 pixel square
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(area-25) > tolerance {
		t.Errorf("expected 25 m2, got %v", area)
	}

	linear, _ := ToReal(10000, &cal)
	if math.Abs(area-linear) < tolerance {
		t.Error("area conversion must differ from linear conversion for the same magnitude")
	}
}
