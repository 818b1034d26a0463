// Package scale converts between image-pixel space and real-world units.
//
// Raw geometry is always stored in pixel space; real-world lengths and
// areas are projections through a ScaleCalibration. Replacing the
// calibration changes the projections only, never the stored geometry.
package scale

import (
	"floorplan-markup/core/geometry"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// Calibrate derives a calibration from a two-point pixel measurement and a
// user-entered real-world distance in meters.
func Calibrate(pointA, pointB types.Coordinate, realDistance float64) (types.ScaleCalibration, error) {
	pixelLength := geometry.Distance(pointA, pointB)
	if geometry.EqualWithin(pointA, pointB, geometry.DefaultTolerance) || pixelLength <= 0 {
		return types.ScaleCalibration{}, errors.InvalidCalibration("calibration points coincide: zero pixel length")
	}
	if realDistance <= 0 {
		return types.ScaleCalibration{}, errors.Newf(errors.TypeInvalidCalibration,
			"real-world distance must be positive, got %v", realDistance)
	}
	return types.ScaleCalibration{
		ReferencePixelLength: pixelLength,
		ReferenceRealLength:  realDistance,
	}, nil
}

// ToReal converts a pixel length to meters
func ToReal(pixelLength float64, cal *types.ScaleCalibration) (float64, error) {
	if cal == nil {
		return 0, errors.Uncalibrated("length conversion")
	}
	return pixelLength * cal.MetersPerPixel(), nil
}

// ToRealArea converts a pixel area to square meters. The linear factor is
// squared; callers must never reuse ToReal for areas.
func ToRealArea(pixelArea float64, cal *types.ScaleCalibration) (float64, error) {
	if cal == nil {
		return 0, errors.Uncalibrated("area conversion")
	}
	mpp := cal.MetersPerPixel()
	return pixelArea * mpp * mpp, nil
}
