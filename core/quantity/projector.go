// Package quantity projects entity geometry into real-world quantities
// for bill-of-quantities and compliance consumers.
//
// Projection is read-only and recomputed on demand; with tens to low
// hundreds of entities per drawing, correctness beats incremental-update
// caching. Out-of-scope entities are excluded from every aggregate.
package quantity

import (
	"github.com/shopspring/decimal"

	"floorplan-markup/core/entity"
	"floorplan-markup/core/geometry"
	"floorplan-markup/core/scale"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// quantityPlaces is the rounding applied to reported quantities
const quantityPlaces = 4

// RunLength is the aggregated length of one linear kind
type RunLength struct {
	// Kind is supply_line or containment_run
	Kind types.EntityKind `json:"kind"`

	// TotalMeters is the summed real-world length across entities
	TotalMeters decimal.Decimal `json:"total_meters"`

	// ByBucket splits the total by the kind's grouping attribute
	ByBucket map[string]decimal.Decimal `json:"by_bucket,omitempty"`

	// Entities is the number of runs contributing
	Entities int `json:"entities"`
}

// ZoneArea is the measured area of one zone
type ZoneArea struct {
	ID           types.EntityID  `json:"id"`
	Label        string          `json:"label"`
	SquareMeters decimal.Decimal `json:"square_meters"`
}

// Summary is the full takeoff for one drawing
type Summary struct {
	// Lengths aggregates linear runs per kind
	Lengths []RunLength `json:"lengths"`

	// Zones lists each in-scope zone with its area
	Zones []ZoneArea `json:"zones"`

	// TotalZoneArea sums every in-scope zone
	TotalZoneArea decimal.Decimal `json:"total_zone_area"`

	// EquipmentCounts buckets equipment points by category
	EquipmentCounts map[string]int `json:"equipment_counts"`

	// Excluded is the number of out-of-scope entities left out
	Excluded int `json:"excluded"`
}

// PixelSummary is the calibration-free takeoff, in pixel units
type PixelSummary struct {
	LengthByKind    map[types.EntityKind]float64 `json:"length_by_kind"`
	ZoneAreaTotal   float64                      `json:"zone_area_total"`
	EquipmentCounts map[string]int               `json:"equipment_counts"`
	Excluded        int                          `json:"excluded"`
}

// Takeoff computes the real-world summary for a store under a calibration.
// A nil calibration fails with UncalibratedDrawing.
func Takeoff(store *entity.Store, cal *types.ScaleCalibration) (*Summary, error) {
	if cal == nil {
		return nil, errors.Uncalibrated("quantity takeoff")
	}

	summary := &Summary{
		TotalZoneArea:   decimal.Zero,
		EquipmentCounts: make(map[string]int),
	}

	lengths := map[types.EntityKind]*RunLength{
		types.KindSupplyLine:     {Kind: types.KindSupplyLine, TotalMeters: decimal.Zero, ByBucket: make(map[string]decimal.Decimal)},
		types.KindContainmentRun: {Kind: types.KindContainmentRun, TotalMeters: decimal.Zero, ByBucket: make(map[string]decimal.Decimal)},
	}

	for _, e := range store.All() {
		if e.OutOfScope {
			summary.Excluded++
			continue
		}

		switch {
		case e.Kind.IsLinear():
			realLen, err := scale.ToReal(geometry.PolylineLength(e.Geometry), cal)
			if err != nil {
				return nil, err
			}
			meters := decimal.NewFromFloat(realLen).Round(quantityPlaces)
			agg := lengths[e.Kind]
			agg.TotalMeters = agg.TotalMeters.Add(meters)
			agg.Entities++
			bucket := e.Attributes.GetString(entity.BucketKey(e.Kind))
			agg.ByBucket[bucket] = agg.ByBucket[bucket].Add(meters)

		case e.Kind == types.KindZone:
			realArea, err := scale.ToRealArea(geometry.PolygonArea(e.Geometry), cal)
			if err != nil {
				return nil, err
			}
			area := decimal.NewFromFloat(realArea).Round(quantityPlaces)
			summary.Zones = append(summary.Zones, ZoneArea{
				ID:           e.ID,
				Label:        e.Attributes.GetString(entity.BucketKey(e.Kind)),
				SquareMeters: area,
			})
			summary.TotalZoneArea = summary.TotalZoneArea.Add(area)

		case e.Kind == types.KindEquipmentPoint:
			bucket := e.Attributes.GetString(entity.BucketKey(e.Kind))
			summary.EquipmentCounts[bucket]++
		}
	}

	summary.Lengths = []RunLength{*lengths[types.KindSupplyLine], *lengths[types.KindContainmentRun]}
	return summary, nil
}

// PixelTakeoff computes the pixel-space summary. Always available; the
// uncalibrated path of the viewer uses it for relative measurements.
func PixelTakeoff(store *entity.Store) *PixelSummary {
	summary := &PixelSummary{
		LengthByKind:    make(map[types.EntityKind]float64),
		EquipmentCounts: make(map[string]int),
	}

	for _, e := range store.All() {
		if e.OutOfScope {
			summary.Excluded++
			continue
		}
		switch {
		case e.Kind.IsLinear():
			summary.LengthByKind[e.Kind] += geometry.PolylineLength(e.Geometry)
		case e.Kind == types.KindZone:
			summary.ZoneAreaTotal += geometry.PolygonArea(e.Geometry)
		case e.Kind == types.KindEquipmentPoint:
			summary.EquipmentCounts[e.Attributes.GetString(entity.BucketKey(e.Kind))]++
		}
	}
	return summary
}
