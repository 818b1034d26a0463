// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// Coordinate is a point in image-pixel space.
// It is a value type, compared only within floating tolerance.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EntityKind represents the kind of a placed annotation
type EntityKind string

const (
	// KindEquipmentPoint is a single placed device or fitting
	KindEquipmentPoint EntityKind = "equipment_point"

	// KindSupplyLine is an ordered run of cable or circuit
	KindSupplyLine EntityKind = "supply_line"

	// KindContainmentRun is an ordered run of tray, trunking or conduit
	KindContainmentRun EntityKind = "containment_run"

	// KindZone is a closed polygon marking an area
	KindZone EntityKind = "zone"
)

// String returns the string representation of the kind
func (k EntityKind) String() string {
	return string(k)
}

// IsValid checks if the kind is a known entity kind
func (k EntityKind) IsValid() bool {
	switch k {
	case KindEquipmentPoint, KindSupplyLine, KindContainmentRun, KindZone:
		return true
	default:
		return false
	}
}

// IsLinear reports whether the kind carries an ordered run of segments
func (k EntityKind) IsLinear() bool {
	return k == KindSupplyLine || k == KindContainmentRun
}

// MinPoints returns the minimum geometry arity for the kind
func (k EntityKind) MinPoints() int {
	switch k {
	case KindSupplyLine, KindContainmentRun:
		return 2
	case KindZone:
		return 3
	default:
		return 1
	}
}

// AllKinds lists every entity kind in a stable order
func AllKinds() []EntityKind {
	return []EntityKind{KindEquipmentPoint, KindSupplyLine, KindContainmentRun, KindZone}
}

// DesignPurpose is the workflow mode a drawing session operates in
type DesignPurpose string

const (
	PurposeBudgetMarkup        DesignPurpose = "budget_markup"
	PurposeLineShopMeasurement DesignPurpose = "line_shop_measurements"
	PurposePVDesign            DesignPurpose = "pv_design"
	PurposePrelimMarkup        DesignPurpose = "prelim_markup"
	PurposeCableSchedule       DesignPurpose = "cable_schedule_markup"
	PurposeFinalAccount        DesignPurpose = "final_account_markup"
)

// String returns the string representation of the purpose
func (p DesignPurpose) String() string {
	return string(p)
}

// IsValid checks if the purpose is a known design purpose
func (p DesignPurpose) IsValid() bool {
	switch p {
	case PurposeBudgetMarkup, PurposeLineShopMeasurement, PurposePVDesign,
		PurposePrelimMarkup, PurposeCableSchedule, PurposeFinalAccount:
		return true
	default:
		return false
	}
}

// AllPurposes lists every design purpose in a stable order
func AllPurposes() []DesignPurpose {
	return []DesignPurpose{
		PurposeBudgetMarkup,
		PurposeLineShopMeasurement,
		PurposePVDesign,
		PurposePrelimMarkup,
		PurposeCableSchedule,
		PurposeFinalAccount,
	}
}

// ScaleCalibration maps pixel distance to real-world distance for one drawing.
// Both reference lengths are strictly positive; the meters-per-pixel factor is
// always derived, never stored, so the two cannot desync.
type ScaleCalibration struct {
	// ReferencePixelLength is the measured pixel distance between the two
	// calibration points
	ReferencePixelLength float64 `json:"reference_pixel_length"`

	// ReferenceRealLength is the user-entered real-world distance in meters
	ReferenceRealLength float64 `json:"reference_real_length"`
}

// MetersPerPixel returns the derived linear conversion factor
func (c ScaleCalibration) MetersPerPixel() float64 {
	return c.ReferenceRealLength / c.ReferencePixelLength
}
