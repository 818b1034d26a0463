// Package entity - Kind-specific attribute schemas
package entity

import (
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// FieldSpec describes one attribute a kind accepts
type FieldSpec struct {
	// Required means the attribute must be present at construction
	Required bool

	// Numeric means the value must be a number, not a string
	Numeric bool
}

// schemas is the closed attribute schema per entity kind
var schemas = map[types.EntityKind]map[string]FieldSpec{
	types.KindEquipmentPoint: {
		"category": {Required: true},
		"rating":   {Numeric: true},
	},
	types.KindSupplyLine: {
		"service": {Required: true},
		"cores":   {Numeric: true},
	},
	types.KindContainmentRun: {
		"containment": {Required: true},
		"size":        {},
	},
	types.KindZone: {
		"label": {Required: true},
	},
}

// bucketKeys maps each kind to the attribute the quantity projector
// groups totals by
var bucketKeys = map[types.EntityKind]string{
	types.KindEquipmentPoint: "category",
	types.KindSupplyLine:     "service",
	types.KindContainmentRun: "containment",
	types.KindZone:           "label",
}

// BucketKey returns the grouping attribute for a kind
func BucketKey(kind types.EntityKind) string {
	return bucketKeys[kind]
}

// ValidateAttributes checks an attribute map against the kind's schema
func ValidateAttributes(kind types.EntityKind, attrs types.Attributes) error {
	schema, ok := schemas[kind]
	if !ok {
		return errors.Newf(errors.TypeInput, "unknown entity kind %q", kind)
	}
	for key, value := range attrs {
		spec, ok := schema[key]
		if !ok {
			return errors.Newf(errors.TypeInput, "attribute %q is not part of the %s schema", key, kind)
		}
		if spec.Numeric && !value.IsNumber {
			return errors.Newf(errors.TypeInput, "attribute %q on %s must be numeric", key, kind)
		}
		if !spec.Numeric && value.IsNumber {
			return errors.Newf(errors.TypeInput, "attribute %q on %s must be a string", key, kind)
		}
	}
	for key, spec := range schema {
		if !spec.Required {
			continue
		}
		if _, ok := attrs[key]; !ok {
			return errors.Newf(errors.TypeInput, "attribute %q is required for %s", key, kind)
		}
	}
	return nil
}

// ValidateGeometry checks geometry arity for the kind
func ValidateGeometry(kind types.EntityKind, geometry []types.Coordinate) error {
	if !kind.IsValid() {
		return errors.Newf(errors.TypeInput, "unknown entity kind %q", kind)
	}
	if min := kind.MinPoints(); len(geometry) < min {
		return errors.Newf(errors.TypeInvalidGeometry,
			"%s requires at least %d point(s), got %d", kind, min, len(geometry))
	}
	if kind == types.KindEquipmentPoint && len(geometry) > 1 {
		return errors.Newf(errors.TypeInvalidGeometry,
			"%s carries a single point, got %d", kind, len(geometry))
	}
	return nil
}
