// Package types - Entity model
package types

import "time"

// EntityID uniquely identifies a placed entity within a drawing
type EntityID string

// String returns the string representation
func (id EntityID) String() string {
	return string(id)
}

// AttributeValue is a string-or-number attribute value.
// Exactly one of the two fields is meaningful, selected by IsNumber.
type AttributeValue struct {
	Str      string  `json:"str,omitempty"`
	Num      float64 `json:"num,omitempty"`
	IsNumber bool    `json:"is_number,omitempty"`
}

// StringValue builds a string attribute value
func StringValue(s string) AttributeValue {
	return AttributeValue{Str: s}
}

// NumberValue builds a numeric attribute value
func NumberValue(n float64) AttributeValue {
	return AttributeValue{Num: n, IsNumber: true}
}

// Equal compares two attribute values exactly
func (v AttributeValue) Equal(o AttributeValue) bool {
	if v.IsNumber != o.IsNumber {
		return false
	}
	if v.IsNumber {
		return v.Num == o.Num
	}
	return v.Str == o.Str
}

// Attributes is a map of attribute names to values
type Attributes map[string]AttributeValue

// Clone returns a deep copy of the attribute map
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// GetString retrieves a string attribute value
func (a Attributes) GetString(key string) string {
	if v, ok := a[key]; ok && !v.IsNumber {
		return v.Str
	}
	return ""
}

// Entity is a placed, typed annotation on a drawing. Geometry is always
// stored in pixel space; real-world units are a projection through the
// active calibration and never written back.
type Entity struct {
	// ID uniquely identifies the entity
	ID EntityID `json:"id"`

	// Kind is the entity variant
	Kind EntityKind `json:"kind"`

	// Geometry is one point for equipment, an ordered polyline for runs,
	// or a polygon ring for zones
	Geometry []Coordinate `json:"geometry"`

	// Attributes carries the kind-specific attribute values
	Attributes Attributes `json:"attributes,omitempty"`

	// OutOfScope marks an entity disallowed by the current design purpose.
	// Out-of-scope entities stay visible and editable-by-undo but are
	// excluded from quantity projection.
	OutOfScope bool `json:"out_of_scope,omitempty"`

	// CreatedAt is when the entity was placed
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the entity
func (e Entity) Clone() Entity {
	out := e
	out.Geometry = append([]Coordinate(nil), e.Geometry...)
	out.Attributes = e.Attributes.Clone()
	return out
}

// Equal compares two entities field by field, geometry exactly
func (e Entity) Equal(o Entity) bool {
	if e.ID != o.ID || e.Kind != o.Kind || e.OutOfScope != o.OutOfScope || !e.CreatedAt.Equal(o.CreatedAt) {
		return false
	}
	if len(e.Geometry) != len(o.Geometry) {
		return false
	}
	for i := range e.Geometry {
		if e.Geometry[i] != o.Geometry[i] {
			return false
		}
	}
	if len(e.Attributes) != len(o.Attributes) {
		return false
	}
	for k, v := range e.Attributes {
		ov, ok := o.Attributes[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
