// Package types - Persisted document shape
package types

// Document is the structured shape a drawing is persisted and exchanged as.
// Calibration is nil for drawings that have never been calibrated.
type Document struct {
	// Entities is the full entity list in placement order
	Entities []Entity `json:"entities"`

	// Calibration is the active scale calibration, if any
	Calibration *ScaleCalibration `json:"calibration"`

	// DesignPurpose is the active workflow mode
	DesignPurpose DesignPurpose `json:"design_purpose"`
}

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	out := Document{DesignPurpose: d.DesignPurpose}
	if d.Calibration != nil {
		cal := *d.Calibration
		out.Calibration = &cal
	}
	out.Entities = make([]Entity, len(d.Entities))
	for i, e := range d.Entities {
		out.Entities[i] = e.Clone()
	}
	return out
}
