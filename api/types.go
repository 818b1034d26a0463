// Package api - Request/response payloads
package api

import (
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// CreateDrawingRequest opens a new drawing session
type CreateDrawingRequest struct {
	Purpose string `json:"purpose"`
}

// DrawingResponse describes one open drawing session
type DrawingResponse struct {
	ID          string                  `json:"id"`
	Purpose     types.DesignPurpose     `json:"purpose"`
	Entities    int                     `json:"entities"`
	Calibration *types.ScaleCalibration `json:"calibration"`
	CanUndo     bool                    `json:"can_undo"`
	CanRedo     bool                    `json:"can_redo"`
}

// AddEntityRequest places a new entity
type AddEntityRequest struct {
	Kind       string                 `json:"kind"`
	Geometry   []types.Coordinate     `json:"geometry"`
	Attributes map[string]interface{} `json:"attributes"`
}

// PatchEntityRequest partially updates an entity. Absent fields are left
// unchanged; an empty geometry list is treated as absent.
type PatchEntityRequest struct {
	Geometry   []types.Coordinate     `json:"geometry"`
	Attributes map[string]interface{} `json:"attributes"`
}

// CalibrateRequest sets the drawing scale from a two-point measurement
type CalibrateRequest struct {
	PointA       types.Coordinate `json:"point_a"`
	PointB       types.Coordinate `json:"point_b"`
	RealDistance float64          `json:"real_distance"`
}

// SetPurposeRequest switches the workflow mode
type SetPurposeRequest struct {
	Purpose string `json:"purpose"`
}

// KeyRequest dispatches a keyboard shortcut
type KeyRequest struct {
	Combo string `json:"combo"`
}

// HistoryResponse reports the outcome of an undo/redo style action
type HistoryResponse struct {
	Applied bool   `json:"applied"`
	Status  string `json:"status,omitempty"`
	CanUndo bool   `json:"can_undo"`
	CanRedo bool   `json:"can_redo"`
}

// SaveResponse reports a dispatched background save
type SaveResponse struct {
	Generation uint64 `json:"generation"`
}

// decodeAttributes converts a JSON attribute object into the typed map
func decodeAttributes(raw map[string]interface{}) (types.Attributes, error) {
	if raw == nil {
		return nil, nil
	}
	out := make(types.Attributes, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			out[key] = types.StringValue(v)
		case float64:
			out[key] = types.NumberValue(v)
		default:
			return nil, errors.Newf(errors.TypeInput,
				"attribute %q must be a string or number", key)
		}
	}
	return out, nil
}
