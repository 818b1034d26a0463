// Package markup imports declarative markup files into a drawing session.
//
// A markup file is HCL: an optional purpose, an optional calibration
// block, and entity blocks. The file is replayed as ordinary session
// commands, so an imported markup is fully undoable step by step.
package markup

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"floorplan-markup/core/session"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// markupFile is the top-level HCL shape
type markupFile struct {
	Purpose     string            `hcl:"purpose,optional"`
	Calibration *calibrationBlock `hcl:"calibration,block"`
	Entities    []entityBlock     `hcl:"entity,block"`
}

// calibrationBlock carries the two-point pixel measurement
type calibrationBlock struct {
	PointA       []float64 `hcl:"point_a"`
	PointB       []float64 `hcl:"point_b"`
	RealDistance float64   `hcl:"real_distance"`
}

// entityBlock is one placed entity; labels are kind and a display name
type entityBlock struct {
	Kind       string      `hcl:"kind,label"`
	Name       string      `hcl:"name,label"`
	Points     [][]float64 `hcl:"points"`
	Attributes cty.Value   `hcl:"attributes,optional"`
}

// Report summarizes what an import placed
type Report struct {
	Purpose    types.DesignPurpose `json:"purpose"`
	Calibrated bool                `json:"calibrated"`
	Entities   int                 `json:"entities"`
}

// ApplyFile parses a markup file from disk and replays it into the session
func ApplyFile(sess *session.Session, path string) (*Report, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeInput, "parse markup file", diags)
	}
	return apply(sess, file)
}

// Apply parses markup source from memory and replays it into the session
func Apply(sess *session.Session, filename string, src []byte) (*Report, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeInput, "parse markup source", diags)
	}
	return apply(sess, file)
}

func apply(sess *session.Session, file *hcl.File) (*Report, error) {
	var doc markupFile
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, errors.Wrap(errors.TypeInput, "decode markup file", diags)
	}

	if doc.Purpose != "" {
		if err := sess.SetPurpose(types.DesignPurpose(doc.Purpose)); err != nil {
			return nil, err
		}
	}

	report := &Report{Purpose: sess.Purpose()}

	if doc.Calibration != nil {
		pointA, err := coordinate(doc.Calibration.PointA)
		if err != nil {
			return nil, err
		}
		pointB, err := coordinate(doc.Calibration.PointB)
		if err != nil {
			return nil, err
		}
		if err := sess.Calibrate(pointA, pointB, doc.Calibration.RealDistance); err != nil {
			return nil, err
		}
		report.Calibrated = true
	}

	for _, block := range doc.Entities {
		geometry := make([]types.Coordinate, 0, len(block.Points))
		for _, pair := range block.Points {
			coord, err := coordinate(pair)
			if err != nil {
				return nil, err.WithContext("entity", block.Name)
			}
			geometry = append(geometry, coord)
		}

		attrs, err := attributes(block.Attributes)
		if err != nil {
			return nil, err.WithContext("entity", block.Name)
		}

		if _, err := sess.AddEntity(types.EntityKind(block.Kind), geometry, attrs); err != nil {
			if derr, ok := err.(*errors.Error); ok {
				return nil, derr.WithContext("entity", block.Name)
			}
			return nil, err
		}
		report.Entities++
	}
	return report, nil
}

// coordinate converts a two-element HCL tuple into a pixel coordinate
func coordinate(pair []float64) (types.Coordinate, *errors.Error) {
	if len(pair) != 2 {
		return types.Coordinate{}, errors.Newf(errors.TypeInput,
			"point must be a two-element [x, y] tuple, got %d element(s)", len(pair))
	}
	return types.Coordinate{X: pair[0], Y: pair[1]}, nil
}

// attributes converts an HCL object value into a typed attribute map
func attributes(value cty.Value) (types.Attributes, *errors.Error) {
	if value.IsNull() || !value.IsKnown() {
		return nil, nil
	}
	if !value.Type().IsObjectType() && !value.Type().IsMapType() {
		return nil, errors.Input("attributes must be an object of string or number values")
	}

	out := make(types.Attributes)
	for key, v := range value.AsValueMap() {
		switch v.Type() {
		case cty.String:
			out[key] = types.StringValue(v.AsString())
		case cty.Number:
			f, _ := v.AsBigFloat().Float64()
			out[key] = types.NumberValue(f)
		default:
			return nil, errors.Newf(errors.TypeInput,
				"attribute %q must be a string or number, got %s", key, v.Type().FriendlyName())
		}
	}
	return out, nil
}
