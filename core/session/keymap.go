// Package session - Keyboard binding table
package session

import (
	"strings"

	"floorplan-markup/internal/errors"
)

// HistoryOp is a history operation a key combo maps to
type HistoryOp string

const (
	OpUndo HistoryOp = "undo"
	OpRedo HistoryOp = "redo"
)

// bindings is the pure combo -> operation table. The handler holds no
// control flow beyond this lookup.
var bindings = map[string]HistoryOp{
	"ctrl+z":       OpUndo,
	"ctrl+y":       OpRedo,
	"ctrl+shift+z": OpRedo,
}

// BindingFor resolves a key combo to a history operation
func BindingFor(combo string) (HistoryOp, bool) {
	op, ok := bindings[strings.ToLower(combo)]
	return op, ok
}

// HandleKey dispatches a key combo to exactly one history operation.
// Unbound combos are rejected as input errors; bound combos on empty
// stacks surface the usual NothingToUndo/NothingToRedo signals.
func (s *Session) HandleKey(combo string) error {
	op, ok := BindingFor(combo)
	if !ok {
		return errors.Newf(errors.TypeInput, "no binding for key combo %q", combo)
	}
	switch op {
	case OpUndo:
		return s.Undo()
	default:
		return s.Redo()
	}
}
