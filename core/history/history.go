// Package history records every mutation as an invertible command and
// drives undo/redo over two ordered stacks.
//
// The engine is the only holder of edit history; the entity store knows
// nothing about it. A new command always clears the redo stack - there is
// no multi-branch history.
package history

import (
	"floorplan-markup/internal/errors"
)

// Command is one atomic, reversible mutation. Implementations capture
// before/after snapshots sufficient to fully reverse themselves and never
// hold references into live store entities.
type Command interface {
	// Apply performs the mutation. It must be all-or-nothing: on error
	// the target state is unchanged.
	Apply() error

	// Invert reverses a previously applied mutation exactly
	Invert() error

	// Description names the mutation for UI history lists
	Description() string
}

// Engine is the undo/redo state machine. No hidden state lives elsewhere.
type Engine struct {
	undoStack []Command
	redoStack []Command
}

// NewEngine creates an empty history engine
func NewEngine() *Engine {
	return &Engine{}
}

// Execute applies a command and records it. Performing a new command
// invalidates the redo branch.
func (e *Engine) Execute(cmd Command) error {
	if err := cmd.Apply(); err != nil {
		return err
	}
	e.undoStack = append(e.undoStack, cmd)
	e.redoStack = e.redoStack[:0]
	return nil
}

// Undo reverses the most recent command. An empty undo stack reports
// NothingToUndo and changes nothing.
func (e *Engine) Undo() error {
	if len(e.undoStack) == 0 {
		return errors.NothingToUndo()
	}
	top := e.undoStack[len(e.undoStack)-1]
	if err := top.Invert(); err != nil {
		return errors.Internal("undo failed to invert command", err)
	}
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	e.redoStack = append(e.redoStack, top)
	return nil
}

// Redo re-applies the most recently undone command. An empty redo stack
// reports NothingToRedo and changes nothing.
func (e *Engine) Redo() error {
	if len(e.redoStack) == 0 {
		return errors.NothingToRedo()
	}
	top := e.redoStack[len(e.redoStack)-1]
	if err := top.Apply(); err != nil {
		return errors.Internal("redo failed to re-apply command", err)
	}
	e.redoStack = e.redoStack[:len(e.redoStack)-1]
	e.undoStack = append(e.undoStack, top)
	return nil
}

// CanUndo reports whether the undo stack is non-empty
func (e *Engine) CanUndo() bool {
	return len(e.undoStack) > 0
}

// CanRedo reports whether the redo stack is non-empty
func (e *Engine) CanRedo() bool {
	return len(e.redoStack) > 0
}

// UndoDepth returns the undo stack depth
func (e *Engine) UndoDepth() int {
	return len(e.undoStack)
}

// RedoDepth returns the redo stack depth
func (e *Engine) RedoDepth() int {
	return len(e.redoStack)
}

// PeekUndo returns the description of the next command to undo
func (e *Engine) PeekUndo() (string, bool) {
	if len(e.undoStack) == 0 {
		return "", false
	}
	return e.undoStack[len(e.undoStack)-1].Description(), true
}

// PeekRedo returns the description of the next command to redo
func (e *Engine) PeekRedo() (string, bool) {
	if len(e.redoStack) == 0 {
		return "", false
	}
	return e.redoStack[len(e.redoStack)-1].Description(), true
}

// Clear drops both stacks. Used when a drawing is restored wholesale;
// history never spans a document load.
func (e *Engine) Clear() {
	e.undoStack = e.undoStack[:0]
	e.redoStack = e.redoStack[:0]
}
