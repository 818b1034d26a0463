// Package history - Concrete store commands
package history

import (
	"fmt"

	"floorplan-markup/core/entity"
	"floorplan-markup/core/gate"
	"floorplan-markup/core/types"
)

// CalibrationHolder is the slice of session state the calibration command
// mutates. Calibration lives beside the store, not in it.
type CalibrationHolder interface {
	Calibration() *types.ScaleCalibration
	SetCalibration(*types.ScaleCalibration)
}

// AddEntity places a new entity. The first Apply runs full validation
// through the store and captures the created entity; a redo re-inserts the
// identical snapshot so the id survives undo/redo cycles.
type AddEntity struct {
	store *entity.Store

	kind       types.EntityKind
	geometry   []types.Coordinate
	attributes types.Attributes

	created *types.Entity
}

// NewAddEntity builds an add command
func NewAddEntity(store *entity.Store, kind types.EntityKind, geometry []types.Coordinate, attrs types.Attributes) *AddEntity {
	return &AddEntity{
		store:      store,
		kind:       kind,
		geometry:   append([]types.Coordinate(nil), geometry...),
		attributes: attrs.Clone(),
	}
}

// Apply implements Command
func (c *AddEntity) Apply() error {
	if c.created == nil {
		e, err := c.store.Add(c.kind, c.geometry, c.attributes)
		if err != nil {
			return err
		}
		c.created = &e
		return nil
	}
	return c.store.Insert(c.created.Clone())
}

// Invert implements Command
func (c *AddEntity) Invert() error {
	_, err := c.store.Remove(c.created.ID)
	return err
}

// Description implements Command
func (c *AddEntity) Description() string {
	return fmt.Sprintf("add %s", c.kind)
}

// CreatedID returns the id assigned on first apply
func (c *AddEntity) CreatedID() types.EntityID {
	if c.created == nil {
		return ""
	}
	return c.created.ID
}

// UpdateEntity patches an existing entity, capturing full before/after
// snapshots so the inversion restores every field, including attributes
// the patch never mentioned.
type UpdateEntity struct {
	store *entity.Store

	id    types.EntityID
	patch entity.Patch

	before *types.Entity
	after  *types.Entity
}

// NewUpdateEntity builds an update command
func NewUpdateEntity(store *entity.Store, id types.EntityID, patch entity.Patch) *UpdateEntity {
	return &UpdateEntity{store: store, id: id, patch: patch}
}

// Apply implements Command
func (c *UpdateEntity) Apply() error {
	if c.before == nil {
		before, after, err := c.store.Update(c.id, c.patch)
		if err != nil {
			return err
		}
		c.before, c.after = &before, &after
		return nil
	}
	return c.store.Replace(c.after.Clone())
}

// Invert implements Command
func (c *UpdateEntity) Invert() error {
	return c.store.Replace(c.before.Clone())
}

// Description implements Command
func (c *UpdateEntity) Description() string {
	return fmt.Sprintf("update entity %s", c.id)
}

// RemoveEntity deletes an entity, keeping the removed snapshot for the
// inversion to re-insert.
type RemoveEntity struct {
	store *entity.Store

	id      types.EntityID
	removed *types.Entity
}

// NewRemoveEntity builds a remove command
func NewRemoveEntity(store *entity.Store, id types.EntityID) *RemoveEntity {
	return &RemoveEntity{store: store, id: id}
}

// Apply implements Command
func (c *RemoveEntity) Apply() error {
	removed, err := c.store.Remove(c.id)
	if err != nil {
		return err
	}
	c.removed = &removed
	return nil
}

// Invert implements Command
func (c *RemoveEntity) Invert() error {
	return c.store.Insert(c.removed.Clone())
}

// Description implements Command
func (c *RemoveEntity) Description() string {
	return fmt.Sprintf("remove entity %s", c.id)
}

// SetCalibration replaces the drawing calibration wholesale. Stored pixel
// geometry is untouched; only derived real-world readouts change.
type SetCalibration struct {
	holder CalibrationHolder

	next *types.ScaleCalibration
	prev *types.ScaleCalibration
}

// NewSetCalibration builds a calibration-replacement command
func NewSetCalibration(holder CalibrationHolder, next types.ScaleCalibration) *SetCalibration {
	return &SetCalibration{holder: holder, next: &next}
}

// Apply implements Command
func (c *SetCalibration) Apply() error {
	c.prev = c.holder.Calibration()
	cal := *c.next
	c.holder.SetCalibration(&cal)
	return nil
}

// Invert implements Command
func (c *SetCalibration) Invert() error {
	c.holder.SetCalibration(c.prev)
	return nil
}

// Description implements Command
func (c *SetCalibration) Description() string {
	return "set scale calibration"
}

// SetPurpose switches the design purpose and reconciles out-of-scope
// flags against the gate table. Entities are never deleted on a mode
// switch; the flag deltas are captured so the inversion restores both the
// previous purpose and the previous flags.
type SetPurpose struct {
	store *entity.Store

	next types.DesignPurpose
	prev types.DesignPurpose

	// flagged holds ids whose OutOfScope flag this command flipped,
	// with the value it flipped them to
	flagged map[types.EntityID]bool
}

// NewSetPurpose builds a purpose-switch command
func NewSetPurpose(store *entity.Store, next types.DesignPurpose) *SetPurpose {
	return &SetPurpose{store: store, next: next}
}

// Apply implements Command
func (c *SetPurpose) Apply() error {
	c.prev = c.store.Purpose()
	c.flagged = make(map[types.EntityID]bool)

	for _, e := range c.store.All() {
		want := !gate.IsAllowed(e.Kind, c.next)
		if e.OutOfScope != want {
			c.flagged[e.ID] = want
			if err := c.store.SetOutOfScope(e.ID, want); err != nil {
				return err
			}
		}
	}
	c.store.SetPurpose(c.next)
	return nil
}

// Invert implements Command
func (c *SetPurpose) Invert() error {
	for id, flipped := range c.flagged {
		if err := c.store.SetOutOfScope(id, !flipped); err != nil {
			return err
		}
	}
	c.store.SetPurpose(c.prev)
	return nil
}

// Description implements Command
func (c *SetPurpose) Description() string {
	return fmt.Sprintf("switch design purpose to %s", c.next)
}
