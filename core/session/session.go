// Package session owns one drawing editing session: the entity store, the
// history engine, the active calibration and design purpose.
//
// All mutations are routed through invertible commands on a single owned
// history engine. The interaction model is single-actor: one user action
// is processed to completion before the next is accepted, so the in-memory
// state needs no locking. Only the save/sync status is touched from
// background tasks and carries its own lock.
package session

import (
	"go.uber.org/zap"

	"floorplan-markup/core/entity"
	"floorplan-markup/core/gate"
	"floorplan-markup/core/history"
	"floorplan-markup/core/quantity"
	"floorplan-markup/core/scale"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
	"floorplan-markup/internal/logging"
)

// Session is one drawing editing session
type Session struct {
	store  *entity.Store
	engine *history.Engine
	cal    *types.ScaleCalibration
	log    *zap.Logger

	sync syncState
}

// New creates a session for a fresh drawing under the given purpose
func New(purpose types.DesignPurpose) (*Session, error) {
	if !purpose.IsValid() {
		return nil, errors.Newf(errors.TypeInput, "unknown design purpose %q", purpose)
	}
	return &Session{
		store:  entity.NewStore(purpose),
		engine: history.NewEngine(),
		log:    logging.Logger,
	}, nil
}

// Purpose returns the active design purpose
func (s *Session) Purpose() types.DesignPurpose {
	return s.store.Purpose()
}

// Calibration returns the active calibration, nil when uncalibrated.
// Together with SetCalibration it is the calibration command's target;
// user-facing calibration goes through Calibrate.
func (s *Session) Calibration() *types.ScaleCalibration {
	if s.cal == nil {
		return nil
	}
	cal := *s.cal
	return &cal
}

// SetCalibration replaces the calibration directly, bypassing history.
// Only command application and document restore may call it.
func (s *Session) SetCalibration(cal *types.ScaleCalibration) {
	s.cal = cal
}

// Calibrate derives a calibration from a two-point pixel measurement and
// records the replacement as an undoable command. Already-placed pixel
// geometry is never rescaled; only derived readouts change.
func (s *Session) Calibrate(pointA, pointB types.Coordinate, realDistance float64) error {
	cal, err := scale.Calibrate(pointA, pointB, realDistance)
	if err != nil {
		return err
	}
	if err := s.engine.Execute(history.NewSetCalibration(s, cal)); err != nil {
		return err
	}
	s.log.Info("drawing calibrated",
		zap.Float64("pixel_length", cal.ReferencePixelLength),
		zap.Float64("real_length", cal.ReferenceRealLength),
		zap.Float64("meters_per_pixel", cal.MetersPerPixel()))
	return nil
}

// AddEntity validates and places a new entity through the history engine
func (s *Session) AddEntity(kind types.EntityKind, geometry []types.Coordinate, attrs types.Attributes) (types.Entity, error) {
	cmd := history.NewAddEntity(s.store, kind, geometry, attrs)
	if err := s.engine.Execute(cmd); err != nil {
		return types.Entity{}, err
	}
	placed, err := s.store.Get(cmd.CreatedID())
	if err != nil {
		return types.Entity{}, err
	}
	s.log.Debug("entity placed", zap.String("id", placed.ID.String()), zap.String("kind", kind.String()))
	return placed, nil
}

// UpdateEntity patches an existing entity through the history engine
func (s *Session) UpdateEntity(id types.EntityID, patch entity.Patch) (types.Entity, error) {
	if err := s.engine.Execute(history.NewUpdateEntity(s.store, id, patch)); err != nil {
		return types.Entity{}, err
	}
	return s.store.Get(id)
}

// RemoveEntity deletes an entity through the history engine
func (s *Session) RemoveEntity(id types.EntityID) error {
	return s.engine.Execute(history.NewRemoveEntity(s.store, id))
}

// SetPurpose switches the workflow mode. Entities of now-disallowed kinds
// are flagged out-of-scope, never deleted. Switching to the current
// purpose is a no-op that records nothing.
func (s *Session) SetPurpose(purpose types.DesignPurpose) error {
	if !purpose.IsValid() {
		return errors.Newf(errors.TypeInput, "unknown design purpose %q", purpose)
	}
	if purpose == s.store.Purpose() {
		return nil
	}
	if err := s.engine.Execute(history.NewSetPurpose(s.store, purpose)); err != nil {
		return err
	}
	s.log.Info("design purpose switched", zap.String("purpose", purpose.String()))
	return nil
}

// Undo reverses the most recent command
func (s *Session) Undo() error {
	return s.engine.Undo()
}

// Redo re-applies the most recently undone command
func (s *Session) Redo() error {
	return s.engine.Redo()
}

// CanUndo reports whether an undo is available
func (s *Session) CanUndo() bool {
	return s.engine.CanUndo()
}

// CanRedo reports whether a redo is available
func (s *Session) CanRedo() bool {
	return s.engine.CanRedo()
}

// Entity returns a copy of one entity
func (s *Session) Entity(id types.EntityID) (types.Entity, error) {
	return s.store.Get(id)
}

// Entities returns copies of every entity in placement order
func (s *Session) Entities() []types.Entity {
	return s.store.All()
}

// EntitiesOfKind returns copies of every entity of one kind
func (s *Session) EntitiesOfKind(kind types.EntityKind) []types.Entity {
	return s.store.Filter(kind)
}

// Takeoff projects the real-world quantity summary
func (s *Session) Takeoff() (*quantity.Summary, error) {
	return quantity.Takeoff(s.store, s.cal)
}

// PixelTakeoff projects the calibration-free pixel summary
func (s *Session) PixelTakeoff() *quantity.PixelSummary {
	return quantity.PixelTakeoff(s.store)
}

// Snapshot exports the session as a persistable document
func (s *Session) Snapshot() types.Document {
	return types.Document{
		Entities:      s.store.Snapshot(),
		Calibration:   s.Calibration(),
		DesignPurpose: s.store.Purpose(),
	}
}

// Restore replaces the whole session state from a document. History never
// spans a load: both stacks are cleared. Out-of-scope flags are
// reconciled against the gate table so a stale document cannot smuggle
// inconsistent flags in.
func (s *Session) Restore(doc types.Document) error {
	if !doc.DesignPurpose.IsValid() {
		return errors.Newf(errors.TypeInput, "document carries unknown design purpose %q", doc.DesignPurpose)
	}
	if doc.Calibration != nil &&
		(doc.Calibration.ReferencePixelLength <= 0 || doc.Calibration.ReferenceRealLength <= 0) {
		return errors.InvalidCalibration("document carries non-positive calibration lengths")
	}
	for _, e := range doc.Entities {
		if err := entity.ValidateGeometry(e.Kind, e.Geometry); err != nil {
			return err
		}
	}

	doc = doc.Clone()
	s.store = entity.NewStore(doc.DesignPurpose)
	s.store.Restore(doc.Entities)
	for _, e := range s.store.All() {
		want := !gate.IsAllowed(e.Kind, doc.DesignPurpose)
		if e.OutOfScope != want {
			if err := s.store.SetOutOfScope(e.ID, want); err != nil {
				return err
			}
		}
	}
	s.SetCalibration(doc.Calibration)
	s.engine.Clear()
	s.log.Info("drawing restored", zap.Int("entities", len(doc.Entities)))
	return nil
}
