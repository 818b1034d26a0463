// Package entity owns the typed collections of placeable drawing entities.
//
// The store is mutation-agnostic: it validates and applies single
// operations but records no history. Every mutating call is wrapped in an
// invertible command by core/history, which keeps the store trivially
// testable in isolation. Entities are exclusively owned by the store;
// reads hand out deep copies, never aliases.
package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"floorplan-markup/core/gate"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// Patch describes a partial entity update. Nil fields are left unchanged.
type Patch struct {
	// Geometry replaces the entity geometry when non-nil
	Geometry []types.Coordinate `json:"geometry,omitempty"`

	// Attributes replaces the attribute map when non-nil
	Attributes types.Attributes `json:"attributes,omitempty"`
}

// Store holds every placed entity of one drawing
type Store struct {
	entities map[types.EntityID]*types.Entity
	purpose  types.DesignPurpose

	// now is swappable for tests
	now func() time.Time
}

// NewStore creates an empty store operating under the given design purpose
func NewStore(purpose types.DesignPurpose) *Store {
	return &Store{
		entities: make(map[types.EntityID]*types.Entity),
		purpose:  purpose,
		now:      time.Now,
	}
}

// Purpose returns the active design purpose
func (s *Store) Purpose() types.DesignPurpose {
	return s.purpose
}

// SetPurpose switches the active design purpose. It does not touch
// out-of-scope flags; the purpose-switch command owns that reconciliation.
func (s *Store) SetPurpose(purpose types.DesignPurpose) {
	s.purpose = purpose
}

// Add validates and places a new entity, returning a copy of it.
// The store is left unchanged on any validation failure.
func (s *Store) Add(kind types.EntityKind, geometry []types.Coordinate, attrs types.Attributes) (types.Entity, error) {
	if err := ValidateGeometry(kind, geometry); err != nil {
		return types.Entity{}, err
	}
	if err := ValidateAttributes(kind, attrs); err != nil {
		return types.Entity{}, err
	}
	if !gate.IsAllowed(kind, s.purpose) {
		return types.Entity{}, errors.DisallowedKind(kind.String(), s.purpose.String())
	}

	e := types.Entity{
		ID:         types.EntityID(uuid.NewString()),
		Kind:       kind,
		Geometry:   append([]types.Coordinate(nil), geometry...),
		Attributes: attrs.Clone(),
		CreatedAt:  s.now(),
	}
	s.entities[e.ID] = &e
	return e.Clone(), nil
}

// Insert places a fully-formed entity back into the store, preserving its
// id and timestamps. Used by command inversion; skips gate checks so an
// undo can restore an entity the current purpose would reject.
func (s *Store) Insert(e types.Entity) error {
	if _, exists := s.entities[e.ID]; exists {
		return errors.Newf(errors.TypeInternal, "entity %s already present", e.ID)
	}
	clone := e.Clone()
	s.entities[e.ID] = &clone
	return nil
}

// Replace swaps an existing entity for the given snapshot
func (s *Store) Replace(e types.Entity) error {
	if _, ok := s.entities[e.ID]; !ok {
		return errors.NotFound("entity", e.ID.String())
	}
	clone := e.Clone()
	s.entities[e.ID] = &clone
	return nil
}

// Update applies a patch to an entity, validating the resulting shape.
// Returns copies of the entity before and after the patch.
func (s *Store) Update(id types.EntityID, patch Patch) (before, after types.Entity, err error) {
	current, ok := s.entities[id]
	if !ok {
		return types.Entity{}, types.Entity{}, errors.NotFound("entity", id.String())
	}

	next := current.Clone()
	if patch.Geometry != nil {
		next.Geometry = append([]types.Coordinate(nil), patch.Geometry...)
	}
	if patch.Attributes != nil {
		next.Attributes = patch.Attributes.Clone()
	}

	if err := ValidateGeometry(next.Kind, next.Geometry); err != nil {
		return types.Entity{}, types.Entity{}, err
	}
	if err := ValidateAttributes(next.Kind, next.Attributes); err != nil {
		return types.Entity{}, types.Entity{}, err
	}

	before = current.Clone()
	s.entities[id] = &next
	return before, next.Clone(), nil
}

// Remove deletes an entity, returning a copy of what was removed
func (s *Store) Remove(id types.EntityID) (types.Entity, error) {
	current, ok := s.entities[id]
	if !ok {
		return types.Entity{}, errors.NotFound("entity", id.String())
	}
	removed := current.Clone()
	delete(s.entities, id)
	return removed, nil
}

// Get returns a copy of one entity
func (s *Store) Get(id types.EntityID) (types.Entity, error) {
	current, ok := s.entities[id]
	if !ok {
		return types.Entity{}, errors.NotFound("entity", id.String())
	}
	return current.Clone(), nil
}

// SetOutOfScope flags or unflags one entity
func (s *Store) SetOutOfScope(id types.EntityID, outOfScope bool) error {
	current, ok := s.entities[id]
	if !ok {
		return errors.NotFound("entity", id.String())
	}
	current.OutOfScope = outOfScope
	return nil
}

// Len returns the entity count
func (s *Store) Len() int {
	return len(s.entities)
}

// All returns copies of every entity ordered by placement time then id
func (s *Store) All() []types.Entity {
	out := make([]types.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Filter returns copies of every entity of one kind in placement order
func (s *Store) Filter(kind types.EntityKind) []types.Entity {
	all := s.All()
	out := all[:0]
	for _, e := range all {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot exports the store as a persisted document fragment
func (s *Store) Snapshot() []types.Entity {
	return s.All()
}

// Restore replaces the entire store contents from a document fragment
func (s *Store) Restore(entities []types.Entity) {
	s.entities = make(map[types.EntityID]*types.Entity, len(entities))
	for _, e := range entities {
		clone := e.Clone()
		s.entities[e.ID] = &clone
	}
}
