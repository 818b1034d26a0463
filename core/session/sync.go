// Package session - Background persistence and sync status
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// Repository is the persistence collaborator the session saves through.
// Retries live behind this interface, not in the session.
type Repository interface {
	Save(ctx context.Context, id string, doc types.Document) error
	Load(ctx context.Context, id string) (types.Document, error)
}

// SyncState names the persistence state of a session
type SyncState string

const (
	SyncIdle   SyncState = "idle"
	SyncSaving SyncState = "saving"
	SyncSaved  SyncState = "saved"
	SyncFailed SyncState = "failed"
)

// SyncStatus reports the outcome of the most recent save dispatch
type SyncStatus struct {
	State      SyncState `json:"state"`
	Generation uint64    `json:"generation"`
	Error      string    `json:"error,omitempty"`
	SavedAt    time.Time `json:"saved_at,omitempty"`
}

// syncState is the only session state touched from background tasks
type syncState struct {
	mu      sync.Mutex
	status  SyncStatus
	nextGen uint64
}

// SyncStatus returns the current persistence status
func (s *Session) SyncStatus() SyncStatus {
	s.sync.mu.Lock()
	defer s.sync.mu.Unlock()
	return s.sync.status
}

// SaveTo snapshots the session synchronously and dispatches the write in
// the background. A newer save supersedes an in-flight one: completions
// for stale generations are dropped (last-write-wins at the persistence
// boundary). Save failures never roll back local edits.
func (s *Session) SaveTo(ctx context.Context, repo Repository, id string) uint64 {
	doc := s.Snapshot()

	s.sync.mu.Lock()
	s.sync.nextGen++
	gen := s.sync.nextGen
	s.sync.status = SyncStatus{State: SyncSaving, Generation: gen}
	s.sync.mu.Unlock()

	go func() {
		err := repo.Save(ctx, id, doc)
		s.completeSave(gen, err)
	}()
	return gen
}

func (s *Session) completeSave(gen uint64, err error) {
	s.sync.mu.Lock()
	defer s.sync.mu.Unlock()

	// A newer save was dispatched while this one was in flight
	if gen != s.sync.nextGen {
		return
	}
	if err != nil {
		perr := errors.Persistence("drawing save failed", err)
		s.sync.status = SyncStatus{State: SyncFailed, Generation: gen, Error: perr.Error()}
		s.log.Warn("drawing save failed", zap.Uint64("generation", gen), zap.Error(err))
		return
	}
	s.sync.status = SyncStatus{State: SyncSaved, Generation: gen, SavedAt: time.Now()}
	s.log.Debug("drawing saved", zap.Uint64("generation", gen))
}

// LoadFrom restores the session from the repository
func (s *Session) LoadFrom(ctx context.Context, repo Repository, id string) error {
	doc, err := repo.Load(ctx, id)
	if err != nil {
		return err
	}
	return s.Restore(doc)
}
