// Package api - Open session registry
package api

import (
	"sync"

	"github.com/google/uuid"

	"floorplan-markup/core/session"
	"floorplan-markup/core/types"
	"floorplan-markup/internal/errors"
)

// openDrawing pairs a session with its serialization lock. The engine is
// single-actor by contract; the lock imposes that contract on concurrent
// HTTP requests.
type openDrawing struct {
	mu   sync.Mutex
	sess *session.Session
}

// sessionRegistry tracks open drawing sessions by id
type sessionRegistry struct {
	mu       sync.RWMutex
	drawings map[string]*openDrawing
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{drawings: make(map[string]*openDrawing)}
}

// open creates a new session and returns its id
func (r *sessionRegistry) open(purpose types.DesignPurpose) (string, *session.Session, error) {
	sess, err := session.New(purpose)
	if err != nil {
		return "", nil, err
	}
	id := uuid.NewString()

	r.mu.Lock()
	r.drawings[id] = &openDrawing{sess: sess}
	r.mu.Unlock()
	return id, sess, nil
}

// adopt registers an existing session under the given id
func (r *sessionRegistry) adopt(id string, sess *session.Session) {
	r.mu.Lock()
	r.drawings[id] = &openDrawing{sess: sess}
	r.mu.Unlock()
}

// with runs fn with the drawing's lock held, one actor at a time
func (r *sessionRegistry) with(id string, fn func(*session.Session) error) error {
	r.mu.RLock()
	d, ok := r.drawings[id]
	r.mu.RUnlock()
	if !ok {
		return errors.NotFound("drawing", id)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d.sess)
}

// close drops an open session
func (r *sessionRegistry) close(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drawings[id]; !ok {
		return errors.NotFound("drawing", id)
	}
	delete(r.drawings, id)
	return nil
}

// ids lists open session ids
func (r *sessionRegistry) ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.drawings))
	for id := range r.drawings {
		out = append(out, id)
	}
	return out
}
