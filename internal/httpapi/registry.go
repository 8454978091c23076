package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"frontdesk/internal/gantt"
	"frontdesk/pkg/session"
)

// boardSession is one open board tab of an operator.
type boardSession struct {
	ID     string
	UserID int64
	Board  *gantt.Board

	lastSeen time.Time

	// loadMu serialises board loads of the session. Requests arriving while
	// the first load runs wait for it instead of reading an empty board.
	loadMu sync.Mutex
	loaded bool
}

// firstLoad runs load unless the board has already been loaded.
func (s *boardSession) firstLoad(load func()) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if s.loaded {
		return
	}
	load()
	s.loaded = true
}

// reload always runs load and marks the board loaded.
func (s *boardSession) reload(load func()) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	load()
	s.loaded = true
}

// Registry keeps the live boards, one per session id. Sessions idle for longer
// than ttl are dropped on the next access.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*boardSession

	newBoard func(op *session.Operator) *gantt.Board
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistry(newBoard func(op *session.Operator) *gantt.Board, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Registry{
		sessions: make(map[string]*boardSession),
		newBoard: newBoard,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Acquire returns the operator's session id, opening a new one when id is
// empty, unknown, expired, or owned by someone else.
func (r *Registry) Acquire(op *session.Operator, id string) *boardSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	if s, ok := r.sessions[id]; ok && s.UserID == op.UserID {
		s.lastSeen = now
		return s
	}

	s := &boardSession{
		ID:       uuid.NewString(),
		UserID:   op.UserID,
		Board:    r.newBoard(op),
		lastSeen: now,
	}
	r.sessions[s.ID] = s
	return s
}

// Close drops a session. It reports false when the operator does not own it.
func (r *Registry) Close(op *session.Operator, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok || s.UserID != op.UserID {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked(now time.Time) {
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.ttl {
			delete(r.sessions, id)
		}
	}
}
