package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/farmer/internal/appid"
)

// SessionState is the lifecycle position of a session. States only move
// forward.
type SessionState int

const (
	Unstarted SessionState = iota
	Initializing
	Running
	ShuttingDown
	Stopped
)

func (s SessionState) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting down"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Snapshot represents the latest session data available to the UI.
type Snapshot struct {
	SessionID  string
	AppID      appid.ID
	State      SessionState
	StartedAt  time.Time
	LastPoll   time.Time
	Polls      int
	Dispatched int
	LastError  error
}

// Uptime is the time spent since the session reached Running, or zero.
func (s Snapshot) Uptime(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	return now.Sub(s.StartedAt)
}

// Store coordinates concurrent updates to the snapshot. A nil *Store
// ignores updates, so a session can run without one.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Begin resets the snapshot for a new session.
func (s *Store) Begin(sessionID string, id appid.ID) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{SessionID: sessionID, AppID: id}
}

// SetState records a state change. Entering Running stamps StartedAt.
func (s *Store) SetState(st SessionState) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.State = st
	if st == Running && s.snapshot.StartedAt.IsZero() {
		s.snapshot.StartedAt = time.Now()
	}
}

// RecordPoll counts one completed poll and the callbacks it dispatched.
func (s *Store) RecordPoll(dispatched int) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Polls++
	s.snapshot.Dispatched += dispatched
	s.snapshot.LastPoll = time.Now()
}

// RecordError keeps err for display; the rest of the snapshot is untouched.
func (s *Store) RecordError(err error) {
	if s == nil || err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.LastError = err
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
