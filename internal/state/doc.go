// Package state holds the session lifecycle enum and a thread-safe snapshot
// of the running session.
//
// # Overview
//
// The session worker is the only writer. It calls Begin when a session is
// created, SetState on every transition, RecordPoll after each successful
// event pump and RecordError when the poll loop faults. The background
// indicator in the ui package is the reader; it calls Snapshot once per
// refresh tick.
//
// # Lifecycle
//
//	Unstarted → Initializing → Running → ShuttingDown → Stopped
//
// SessionState values are ordered, so "later than" is a plain comparison.
// Stopped is terminal.
//
// # Thread Safety
//
// Store guards its snapshot with a sync.RWMutex. Snapshot returns a copy,
// cloning LastError so callers cannot hold the writer's error instance.
// A nil *Store accepts and ignores every update.
package state
