package session

import (
	"errors"
	"fmt"

	"github.com/five82/farmer/internal/appid"
	"github.com/five82/farmer/internal/steamworks"
)

var (
	// ErrServiceUnavailable indicates the Steam client is not running.
	ErrServiceUnavailable = errors.New("steam is not running")

	// ErrAlreadyStarted is returned by Start on a session that has left
	// Unstarted. Sessions are never restarted.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrStopped is returned by Start when Stop won the race against an
	// in-flight handshake.
	ErrStopped = errors.New("session stopped during initialization")
)

// InitError is the handshake failure returned by Start. Its only
// implementations are *MissingRuntimeError, *IncompatibleRuntimeError and
// *HandshakeRejectedError, so a type switch over them is exhaustive.
type InitError interface {
	error
	initError()
}

// MissingRuntimeError means the Steamworks runtime could not be reached.
type MissingRuntimeError struct {
	AppID appid.ID
	Err   error
}

func (e *MissingRuntimeError) Error() string {
	return fmt.Sprintf("steamworks runtime missing for app %s: %v", e.AppID, e.Err)
}

func (e *MissingRuntimeError) Unwrap() error { return e.Err }
func (*MissingRuntimeError) initError()      {}

// IncompatibleRuntimeError means the runtime answered but is too old or
// speaks an unknown API.
type IncompatibleRuntimeError struct {
	AppID appid.ID
	Err   error
}

func (e *IncompatibleRuntimeError) Error() string {
	return fmt.Sprintf("steamworks runtime incompatible for app %s: %v", e.AppID, e.Err)
}

func (e *IncompatibleRuntimeError) Unwrap() error { return e.Err }
func (*IncompatibleRuntimeError) initError()      {}

// HandshakeRejectedError means Steam completed the handshake but refused
// the session.
type HandshakeRejectedError struct {
	AppID  appid.ID
	Reason string
	Err    error
}

func (e *HandshakeRejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("steam rejected app %s", e.AppID)
	}
	return fmt.Sprintf("steam rejected app %s: %s", e.AppID, e.Reason)
}

func (e *HandshakeRejectedError) Unwrap() error { return e.Err }
func (*HandshakeRejectedError) initError()      {}

// classifyInit maps a handshake error onto its InitError. Anything that is
// neither a rejection nor an incompatibility counts as a missing runtime.
func classifyInit(id appid.ID, err error) InitError {
	var rejected *steamworks.RejectedError
	switch {
	case errors.As(err, &rejected):
		return &HandshakeRejectedError{AppID: id, Reason: rejected.Reason, Err: err}
	case errors.Is(err, steamworks.ErrRuntimeIncompatible):
		return &IncompatibleRuntimeError{AppID: id, Err: err}
	default:
		return &MissingRuntimeError{AppID: id, Err: err}
	}
}

// LoopFault is an unexpected failure inside the poll loop: a pump error or
// a recovered panic. It ends the session but never leaves it.
type LoopFault struct {
	Polls int
	Panic bool
	Err   error
}

func (e *LoopFault) Error() string {
	if e.Panic {
		return fmt.Sprintf("poll loop panicked after %d polls: %v", e.Polls, e.Err)
	}
	return fmt.Sprintf("poll loop failed after %d polls: %v", e.Polls, e.Err)
}

func (e *LoopFault) Unwrap() error { return e.Err }
