// Package session drives one Steam session from handshake to teardown.
//
// # Lifecycle
//
//	Unstarted → Initializing → Running → ShuttingDown → Stopped
//
// Start moves to Initializing, runs the handshake once, and either reaches
// Running and returns a *Handle, or returns an InitError with the session
// already Stopped. Handle.PollLoop runs on the worker goroutine until the
// context is done, Steam exits, or a poll faults; it always calls Stop on
// the way out. Stop is idempotent and tears the Steam session down at most
// once. Teardown failures, including panics, are logged and dropped.
//
// # Errors
//
// InitError is sealed. Callers distinguish its three variants with a type
// switch:
//
//	switch err := err.(type) {
//	case *session.MissingRuntimeError:
//	case *session.IncompatibleRuntimeError:
//	case *session.HandshakeRejectedError:
//	}
//
// Failures inside the poll loop become a *LoopFault. It is logged and
// recorded in the state.Store, and never returned to the caller: the loop
// reports Fault as its StopReason instead.
//
// # Cancellation
//
// The context is the only stop signal the worker observes. Cancelling it
// interrupts the wait between polls but not a call already in flight to the
// Steam runtime; those run to completion on a context without cancellation.
package session
