package app

import (
	"errors"
	"fmt"

	"github.com/five82/farmer/internal/session"
)

// Kind classifies a startup failure. Each kind maps to its own exit code.
type Kind int

const (
	InvalidIdentifier Kind = iota + 2
	ServiceUnavailable
	ConfigWrite
	MissingRuntime
	IncompatibleRuntime
	HandshakeRejected
)

func (k Kind) String() string {
	switch k {
	case InvalidIdentifier:
		return "invalid identifier"
	case ServiceUnavailable:
		return "service unavailable"
	case ConfigWrite:
		return "config write failure"
	case MissingRuntime:
		return "missing runtime"
	case IncompatibleRuntime:
		return "incompatible runtime"
	case HandshakeRejected:
		return "handshake rejected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Failure ends the process before or during session startup. Silent
// failures are logged but never shown to the operator.
type Failure struct {
	Kind   Kind
	Err    error
	Silent bool
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.Kind.String()
	}
	return f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// ExitCode is the process exit status for the failure.
func (f *Failure) ExitCode() int { return int(f.Kind) }

// Title is the heading of the operator report.
func (f *Failure) Title() string {
	switch f.Kind {
	case InvalidIdentifier:
		return "Invalid game ID"
	case ServiceUnavailable:
		return "Steam is not running"
	case ConfigWrite:
		return "Error creating configuration file"
	case MissingRuntime:
		return "Steamworks runtime not found"
	case IncompatibleRuntime:
		return "Invalid Steamworks runtime version"
	case HandshakeRejected:
		return "Steam API initialization error"
	default:
		return "Error"
	}
}

// Hints lists what the operator can do about the failure.
func (f *Failure) Hints() []string {
	switch f.Kind {
	case InvalidIdentifier:
		return []string{
			"Enter a numeric ID greater than 0.",
			"Unattended runs need id=<n>, -id=<n> or a saved steam_appid.txt.",
		}
	case ServiceUnavailable:
		return []string{"Start Steam and try again."}
	case ConfigWrite:
		return []string{"Check that the App ID file location is writable (setting appid_file)."}
	case MissingRuntime:
		return []string{
			"Make sure the Steamworks runtime bridge is running.",
			"Check that runtime_socket points at its socket.",
		}
	case IncompatibleRuntime:
		return []string{"Try updating the Steamworks runtime bridge or the Steam client."}
	case HandshakeRejected:
		return []string{
			"Steam is not running.",
			"You do not have this game in your library.",
			"The App ID is invalid.",
			"Steam is running under a different user.",
		}
	default:
		return nil
	}
}

func newFailure(kind Kind, err error, silent bool) *Failure {
	return &Failure{Kind: kind, Err: err, Silent: silent}
}

// initFailure maps a session.InitError to its Failure kind. Anything else
// that stopped the handshake counts as a missing runtime.
func initFailure(err error, silent bool) *Failure {
	var (
		incompatible *session.IncompatibleRuntimeError
		rejected     *session.HandshakeRejectedError
	)
	switch {
	case errors.As(err, &incompatible):
		return newFailure(IncompatibleRuntime, err, silent)
	case errors.As(err, &rejected):
		return newFailure(HandshakeRejected, err, silent)
	default:
		return newFailure(MissingRuntime, err, silent)
	}
}
