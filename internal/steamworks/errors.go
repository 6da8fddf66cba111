package steamworks

import (
	"errors"
	"fmt"

	"github.com/five82/farmer/internal/appid"
)

var (
	// ErrRuntimeMissing indicates the runtime bridge could not be reached:
	// no socket, nobody listening, or the connection dropped mid-call.
	ErrRuntimeMissing = errors.New("steamworks runtime not found")

	// ErrRuntimeIncompatible indicates the bridge answered but speaks an
	// older or unknown API.
	ErrRuntimeIncompatible = errors.New("steamworks runtime is incompatible")
)

// BridgeError is returned when the bridge replies ok=false.
type BridgeError struct {
	Action  string
	Message string
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("bridge error on %q: %s", e.Action, e.Message)
}

// VersionError reports a bridge API version below MinAPIVersion.
type VersionError struct {
	Have    int
	Want    int
	Runtime string
}

func (e *VersionError) Error() string {
	if e.Runtime != "" {
		return fmt.Sprintf("bridge api version %d (%s), need %d or newer", e.Have, e.Runtime, e.Want)
	}
	return fmt.Sprintf("bridge api version %d, need %d or newer", e.Have, e.Want)
}

// RejectedError is returned by Initialize when the Steam client refused
// the session: the account does not own the app, the ID is wrong, or Steam
// runs as a different user.
type RejectedError struct {
	AppID  appid.ID
	Reason string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("steam rejected app %s", e.AppID)
	}
	return fmt.Sprintf("steam rejected app %s: %s", e.AppID, e.Reason)
}
