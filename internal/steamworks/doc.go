// Package steamworks is farmer's view of the Steam client.
//
// # Overview
//
// Registering presence for an app takes two collaborators: the Steam client
// process itself, and a Steamworks runtime bridge, a small local helper that
// hosts the native Steam API library and exposes it over a unix socket.
// Client wraps both behind the Service interface the session package drives:
//
//   - IsAvailable: is the Steam client process alive?
//   - Initialize: handshake for one App ID
//   - PumpEvents: run pending Steam callbacks
//   - Teardown: release the Steam session
//
// # Availability Probe
//
// Steam records its pid in ~/.steam/steam.pid. IsAvailable reads that file
// and sends signal 0 to the pid. A missing or garbled file, a non-positive
// pid, or ESRCH all mean Steam is not running. EPERM means the process
// exists under another account and counts as running; Initialize will then
// be rejected with an actionable reason.
//
// # Bridge Protocol
//
// Each call opens a new connection, writes one CBOR request, half-closes the
// write side and reads one CBOR response:
//
//	request:  {action: "hello"|"init"|"run_callbacks"|"shutdown", protocol: 1, app_id?: uint}
//	response: {ok: bool, error?: string, data?: <action-specific>}
//
// hello returns {api_version, runtime}; run_callbacks returns {dispatched}.
// Encoding is CBOR Core Deterministic; unknown fields are ignored on decode.
//
// # Error Classes
//
// Initialize returns one of three classes:
//
//   - ErrRuntimeMissing: the socket is absent or nobody is listening, or
//     the bridge dropped the connection during init
//   - ErrRuntimeIncompatible: hello failed, was undecodable, or reported an
//     api_version below MinAPIVersion (a *VersionError is in the chain)
//   - *RejectedError: init answered ok=false; Reason carries the bridge's
//     explanation
//
// Other calls return *BridgeError for ok=false replies and wrapped transport
// errors otherwise.
//
// # Timeouts
//
// Calls carry no timeouts of their own. The caller's context deadline, if
// any, is applied to the connection; otherwise a call waits as long as the
// bridge takes.
//
// # Testing
//
// Package steamworkstest runs a fake bridge on a temporary socket with
// per-action handlers and call counters.
package steamworks
