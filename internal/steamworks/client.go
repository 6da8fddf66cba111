package steamworks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/five82/farmer/internal/appid"
)

// Service is the Steam-facing surface the session drives. *Client
// implements it; tests substitute fakes.
type Service interface {
	IsAvailable(ctx context.Context) bool
	Initialize(ctx context.Context, id appid.ID) error
	PumpEvents(ctx context.Context) (int, error)
	Teardown(ctx context.Context) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client probes the Steam client process and talks to the local Steamworks
// runtime bridge.
type Client struct {
	socketPath string
	pidFile    string
}

// maxResponseSize bounds a single bridge reply.
const maxResponseSize = 64 * 1024

// NewClient builds a Client for the bridge at socketPath, probing Steam
// through pidFile.
func NewClient(socketPath, pidFile string) (*Client, error) {
	socketPath = strings.TrimSpace(socketPath)
	if socketPath == "" {
		return nil, fmt.Errorf("runtime socket path is empty")
	}
	pidFile = strings.TrimSpace(pidFile)
	if pidFile == "" {
		return nil, fmt.Errorf("steam pid file path is empty")
	}
	return &Client{socketPath: socketPath, pidFile: pidFile}, nil
}

// IsAvailable reports whether the Steam client process is alive.
func (c *Client) IsAvailable(_ context.Context) bool {
	if c == nil {
		return false
	}
	return processAlive(c.pidFile)
}

// Initialize performs the handshake: hello to check the bridge API, then
// init for id.
func (c *Client) Initialize(ctx context.Context, id appid.ID) error {
	if c == nil {
		return fmt.Errorf("%w: client is nil", ErrRuntimeMissing)
	}

	var hello HelloInfo
	if err := c.call(ctx, Request{Action: ActionHello}, &hello); err != nil {
		if errors.Is(err, ErrRuntimeMissing) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrRuntimeIncompatible, err)
	}
	if hello.APIVersion < MinAPIVersion {
		return fmt.Errorf("%w: %w", ErrRuntimeIncompatible, &VersionError{
			Have:    hello.APIVersion,
			Want:    MinAPIVersion,
			Runtime: hello.Runtime,
		})
	}

	err := c.call(ctx, Request{Action: ActionInit, AppID: uint32(id)}, nil)
	var bridgeErr *BridgeError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &bridgeErr):
		return &RejectedError{AppID: id, Reason: bridgeErr.Message}
	case errors.Is(err, ErrRuntimeMissing):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrRuntimeMissing, err)
	}
}

// PumpEvents asks the bridge to run pending Steam callbacks and returns how
// many were dispatched.
func (c *Client) PumpEvents(ctx context.Context) (int, error) {
	if c == nil {
		return 0, fmt.Errorf("client is nil")
	}
	var batch CallbackBatch
	if err := c.call(ctx, Request{Action: ActionRunCallbacks}, &batch); err != nil {
		return 0, err
	}
	return batch.Dispatched, nil
}

// Teardown ends the Steam session on the bridge.
func (c *Client) Teardown(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.call(ctx, Request{Action: ActionShutdown}, nil)
}

// call sends one request on a fresh connection and decodes the reply's data
// into dest when dest is non-nil.
func (c *Client) call(ctx context.Context, req Request, dest any) error {
	req.Protocol = ProtocolVersion

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %w", ErrRuntimeMissing, c.socketPath, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("%s: write request: %w", req.Action, err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		_ = unixConn.CloseWrite()
	}

	var resp Response
	if err := NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&resp); err != nil {
		return fmt.Errorf("%s: read response: %w", req.Action, err)
	}
	if !resp.OK {
		return &BridgeError{Action: req.Action, Message: resp.Error}
	}
	if dest == nil || len(resp.Data) == 0 {
		return nil
	}
	if err := Unmarshal(resp.Data, dest); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.Action, err)
	}
	return nil
}
