// Package steamworkstest provides an in-process Steamworks runtime bridge
// for tests. It speaks the same one-request-per-connection CBOR protocol as
// the real bridge and counts calls per action.
package steamworkstest

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/five82/farmer/internal/steamworks"
)

// Reply is what a Handler returns. Data is CBOR-encoded into the response.
type Reply struct {
	OK    bool
	Error string
	Data  any
}

// Handler answers one request.
type Handler func(req steamworks.Request) Reply

// Bridge is a fake runtime bridge listening on a unix socket.
type Bridge struct {
	SocketPath string

	listener net.Listener
	wg       sync.WaitGroup

	mu       sync.Mutex
	handlers map[string]Handler
	calls    map[string]int
	requests []steamworks.Request
}

// NewBridge starts a bridge that accepts every action with default replies.
// It is closed automatically when the test ends.
func NewBridge(t testing.TB) *Bridge {
	t.Helper()

	// Temp dirs under t.TempDir can exceed the unix socket path limit.
	dir, err := os.MkdirTemp("", "swb")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	socketPath := filepath.Join(dir, "bridge.sock")

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		_ = os.RemoveAll(dir)
		t.Fatalf("listen %s: %v", socketPath, err)
	}

	b := &Bridge{
		SocketPath: socketPath,
		listener:   listener,
		handlers:   defaultHandlers(),
		calls:      make(map[string]int),
	}
	b.wg.Add(1)
	go b.serve()

	t.Cleanup(func() {
		b.Close()
		_ = os.RemoveAll(dir)
	})
	return b
}

func defaultHandlers() map[string]Handler {
	return map[string]Handler{
		steamworks.ActionHello: func(steamworks.Request) Reply {
			return Reply{OK: true, Data: steamworks.HelloInfo{APIVersion: steamworks.MinAPIVersion, Runtime: "steamworkstest"}}
		},
		steamworks.ActionInit: func(steamworks.Request) Reply {
			return Reply{OK: true}
		},
		steamworks.ActionRunCallbacks: func(steamworks.Request) Reply {
			return Reply{OK: true, Data: steamworks.CallbackBatch{}}
		},
		steamworks.ActionShutdown: func(steamworks.Request) Reply {
			return Reply{OK: true}
		},
	}
}

// Handle replaces the handler for action.
func (b *Bridge) Handle(action string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[action] = h
}

// Calls returns how many requests for action have been answered.
func (b *Bridge) Calls(action string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[action]
}

// Requests returns a copy of every request received, in arrival order.
func (b *Bridge) Requests() []steamworks.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]steamworks.Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Close stops accepting connections and waits for in-flight ones.
// Calling it more than once is safe.
func (b *Bridge) Close() {
	_ = b.listener.Close()
	b.wg.Wait()
}

func (b *Bridge) serve() {
	defer b.wg.Done()
	for {
		conn, err := b.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			continue
		}
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.handle(conn)
		}()
	}
}

func (b *Bridge) handle(conn net.Conn) {
	defer conn.Close()

	var req steamworks.Request
	if err := steamworks.NewDecoder(conn).Decode(&req); err != nil {
		return
	}

	b.mu.Lock()
	b.calls[req.Action]++
	b.requests = append(b.requests, req)
	handler, ok := b.handlers[req.Action]
	b.mu.Unlock()

	reply := Reply{Error: "unknown action " + req.Action}
	if ok {
		reply = handler(req)
	}

	resp := steamworks.Response{OK: reply.OK, Error: reply.Error}
	if reply.Data != nil {
		data, err := steamworks.Marshal(reply.Data)
		if err != nil {
			resp = steamworks.Response{Error: "encode reply: " + err.Error()}
		} else {
			resp.Data = data
		}
	}
	_ = steamworks.NewEncoder(conn).Encode(resp)
}
