package steamworks_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/five82/farmer/internal/steamworks"
	"github.com/five82/farmer/internal/steamworks/steamworkstest"
)

func newClient(t *testing.T, socketPath string) *steamworks.Client {
	t.Helper()
	c, err := steamworks.NewClient(socketPath, filepath.Join(t.TempDir(), "steam.pid"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewClient_RequiresPaths(t *testing.T) {
	if _, err := steamworks.NewClient(" ", "/tmp/steam.pid"); err == nil {
		t.Fatalf("NewClient with empty socket returned nil error")
	}
	if _, err := steamworks.NewClient("/tmp/bridge.sock", ""); err == nil {
		t.Fatalf("NewClient with empty pid file returned nil error")
	}
}

func TestClient_FullSessionAgainstBridge(t *testing.T) {
	bridge := steamworkstest.NewBridge(t)
	bridge.Handle(steamworks.ActionRunCallbacks, func(steamworks.Request) steamworkstest.Reply {
		return steamworkstest.Reply{OK: true, Data: steamworks.CallbackBatch{Dispatched: 3}}
	})
	c := newClient(t, bridge.SocketPath)
	ctx := testContext(t)

	if err := c.Initialize(ctx, 730); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	n, err := c.PumpEvents(ctx)
	if err != nil {
		t.Fatalf("PumpEvents returned error: %v", err)
	}
	if n != 3 {
		t.Fatalf("PumpEvents dispatched = %d, want 3", n)
	}
	if err := c.Teardown(ctx); err != nil {
		t.Fatalf("Teardown returned error: %v", err)
	}

	reqs := bridge.Requests()
	wantActions := []string{
		steamworks.ActionHello,
		steamworks.ActionInit,
		steamworks.ActionRunCallbacks,
		steamworks.ActionShutdown,
	}
	if len(reqs) != len(wantActions) {
		t.Fatalf("bridge saw %d requests, want %d: %#v", len(reqs), len(wantActions), reqs)
	}
	for i, want := range wantActions {
		if reqs[i].Action != want {
			t.Fatalf("request %d action = %q, want %q", i, reqs[i].Action, want)
		}
		if reqs[i].Protocol != steamworks.ProtocolVersion {
			t.Fatalf("request %d protocol = %d, want %d", i, reqs[i].Protocol, steamworks.ProtocolVersion)
		}
	}
	if reqs[1].AppID != 730 {
		t.Fatalf("init app_id = %d, want 730", reqs[1].AppID)
	}
}

func TestClient_InitializeWithoutBridgeIsMissingRuntime(t *testing.T) {
	c := newClient(t, filepath.Join(t.TempDir(), "absent.sock"))

	err := c.Initialize(testContext(t), 730)
	if !errors.Is(err, steamworks.ErrRuntimeMissing) {
		t.Fatalf("Initialize error = %v, want ErrRuntimeMissing", err)
	}
}

func TestClient_InitializeOldBridgeIsIncompatible(t *testing.T) {
	bridge := steamworkstest.NewBridge(t)
	bridge.Handle(steamworks.ActionHello, func(steamworks.Request) steamworkstest.Reply {
		return steamworkstest.Reply{OK: true, Data: steamworks.HelloInfo{APIVersion: 1, Runtime: "bridge-0.9"}}
	})
	c := newClient(t, bridge.SocketPath)

	err := c.Initialize(testContext(t), 730)
	if !errors.Is(err, steamworks.ErrRuntimeIncompatible) {
		t.Fatalf("Initialize error = %v, want ErrRuntimeIncompatible", err)
	}
	var versionErr *steamworks.VersionError
	if !errors.As(err, &versionErr) || versionErr.Have != 1 || versionErr.Want != steamworks.MinAPIVersion {
		t.Fatalf("Initialize error = %v, want VersionError{Have: 1}", err)
	}
	if bridge.Calls(steamworks.ActionInit) != 0 {
		t.Fatalf("init was sent to an incompatible bridge")
	}
}

func TestClient_InitializeUnknownHelloIsIncompatible(t *testing.T) {
	bridge := steamworkstest.NewBridge(t)
	bridge.Handle(steamworks.ActionHello, func(steamworks.Request) steamworkstest.Reply {
		return steamworkstest.Reply{Error: "unknown action hello"}
	})
	c := newClient(t, bridge.SocketPath)

	err := c.Initialize(testContext(t), 730)
	if !errors.Is(err, steamworks.ErrRuntimeIncompatible) {
		t.Fatalf("Initialize error = %v, want ErrRuntimeIncompatible", err)
	}
}

func TestClient_InitializeRejected(t *testing.T) {
	bridge := steamworkstest.NewBridge(t)
	bridge.Handle(steamworks.ActionInit, func(steamworks.Request) steamworkstest.Reply {
		return steamworkstest.Reply{Error: "app not owned"}
	})
	c := newClient(t, bridge.SocketPath)

	err := c.Initialize(testContext(t), 999)
	var rejected *steamworks.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("Initialize error = %v, want RejectedError", err)
	}
	if rejected.AppID != 999 || rejected.Reason != "app not owned" {
		t.Fatalf("RejectedError = %+v, want app 999 reason %q", rejected, "app not owned")
	}
}

func TestClient_PumpEventsBridgeError(t *testing.T) {
	bridge := steamworkstest.NewBridge(t)
	bridge.Handle(steamworks.ActionRunCallbacks, func(steamworks.Request) steamworkstest.Reply {
		return steamworkstest.Reply{Error: "not initialized"}
	})
	c := newClient(t, bridge.SocketPath)

	_, err := c.PumpEvents(testContext(t))
	var bridgeErr *steamworks.BridgeError
	if !errors.As(err, &bridgeErr) || bridgeErr.Action != steamworks.ActionRunCallbacks {
		t.Fatalf("PumpEvents error = %v, want BridgeError on run_callbacks", err)
	}
}

func TestClient_PumpEventsAfterBridgeGone(t *testing.T) {
	bridge := steamworkstest.NewBridge(t)
	c := newClient(t, bridge.SocketPath)
	bridge.Close()

	if _, err := c.PumpEvents(testContext(t)); !errors.Is(err, steamworks.ErrRuntimeMissing) {
		t.Fatalf("PumpEvents error = %v, want ErrRuntimeMissing", err)
	}
}

func TestClient_IsAvailable(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "steam.pid")
	c, err := steamworks.NewClient(filepath.Join(dir, "bridge.sock"), pidFile)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	if c.IsAvailable(ctx) {
		t.Fatalf("IsAvailable = true with no pid file")
	}

	write := func(content string) {
		t.Helper()
		if err := os.WriteFile(pidFile, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	write(strconv.Itoa(os.Getpid()) + "\n")
	if !c.IsAvailable(ctx) {
		t.Fatalf("IsAvailable = false for the test process pid")
	}

	for _, bad := range []string{"", "steam", "0", "-1", "2147483646"} {
		write(bad)
		if c.IsAvailable(ctx) {
			t.Fatalf("IsAvailable = true for pid file %q", bad)
		}
	}
}
