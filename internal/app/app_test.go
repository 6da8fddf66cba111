package app_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/farmer/internal/app"
	"github.com/five82/farmer/internal/appid"
	"github.com/five82/farmer/internal/config"
	"github.com/five82/farmer/internal/launch"
	"github.com/five82/farmer/internal/state"
	"github.com/five82/farmer/internal/steamworks"
	"github.com/five82/farmer/internal/steamworks/steamworkstest"
	"github.com/five82/farmer/internal/ui"
)

// fakeService counts calls; aliveFor limits how many availability checks
// succeed (0 means unlimited).
type fakeService struct {
	aliveFor      int32
	initErr       error
	teardownDelay time.Duration

	checks    atomic.Int32
	pumps     atomic.Int32
	teardowns atomic.Int32

	mu     sync.Mutex
	inited []appid.ID
}

func (f *fakeService) IsAvailable(context.Context) bool {
	n := f.checks.Add(1)
	return f.aliveFor == 0 || n <= f.aliveFor
}

func (f *fakeService) Initialize(_ context.Context, id appid.ID) error {
	f.mu.Lock()
	f.inited = append(f.inited, id)
	f.mu.Unlock()
	return f.initErr
}

func (f *fakeService) PumpEvents(context.Context) (int, error) {
	f.pumps.Add(1)
	return 0, nil
}

func (f *fakeService) Teardown(context.Context) error {
	time.Sleep(f.teardownDelay)
	f.teardowns.Add(1)
	return nil
}

func (f *fakeService) initialized() []appid.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]appid.ID(nil), f.inited...)
}

type fakePrompter struct {
	value string
	err   error
	calls atomic.Int32
}

func (p *fakePrompter) PromptAppID(context.Context, appid.ID) (string, error) {
	p.calls.Add(1)
	return p.value, p.err
}

// stopWhenRunning is an indicator that presses stop once the session runs.
func stopWhenRunning(ctx context.Context, opts ui.IndicatorOptions) (ui.IndicatorResult, error) {
	for {
		if opts.Store.Snapshot().State == state.Running {
			return ui.IndicatorResult{StopRequested: true}, nil
		}
		select {
		case <-ctx.Done():
			return ui.IndicatorResult{}, nil
		case <-opts.Done:
			return ui.IndicatorResult{SessionEnded: true}, nil
		case <-time.After(time.Millisecond):
		}
	}
}

type fixture struct {
	dir       string
	appIDFile string
	opts      app.Options
}

func newFixture(t *testing.T, mode launch.Mode, svc steamworks.Service) *fixture {
	t.Helper()
	dir := t.TempDir()
	f := &fixture{dir: dir, appIDFile: filepath.Join(dir, "steam_appid.txt")}
	f.opts = app.Options{
		Launch: launch.Options{
			Mode:       mode,
			ConfigPath: filepath.Join(dir, "absent.toml"),
		},
		Overrides: config.Config{
			AppIDFile:    f.appIDFile,
			LogFile:      filepath.Join(dir, "farmer.log"),
			PollInterval: time.Millisecond,
		},
		Service:   svc,
		Indicator: stopWhenRunning,
		Stdin:     strings.NewReader(""),
		Stdout:    &strings.Builder{},
	}
	return f
}

func (f *fixture) writeAppID(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.appIDFile, []byte(content), 0o644))
}

func (f *fixture) readAppID(t *testing.T) (string, bool) {
	t.Helper()
	data, err := os.ReadFile(f.appIDFile)
	if errors.Is(err, os.ErrNotExist) {
		return "", false
	}
	require.NoError(t, err)
	return string(data), true
}

func run(t *testing.T, opts app.Options) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return app.Run(ctx, opts)
}

func requireFailure(t *testing.T, err error, kind app.Kind) *app.Failure {
	t.Helper()
	var failure *app.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, kind, failure.Kind)
	return failure
}

func TestRun_InteractivePromptPersistsAndStarts(t *testing.T) {
	svc := &fakeService{}
	f := newFixture(t, launch.Interactive, svc)
	prompter := &fakePrompter{value: "730"}
	f.opts.Prompter = prompter

	require.NoError(t, run(t, f.opts))

	assert.Equal(t, int32(1), prompter.calls.Load())
	assert.Equal(t, []appid.ID{730}, svc.initialized())
	assert.Equal(t, int32(1), svc.teardowns.Load())
	content, ok := f.readAppID(t)
	require.True(t, ok)
	assert.Equal(t, "730", content)
	assert.Contains(t, f.opts.Stdout.(*strings.Builder).String(), "Process started!")
}

func TestRun_UnattendedUsesPersistedValue(t *testing.T) {
	svc := &fakeService{aliveFor: 4}
	f := newFixture(t, launch.Unattended, svc)
	f.writeAppID(t, "550")
	prompter := &fakePrompter{value: "1"}
	f.opts.Prompter = prompter

	require.NoError(t, run(t, f.opts))

	assert.Zero(t, prompter.calls.Load())
	assert.Equal(t, []appid.ID{550}, svc.initialized())
	assert.Empty(t, f.opts.Stdout.(*strings.Builder).String())
}

func TestRun_ArgumentBeatsPersistedValue(t *testing.T) {
	svc := &fakeService{aliveFor: 3}
	f := newFixture(t, launch.Unattended, svc)
	f.writeAppID(t, "550")
	f.opts.Launch.AppID = 440

	require.NoError(t, run(t, f.opts))

	assert.Equal(t, []appid.ID{440}, svc.initialized())
	content, _ := f.readAppID(t)
	assert.Equal(t, "440", content)
}

func TestRun_UnattendedWithoutIdentifierExitsSilently(t *testing.T) {
	svc := &fakeService{}
	f := newFixture(t, launch.Unattended, svc)

	err := run(t, f.opts)

	failure := requireFailure(t, err, app.InvalidIdentifier)
	assert.True(t, failure.Silent)
	assert.Equal(t, 2, failure.ExitCode())
	assert.Empty(t, svc.initialized())
	_, ok := f.readAppID(t)
	assert.False(t, ok, "config file must not be written")
}

func TestRun_PreflightFailure(t *testing.T) {
	for _, mode := range []launch.Mode{launch.Interactive, launch.Unattended} {
		t.Run(mode.String(), func(t *testing.T) {
			svc := &fakeService{aliveFor: -1}
			f := newFixture(t, mode, svc)
			prompter := &fakePrompter{value: "730"}
			f.opts.Prompter = prompter
			f.opts.Launch.AppID = 730

			err := run(t, f.opts)

			failure := requireFailure(t, err, app.ServiceUnavailable)
			assert.Equal(t, mode == launch.Unattended, failure.Silent)
			assert.Equal(t, 3, failure.ExitCode())
			assert.Zero(t, prompter.calls.Load())
			assert.Empty(t, svc.initialized())
			_, ok := f.readAppID(t)
			assert.False(t, ok)
		})
	}
}

func TestRun_PromptCancelledIsNormalExit(t *testing.T) {
	svc := &fakeService{}
	f := newFixture(t, launch.Interactive, svc)
	f.opts.Prompter = &fakePrompter{err: appid.ErrCancelled}

	require.NoError(t, run(t, f.opts))
	assert.Empty(t, svc.initialized())
	_, ok := f.readAppID(t)
	assert.False(t, ok)
}

func TestRun_InvalidPromptInput(t *testing.T) {
	svc := &fakeService{}
	f := newFixture(t, launch.Interactive, svc)
	f.opts.Prompter = &fakePrompter{value: "abc"}

	failure := requireFailure(t, run(t, f.opts), app.InvalidIdentifier)
	assert.False(t, failure.Silent)
	assert.ErrorIs(t, failure, appid.ErrInvalidIdentifier)
	assert.Empty(t, svc.initialized())
}

func TestRun_ConfigWriteFailure(t *testing.T) {
	svc := &fakeService{}
	f := newFixture(t, launch.Interactive, svc)
	blocker := filepath.Join(f.dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	f.opts.Overrides.AppIDFile = filepath.Join(blocker, "steam_appid.txt")
	f.opts.Launch.AppID = 730

	failure := requireFailure(t, run(t, f.opts), app.ConfigWrite)
	assert.Equal(t, 4, failure.ExitCode())
	assert.Empty(t, svc.initialized())
}

func TestRun_HandshakeFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind app.Kind
		code int
	}{
		{"missing", fmt.Errorf("dial: %w", steamworks.ErrRuntimeMissing), app.MissingRuntime, 5},
		{"incompatible", fmt.Errorf("%w: %w", steamworks.ErrRuntimeIncompatible, &steamworks.VersionError{Have: 1, Want: 2}), app.IncompatibleRuntime, 6},
		{"rejected", &steamworks.RejectedError{AppID: 730, Reason: "not owned"}, app.HandshakeRejected, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{initErr: tt.err}
			f := newFixture(t, launch.Unattended, svc)
			f.opts.Launch.AppID = 730

			failure := requireFailure(t, run(t, f.opts), tt.kind)
			assert.True(t, failure.Silent)
			assert.Equal(t, tt.code, failure.ExitCode())
			assert.Zero(t, svc.pumps.Load())
			content, _ := f.readAppID(t)
			assert.Equal(t, "730", content, "identifier is persisted before the handshake")
		})
	}
}

func TestRun_ServiceDisappearsEndsProcess(t *testing.T) {
	svc := &fakeService{aliveFor: 5}
	f := newFixture(t, launch.Unattended, svc)
	f.opts.Launch.AppID = 730

	require.NoError(t, run(t, f.opts))
	assert.Equal(t, int32(1), svc.teardowns.Load())
	// One preflight check plus four successful polls before the failing one.
	assert.Equal(t, int32(4), svc.pumps.Load())
}

func TestRun_SignalStopsUnattendedSession(t *testing.T) {
	svc := &fakeService{}
	f := newFixture(t, launch.Unattended, svc)
	f.opts.Launch.AppID = 730

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for svc.pumps.Load() < 2 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, f.opts) }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, int32(1), svc.teardowns.Load())
}

func TestRun_WritesMetricsFile(t *testing.T) {
	svc := &fakeService{aliveFor: 4}
	f := newFixture(t, launch.Unattended, svc)
	f.opts.Launch.AppID = 730
	f.opts.Overrides.MetricsFile = filepath.Join(f.dir, "farmer.prom")

	require.NoError(t, run(t, f.opts))

	data, err := os.ReadFile(f.opts.Overrides.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `farmer_session_info{app_id="730"`)
	assert.Contains(t, string(data), "farmer_session_state "+strconv.Itoa(int(state.Stopped)))
}

func TestRun_MetricsFileReflectsStopAfterSignal(t *testing.T) {
	svc := &fakeService{teardownDelay: 100 * time.Millisecond}
	f := newFixture(t, launch.Unattended, svc)
	f.opts.Launch.AppID = 730
	f.opts.Overrides.MetricsFile = filepath.Join(f.dir, "farmer.prom")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	runCtx, stop := context.WithCancel(ctx)
	go func() {
		for svc.pumps.Load() < 2 {
			time.Sleep(time.Millisecond)
		}
		stop()
	}()

	require.NoError(t, app.Run(runCtx, f.opts))
	assert.Equal(t, int32(1), svc.teardowns.Load())

	data, err := os.ReadFile(f.opts.Overrides.MetricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "farmer_session_state "+strconv.Itoa(int(state.Stopped)))
}

func TestRun_AgainstBridge(t *testing.T) {
	bridge := steamworkstest.NewBridge(t)
	pidFile := filepath.Join(t.TempDir(), "steam.pid")
	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0o644))

	f := newFixture(t, launch.Interactive, nil)
	f.opts.Overrides.RuntimeSocket = bridge.SocketPath
	f.opts.Overrides.SteamPIDFile = pidFile
	f.opts.Launch.AppID = 730

	require.NoError(t, run(t, f.opts))

	assert.Equal(t, 1, bridge.Calls(steamworks.ActionInit))
	assert.Equal(t, 1, bridge.Calls(steamworks.ActionShutdown))
	for _, req := range bridge.Requests() {
		if req.Action == steamworks.ActionInit {
			assert.Equal(t, uint32(730), req.AppID)
		}
	}
}

func TestRun_InvalidSettings(t *testing.T) {
	f := newFixture(t, launch.Unattended, &fakeService{})
	f.opts.Overrides.PollInterval = -time.Second

	err := run(t, f.opts)
	require.ErrorIs(t, err, config.ErrInvalidPollInterval)
	var failure *app.Failure
	assert.False(t, errors.As(err, &failure))
}
