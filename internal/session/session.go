package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/five82/farmer/internal/appid"
	"github.com/five82/farmer/internal/logger"
	"github.com/five82/farmer/internal/state"
	"github.com/five82/farmer/internal/steamworks"
)

// DefaultPollInterval is the wait between two polls of the Steam client.
const DefaultPollInterval = 5 * time.Second

// StopReason says why a poll loop ended.
type StopReason int

const (
	// StopRequested means the context was cancelled or Stop was called.
	StopRequested StopReason = iota
	// ServiceGone means the Steam client stopped running.
	ServiceGone
	// Fault means a pump call failed or panicked.
	Fault
)

func (r StopReason) String() string {
	switch r {
	case StopRequested:
		return "stop requested"
	case ServiceGone:
		return "steam exited"
	case Fault:
		return "poll fault"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Option configures a Session.
type Option func(*Session)

// WithPollInterval overrides DefaultPollInterval. Non-positive values are
// ignored.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithClock replaces the wall clock used between polls.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithStore publishes every state change and poll to store.
func WithStore(store *state.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// Session owns one handshake with the Steam client and its lifecycle. A
// Session is single use: once Stopped it stays Stopped.
type Session struct {
	svc      steamworks.Service
	log      *logger.Logger
	store    *state.Store
	interval time.Duration
	clock    clockwork.Clock
	id       string

	mu    sync.Mutex
	state state.SessionState
	appID appid.ID
	done  chan struct{}

	teardownOnce sync.Once
}

// Handle is returned by a successful Start and drives the poll loop.
type Handle struct {
	session *Session
}

// New returns an Unstarted session backed by svc.
func New(svc steamworks.Service, opts ...Option) *Session {
	s := &Session{
		svc:      svc,
		interval: DefaultPollInterval,
		clock:    clockwork.NewRealClock(),
		id:       uuid.NewString(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.OrNop(s.log).With("session", s.id)
	return s
}

// ID is the random identifier tagging this session's log lines.
func (s *Session) ID() string { return s.id }

// AppID returns the App ID passed to Start, or 0 before Start.
func (s *Session) AppID() appid.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appID
}

// State returns the current lifecycle state.
func (s *Session) State() state.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Done is closed when the session reaches Stopped.
func (s *Session) Done() <-chan struct{} { return s.done }

// CheckServiceAvailable is the preflight probe. A panicking probe counts as
// unavailable.
func (s *Session) CheckServiceAvailable(ctx context.Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn().Interface("panic", r).Msg("availability probe panicked")
			ok = false
		}
	}()
	return s.svc.IsAvailable(ctx)
}

// Start performs the handshake for id. On failure the session is Stopped
// and the error is an InitError; no teardown is attempted. Cancelling ctx
// or calling Stop while the handshake is in flight stops the session: a
// handshake that still succeeds is torn down and Start returns ErrStopped.
// A ctx cancelled after Start returns is left to PollLoop.
func (s *Session) Start(ctx context.Context, id appid.ID) (*Handle, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("start session: %w", appid.ErrInvalidIdentifier)
	}

	s.mu.Lock()
	if s.state != state.Unstarted {
		s.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	s.appID = id
	s.store.Begin(s.id, id)
	s.setStateLocked(state.Initializing)
	s.mu.Unlock()

	s.log.Info().Uint32("app_id", uint32(id)).Msg("initializing steam session")

	stopWatch := context.AfterFunc(ctx, s.abortHandshake)
	defer stopWatch()

	err := s.handshake(ctx, id)

	s.mu.Lock()
	if err != nil {
		s.setStateLocked(state.ShuttingDown)
		s.setStateLocked(state.Stopped)
		s.mu.Unlock()

		initErr := classifyInit(id, err)
		s.log.Error().Err(initErr).Msg("steam handshake failed")
		return nil, initErr
	}
	if s.state != state.Initializing {
		s.mu.Unlock()
		s.log.Info().Msg("stop requested during handshake")
		s.teardown()
		s.finish()
		return nil, ErrStopped
	}
	s.setStateLocked(state.Running)
	s.mu.Unlock()

	s.log.Info().Uint32("app_id", uint32(id)).Msg("steam session running")
	return &Handle{session: s}, nil
}

// Stop ends the session. It is safe to call any number of times from any
// goroutine; teardown runs at most once and its failures are only logged.
// Stop during Initializing leaves the final transition to Start.
func (s *Session) Stop() {
	s.mu.Lock()
	switch s.state {
	case state.Unstarted:
		s.setStateLocked(state.Stopped)
		s.mu.Unlock()
	case state.Initializing:
		s.setStateLocked(state.ShuttingDown)
		s.mu.Unlock()
	case state.Running:
		s.setStateLocked(state.ShuttingDown)
		s.mu.Unlock()
		s.teardown()
		s.finish()
	default:
		s.mu.Unlock()
	}
}

// abortHandshake marks an Initializing session ShuttingDown so Start tears
// down a late handshake itself. It never touches a Running session: after
// the handshake, cancellation is observed by PollLoop on the worker.
func (s *Session) abortHandshake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == state.Initializing {
		s.setStateLocked(state.ShuttingDown)
	}
}

// Run starts the session and polls it on the calling goroutine until a
// stop condition fires.
func (s *Session) Run(ctx context.Context, id appid.ID) (StopReason, error) {
	h, err := s.Start(ctx, id)
	if err != nil {
		return StopRequested, err
	}
	return h.PollLoop(ctx), nil
}

// PollLoop keeps the session alive: each iteration checks that Steam is
// still running, pumps pending callbacks and waits one poll interval. It
// returns when ctx is done, Steam goes away, or a poll faults, and always
// stops the session before returning.
func (h *Handle) PollLoop(ctx context.Context) StopReason {
	s := h.session
	defer s.Stop()

	log := s.log.With("loop", "poll")
	log.Debug().Dur("interval", s.interval).Msg("poll loop started")

	polls := 0
	for {
		if ctx.Err() != nil || s.State() != state.Running {
			log.Info().Int("polls", polls).Msg("poll loop stopping on request")
			return StopRequested
		}

		alive, dispatched, fault := s.poll(ctx, polls)
		if fault != nil {
			log.Error().Err(fault).Msg("poll loop fault")
			s.store.RecordError(fault)
			return Fault
		}
		if !alive {
			log.Info().Int("polls", polls).Msg("steam is no longer running")
			return ServiceGone
		}
		polls++
		s.store.RecordPoll(dispatched)
		if dispatched > 0 {
			log.Debug().Int("dispatched", dispatched).Msg("steam callbacks dispatched")
		}

		s.wait(ctx)
	}
}

// wait blocks for one poll interval or until ctx is done.
func (s *Session) wait(ctx context.Context) {
	timer := s.clock.NewTimer(s.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.Chan():
	}
}

// poll runs one availability check and pump. Calls into the service are
// not interrupted by ctx; a stop waits for them to return.
func (s *Session) poll(ctx context.Context, polls int) (alive bool, dispatched int, fault *LoopFault) {
	defer func() {
		if r := recover(); r != nil {
			alive = false
			dispatched = 0
			fault = &LoopFault{Polls: polls, Panic: true, Err: fmt.Errorf("%v", r)}
		}
	}()

	callCtx := context.WithoutCancel(ctx)
	if !s.svc.IsAvailable(callCtx) {
		return false, 0, nil
	}
	n, err := s.svc.PumpEvents(callCtx)
	if err != nil {
		return true, 0, &LoopFault{Polls: polls, Err: fmt.Errorf("pump events: %w", err)}
	}
	return true, n, nil
}

func (s *Session) handshake(ctx context.Context, id appid.ID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("initialize panicked: %v", r)
		}
	}()
	return s.svc.Initialize(context.WithoutCancel(ctx), id)
}

func (s *Session) teardown() {
	s.teardownOnce.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Warn().Interface("panic", r).Msg("steam teardown panicked")
			}
		}()
		if err := s.svc.Teardown(context.Background()); err != nil {
			s.log.Warn().Err(err).Msg("steam teardown failed")
			return
		}
		s.log.Debug().Msg("steam session torn down")
	})
}

func (s *Session) finish() {
	s.mu.Lock()
	s.setStateLocked(state.Stopped)
	s.mu.Unlock()
	s.log.Info().Msg("session stopped")
}

// setStateLocked moves to next if it is later than the current state. The
// caller holds s.mu.
func (s *Session) setStateLocked(next state.SessionState) bool {
	if next <= s.state {
		return false
	}
	s.log.Debug().Stringer("from", s.state).Stringer("to", next).Msg("session state")
	s.state = next
	s.store.SetState(next)
	if next == state.Stopped {
		close(s.done)
	}
	return true
}
