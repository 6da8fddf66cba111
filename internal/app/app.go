package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/five82/farmer/internal/appid"
	"github.com/five82/farmer/internal/appidfile"
	"github.com/five82/farmer/internal/config"
	"github.com/five82/farmer/internal/launch"
	"github.com/five82/farmer/internal/logger"
	"github.com/five82/farmer/internal/metrics"
	"github.com/five82/farmer/internal/session"
	"github.com/five82/farmer/internal/state"
	"github.com/five82/farmer/internal/steamworks"
	"github.com/five82/farmer/internal/ui"
)

// IndicatorFunc shows the background indicator until the session ends or
// the operator stops it.
type IndicatorFunc func(ctx context.Context, opts ui.IndicatorOptions) (ui.IndicatorResult, error)

// Options configure a farmer run.
type Options struct {
	Launch launch.Options
	// Overrides are applied on top of the loaded settings and launch flags.
	Overrides config.Config

	// Service replaces the Steamworks client built from the settings.
	Service steamworks.Service
	// Prompter replaces the terminal prompt.
	Prompter appid.Prompter
	// Indicator replaces the terminal indicator.
	Indicator IndicatorFunc

	Stdin  io.Reader
	Stdout io.Writer
}

// Run drives one session from preflight to shutdown. It returns nil on a
// normal exit, including a cancelled prompt, and a *Failure when startup
// fails.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadSettings(opts)
	if err != nil {
		return err
	}

	log, closer, err := logger.NewFile(cfg.LogFile, "farmer", logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	mode := opts.Launch.Mode
	interactive := mode == launch.Interactive
	log = log.With("mode", mode.String())
	for _, ignored := range opts.Launch.Ignored {
		log.Warn().Str("value", ignored).Msg("ignoring invalid app id argument")
	}
	for _, unknown := range opts.Launch.Unknown {
		log.Warn().Str("flag", unknown).Msg("ignoring unknown argument")
	}

	svc := opts.Service
	if svc == nil {
		client, err := steamworks.NewClient(cfg.RuntimeSocket, cfg.SteamPIDFile)
		if err != nil {
			return fmt.Errorf("init steamworks client: %w", err)
		}
		svc = client
	}

	store := &state.Store{}
	sess := session.New(svc,
		session.WithPollInterval(cfg.PollInterval),
		session.WithLogger(log),
		session.WithStore(store),
	)

	if !sess.CheckServiceAvailable(ctx) {
		log.Error().Msg("steam is not running")
		return newFailure(ServiceUnavailable, session.ErrServiceUnavailable, !interactive)
	}

	stdin, stdout := opts.stdio()
	file := appidfile.Store{Path: cfg.AppIDFile, Log: log}
	resolver := appid.Resolver{File: file, Prompter: opts.prompter(stdin, stdout)}
	res, err := resolver.Resolve(ctx, appid.Request{
		ArgID:        opts.Launch.AppID,
		Interactive:  interactive,
		AlwaysPrompt: opts.Launch.AlwaysPrompt,
	})
	if err != nil {
		if errors.Is(err, appid.ErrCancelled) || (ctx.Err() != nil && errors.Is(err, ctx.Err())) {
			log.Info().Msg("app id prompt cancelled")
			return nil
		}
		log.Error().Err(err).Msg("app id resolution failed")
		return newFailure(InvalidIdentifier, err, !interactive)
	}
	log.Info().Uint32("app_id", uint32(res.ID)).Stringer("source", res.Source).Msg("app id resolved")

	if err := file.Save(res.ID); err != nil {
		log.Error().Err(err).Msg("app id save failed")
		return newFailure(ConfigWrite, err, !interactive)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	started := make(chan error, 1)
	g.Go(func() error {
		h, err := sess.Start(gctx, res.ID)
		started <- err
		if err != nil {
			return nil
		}
		reason := h.PollLoop(gctx)
		log.Info().Stringer("reason", reason).Msg("session ended")
		return nil
	})

	if err := <-started; err != nil {
		cancel()
		_ = g.Wait()
		if errors.Is(err, session.ErrStopped) {
			log.Info().Msg("stopped during startup")
			return nil
		}
		log.Error().Err(err).Msg("steam handshake failed")
		return initFailure(err, !interactive)
	}

	// The exporter outlives the worker so its final write sees Stopped.
	exportCtx, stopExport := context.WithCancel(context.WithoutCancel(ctx))
	defer stopExport()
	var export errgroup.Group
	if cfg.MetricsFile != "" {
		textfile, err := metrics.NewTextfile(cfg.MetricsFile, store, cfg.PollInterval, log)
		if err != nil {
			log.Warn().Err(err).Msg("metrics disabled")
		} else {
			export.Go(func() error { return textfile.Run(exportCtx) })
		}
	}

	if interactive {
		ui.ReportStarted(stdout, res.ID)
	}
	indicator := opts.indicator(interactive, stdin)
	if indicator != nil {
		result, err := indicator(runCtx, ui.IndicatorOptions{
			Store:   store,
			Done:    sess.Done(),
			LogFile: cfg.LogFile,
			Input:   stdin,
			Output:  stdout,
		})
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("indicator failed; waiting for the session")
			waitForStop(runCtx, sess)
		case result.StopRequested:
			log.Info().Msg("stop requested from indicator")
		}
	} else {
		waitForStop(runCtx, sess)
	}

	cancel()
	err = g.Wait()
	stopExport()
	return errors.Join(err, export.Wait())
}

func waitForStop(ctx context.Context, sess *session.Session) {
	select {
	case <-ctx.Done():
	case <-sess.Done():
	}
}

func loadSettings(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.Launch.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err = cfg.Override(config.Config{
		PollInterval: opts.Launch.PollInterval,
		LogFile:      opts.Launch.LogFile,
	})
	if err != nil {
		return config.Config{}, err
	}
	return cfg.Override(opts.Overrides)
}

func (o Options) stdio() (io.Reader, io.Writer) {
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if o.Stdin != nil {
		in = o.Stdin
	}
	if o.Stdout != nil {
		out = o.Stdout
	}
	return in, out
}

func (o Options) prompter(in io.Reader, out io.Writer) appid.Prompter {
	if o.Prompter != nil {
		return o.Prompter
	}
	if !isTerminal(in) {
		return nil
	}
	return ui.PromptFunc(func(ctx context.Context, suggested appid.ID) (string, error) {
		return ui.Prompt(ctx, ui.PromptOptions{Suggested: suggested, Input: in, Output: out})
	})
}

func (o Options) indicator(interactive bool, in io.Reader) IndicatorFunc {
	if !interactive {
		return nil
	}
	if o.Indicator != nil {
		return o.Indicator
	}
	if !isTerminal(in) {
		return nil
	}
	return ui.RunIndicator
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
