package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/farmer/internal/logger"
	"github.com/five82/farmer/internal/state"
)

const namespace = "farmer"

var (
	infoDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "info"),
		"Current session, always 1",
		[]string{"app_id", "session_id"}, nil,
	)
	stateDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "state"),
		"Session lifecycle state (0=unstarted, 1=initializing, 2=running, 3=shutting down, 4=stopped)",
		nil, nil,
	)
	pollsDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "polls_total"),
		"Completed polls of the Steam client",
		nil, nil,
	)
	dispatchedDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "callbacks_dispatched_total"),
		"Steam callbacks dispatched by the poll loop",
		nil, nil,
	)
	uptimeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "uptime_seconds"),
		"Seconds since the session reached running",
		nil, nil,
	)
	lastPollDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "last_poll_timestamp_seconds"),
		"Unix time of the last completed poll",
		nil, nil,
	)
	faultDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "session", "faulted"),
		"1 when the poll loop ended on a fault",
		nil, nil,
	)
)

// Collector exposes a state.Store snapshot as Prometheus metrics.
type Collector struct {
	store *state.Store
	now   func() time.Time
}

// Ensure Collector implements prometheus.Collector at compile time.
var _ prometheus.Collector = (*Collector)(nil)

// NewCollector reads from store on every scrape.
func NewCollector(store *state.Store) *Collector {
	return &Collector{store: store, now: time.Now}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- infoDesc
	ch <- stateDesc
	ch <- pollsDesc
	ch <- dispatchedDesc
	ch <- uptimeDesc
	ch <- lastPollDesc
	ch <- faultDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.store.Snapshot()

	ch <- prometheus.MustNewConstMetric(infoDesc, prometheus.GaugeValue, 1, snap.AppID.String(), snap.SessionID)
	ch <- prometheus.MustNewConstMetric(stateDesc, prometheus.GaugeValue, float64(snap.State))
	ch <- prometheus.MustNewConstMetric(pollsDesc, prometheus.CounterValue, float64(snap.Polls))
	ch <- prometheus.MustNewConstMetric(dispatchedDesc, prometheus.CounterValue, float64(snap.Dispatched))
	ch <- prometheus.MustNewConstMetric(uptimeDesc, prometheus.GaugeValue, snap.Uptime(c.now()).Seconds())

	lastPoll := 0.0
	if !snap.LastPoll.IsZero() {
		lastPoll = float64(snap.LastPoll.UnixNano()) / float64(time.Second)
	}
	ch <- prometheus.MustNewConstMetric(lastPollDesc, prometheus.GaugeValue, lastPoll)

	faulted := 0.0
	if snap.LastError != nil {
		faulted = 1
	}
	ch <- prometheus.MustNewConstMetric(faultDesc, prometheus.GaugeValue, faulted)
}

// Textfile periodically writes the session metrics in the Prometheus text
// format, for node_exporter's textfile collector.
type Textfile struct {
	Path     string
	Interval time.Duration
	Log      *logger.Logger
	// Clock drives the write interval; nil uses the real clock.
	Clock clockwork.Clock

	registry *prometheus.Registry
}

// NewTextfile registers a Collector for store and writes to path.
func NewTextfile(path string, store *state.Store, interval time.Duration, log *logger.Logger) (*Textfile, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(NewCollector(store)); err != nil {
		return nil, fmt.Errorf("register session collector: %w", err)
	}
	return &Textfile{Path: path, Interval: interval, Log: log, registry: registry}, nil
}

// Write renders the metrics to Path once.
func (t *Textfile) Write() error {
	if err := prometheus.WriteToTextfile(t.Path, t.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// Run writes every Interval until ctx is done, then writes a final time so
// the file reflects the stopped session. Write failures are logged.
func (t *Textfile) Run(ctx context.Context) error {
	log := logger.OrNop(t.Log)
	interval := t.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	clock := t.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := t.Write(); err != nil {
			log.Warn().Err(err).Str("path", t.Path).Msg("metrics write failed")
		}
		select {
		case <-ctx.Done():
			if err := t.Write(); err != nil {
				log.Warn().Err(err).Str("path", t.Path).Msg("final metrics write failed")
			}
			return nil
		case <-ticker.Chan():
		}
	}
}
