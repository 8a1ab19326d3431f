// Package metrics exports shell activity counters and a snapshot of the
// appliance state in Prometheus format.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the shell's collectors. A nil *Metrics records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	commands    *prometheus.CounterVec
	completions *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// New creates the counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netshell_commands_total",
			Help: "Commands dispatched, by resolved command, mode and result.",
		}, []string{"command", "mode", "result"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netshell_completions_total",
			Help: "Completion requests, by trigger (tab or query).",
		}, []string{"trigger"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netshell_mode_transitions_total",
			Help: "Mode changes, by source and destination mode.",
		}, []string{"from", "to"}),
	}
	m.Registry.MustRegister(m.commands, m.completions, m.transitions)
	return m
}

// CommandDone counts one dispatched line.
func (m *Metrics) CommandDone(command, mode, result string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, mode, result).Inc()
}

// Completion counts one completion request.
func (m *Metrics) Completion(trigger string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(trigger).Inc()
}

// Transition counts one mode change.
func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

// State is the appliance state sampled on each scrape.
type State struct {
	Mode       string
	Addresses  int
	Routes     int
	Features   int
	LinksDown  int
	ConfigSave time.Time
}

// stateCollector implements prometheus.Collector, sampling the shell state
// on each scrape.
type stateCollector struct {
	sample func() State

	mode       *prometheus.Desc
	addresses  *prometheus.Desc
	routes     *prometheus.Desc
	features   *prometheus.Desc
	linksDown  *prometheus.Desc
	configSave *prometheus.Desc
}

// WatchState registers a collector that calls sample on every scrape.
func (m *Metrics) WatchState(sample func() State) {
	if m == nil {
		return
	}
	m.Registry.MustRegister(&stateCollector{
		sample: sample,
		mode: prometheus.NewDesc("netshell_session_mode",
			"Current mode of the shell session (1 for the active mode).",
			[]string{"mode"}, nil),
		addresses: prometheus.NewDesc("netshell_configured_addresses",
			"Interface addresses configured from the shell.", nil, nil),
		routes: prometheus.NewDesc("netshell_static_routes",
			"Static routes configured from the shell.", nil, nil),
		features: prometheus.NewDesc("netshell_feature_settings",
			"Feature-manager settings recorded.", nil, nil),
		linksDown: prometheus.NewDesc("netshell_links_shutdown",
			"Interfaces administratively shut down from the shell.", nil, nil),
		configSave: prometheus.NewDesc("netshell_config_last_saved_timestamp_seconds",
			"Unix time of the last configuration save, 0 if never.", nil, nil),
	})
}

func (c *stateCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.mode
	ch <- c.addresses
	ch <- c.routes
	ch <- c.features
	ch <- c.linksDown
	ch <- c.configSave
}

func (c *stateCollector) Collect(ch chan<- prometheus.Metric) {
	st := c.sample()
	ch <- prometheus.MustNewConstMetric(c.mode, prometheus.GaugeValue, 1, st.Mode)
	ch <- prometheus.MustNewConstMetric(c.addresses, prometheus.GaugeValue, float64(st.Addresses))
	ch <- prometheus.MustNewConstMetric(c.routes, prometheus.GaugeValue, float64(st.Routes))
	ch <- prometheus.MustNewConstMetric(c.features, prometheus.GaugeValue, float64(st.Features))
	ch <- prometheus.MustNewConstMetric(c.linksDown, prometheus.GaugeValue, float64(st.LinksDown))
	var saved float64
	if !st.ConfigSave.IsZero() {
		saved = float64(st.ConfigSave.Unix())
	}
	ch <- prometheus.MustNewConstMetric(c.configSave, prometheus.GaugeValue, saved)
}

// Handler returns the /metrics handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("metrics listener started", "addr", addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
