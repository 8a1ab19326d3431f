package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.CommandDone("enable", "user", "ok")
	m.CommandDone("enable", "user", "ok")
	m.CommandDone("show", "user", "error")
	m.Completion("tab")
	m.Transition("user", "privileged")

	if got := testutil.ToFloat64(m.commands.WithLabelValues("enable", "user", "ok")); got != 2 {
		t.Errorf("enable ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.commands.WithLabelValues("show", "user", "error")); got != 1 {
		t.Errorf("show error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.completions.WithLabelValues("tab")); got != 1 {
		t.Errorf("tab = %v", got)
	}
	if got := testutil.ToFloat64(m.transitions.WithLabelValues("user", "privileged")); got != 1 {
		t.Errorf("transition = %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.CommandDone("x", "y", "z")
	m.Completion("tab")
	m.Transition("a", "b")
	m.WatchState(func() State { return State{} })
}

func TestStateCollectorAndHandler(t *testing.T) {
	m := New()
	saved := time.Unix(1700000000, 0)
	m.WatchState(func() State {
		return State{Mode: "config", Addresses: 2, Routes: 1, ConfigSave: saved}
	})

	expected := `
# HELP netshell_static_routes Static routes configured from the shell.
# TYPE netshell_static_routes gauge
netshell_static_routes 1
`
	if err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "netshell_static_routes"); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`netshell_session_mode{mode="config"} 1`,
		"netshell_configured_addresses 2",
		"netshell_config_last_saved_timestamp_seconds 1.7e+09",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %q in scrape output", want)
		}
	}
}
