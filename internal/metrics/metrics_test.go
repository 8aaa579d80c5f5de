package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatoshilabs/zord/internal/audit"
	"github.com/zatoshilabs/zord/internal/probe"
	"github.com/zatoshilabs/zord/internal/report"
	"github.com/zatoshilabs/zord/internal/validate"
)

func sampleReport() *report.RunReport {
	return &report.RunReport{
		RunID:   "run-1",
		Command: "check",
		Started: time.Unix(1767323045, 0),
		Smoke: &report.Smoke{
			Parameterized: 12,
			Outcomes: []probe.Outcome{
				{Path: "/", Group: "static", Passed: true, Duration: 20 * time.Millisecond},
				{Path: "/api/v1/tokens/zatz", Group: "token", Duration: 30 * time.Millisecond},
				{Path: "/api/v1/names/alice.zec", Group: "name", Passed: true, Duration: 10 * time.Millisecond},
			},
			Elapsed: 2 * time.Second,
		},
		Integrity: &report.Integrity{
			Result: &audit.Result{
				Tokens:  3,
				Checked: 2,
				Drift:   []audit.Drift{{Ticker: "abcd", Source: audit.SourceRecomputed}},
				Skipped: []audit.Skip{{Ticker: "gone", Reason: "token not found"}},
			},
			Elapsed: time.Second,
		},
		Validation: &report.Validation{Result: &validate.Result{Problems: []string{"a", "b"}}},
	}
}

func family(t *testing.T, m *Run, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not gathered", name)
	return nil
}

func TestObserve(t *testing.T) {
	m := NewRun()
	m.Observe(sampleReport())

	assert.Equal(t, float64(2), testutil.ToFloat64(m.ExitCode))
	assert.Equal(t, float64(1767323045), testutil.ToFloat64(m.LastRun))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Probes.WithLabelValues("passed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Probes.WithLabelValues("failed")))
	assert.Equal(t, float64(12), testutil.ToFloat64(m.Parameterized))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.IntegrityTokens))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.IntegrityChecked))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IntegritySkipped))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.IntegrityDrift.WithLabelValues(audit.SourceIndexer)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.IntegrityDrift.WithLabelValues(audit.SourceRecomputed)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ValidationProblems))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.PhaseDuration.WithLabelValues("smoke")))

	latency := family(t, m, "zord_check_smoke_probe_duration_seconds")
	assert.Len(t, latency.GetMetric(), 3)
	for _, metric := range latency.GetMetric() {
		assert.Equal(t, uint64(1), metric.GetHistogram().GetSampleCount())
	}
}

func TestObserveSkipsMissingPhases(t *testing.T) {
	m := NewRun()
	m.Observe(&report.RunReport{Command: "validate", Validation: &report.Validation{Result: &validate.Result{}}})

	assert.Equal(t, float64(0), testutil.ToFloat64(m.ExitCode))
	assert.Equal(t, 0, testutil.CollectAndCount(m.Probes))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PhaseDuration))
}

func TestPush(t *testing.T) {
	var method, path string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, Push(context.Background(), srv.Client(), srv.URL, "", sampleReport()))

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/zordcheck/command/check", path)
	assert.Contains(t, string(body), "zord_check_exit_code")
	assert.Contains(t, string(body), "zord_check_integrity_drift_tokens")
}

func TestPushGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := Push(context.Background(), nil, srv.URL, "zord", sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "push metrics")
}
