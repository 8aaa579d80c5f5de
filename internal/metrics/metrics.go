// Package metrics exports the counters of a harness run to a Prometheus
// Pushgateway.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/zatoshilabs/zord/internal/audit"
	"github.com/zatoshilabs/zord/internal/report"
)

// DefaultJob is the Pushgateway job name.
const DefaultJob = "zordcheck"

const namespace = "zord_check"

// Run holds the metrics of one run on a private registry, so repeated runs
// in one process never collide with the default registry.
type Run struct {
	Registry *prometheus.Registry

	ExitCode      prometheus.Gauge
	LastRun       prometheus.Gauge
	PhaseDuration *prometheus.GaugeVec

	Probes        *prometheus.GaugeVec
	ProbeLatency  *prometheus.HistogramVec
	Parameterized prometheus.Gauge

	IntegrityTokens  prometheus.Gauge
	IntegrityChecked prometheus.Gauge
	IntegrityDrift   *prometheus.GaugeVec
	IntegritySkipped prometheus.Gauge

	ValidationProblems prometheus.Gauge
}

// NewRun registers every run metric on a fresh registry.
func NewRun() *Run {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Run{
		Registry: reg,

		ExitCode: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "exit_code",
			Help:      "Exit status of the last run (0 ok, 2 verification failures)",
		}),
		LastRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run started",
		}),
		PhaseDuration: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Wall-clock duration of each phase of the last run",
		}, []string{"phase"}),

		Probes: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "smoke",
			Name:      "probes",
			Help:      "Number of endpoint probes by result",
		}, []string{"result"}),
		ProbeLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "smoke",
			Name:      "probe_duration_seconds",
			Help:      "Endpoint probe latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"group"}),
		Parameterized: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "smoke",
			Name:      "parameterized_endpoints",
			Help:      "Number of endpoints built from discovered samples",
		}),

		IntegrityTokens: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "integrity",
			Name:      "tokens",
			Help:      "Number of tokens listed for the audit",
		}),
		IntegrityChecked: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "integrity",
			Name:      "checked_tokens",
			Help:      "Number of tokens whose integrity report was judged",
		}),
		IntegrityDrift: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "integrity",
			Name:      "drift_tokens",
			Help:      "Number of drifted tokens by source",
		}, []string{"source"}),
		IntegritySkipped: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "integrity",
			Name:      "skipped_tokens",
			Help:      "Number of tokens skipped because the indexer reported an error",
		}),

		ValidationProblems: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "validate",
			Name:      "problems",
			Help:      "Number of field validation problems",
		}),
	}
}

// Observe sets every metric from r.
func (m *Run) Observe(r *report.RunReport) {
	m.ExitCode.Set(float64(r.ExitCode()))
	m.LastRun.Set(float64(r.Started.Unix()))

	if s := r.Smoke; s != nil {
		passed := s.Passed()
		m.Probes.WithLabelValues("passed").Set(float64(passed))
		m.Probes.WithLabelValues("failed").Set(float64(len(s.Outcomes) - passed))
		m.Parameterized.Set(float64(s.Parameterized))
		m.PhaseDuration.WithLabelValues("smoke").Set(s.Elapsed.Seconds())
		for _, o := range s.Outcomes {
			m.ProbeLatency.WithLabelValues(o.Group).Observe(o.Duration.Seconds())
		}
	}

	if i := r.Integrity; i != nil {
		m.IntegrityTokens.Set(float64(i.Tokens))
		m.IntegrityChecked.Set(float64(i.Checked))
		m.IntegritySkipped.Set(float64(len(i.Skipped)))
		bySource := map[string]int{audit.SourceIndexer: 0, audit.SourceRecomputed: 0}
		for _, d := range i.Drift {
			bySource[d.Source]++
		}
		for source, n := range bySource {
			m.IntegrityDrift.WithLabelValues(source).Set(float64(n))
		}
		m.PhaseDuration.WithLabelValues("integrity").Set(i.Elapsed.Seconds())
	}

	if v := r.Validation; v != nil {
		m.ValidationProblems.Set(float64(len(v.Problems)))
		m.PhaseDuration.WithLabelValues("validate").Set(v.Elapsed.Seconds())
	}
}

// Push observes r and pushes the result to the gateway at url, grouped by
// command. A nil client uses a 10 second timeout.
func Push(ctx context.Context, client *http.Client, url, job string, r *report.RunReport) error {
	if job == "" {
		job = DefaultJob
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	m := NewRun()
	m.Observe(r)

	err := push.New(url, job).
		Client(client).
		Gatherer(m.Registry).
		Grouping("command", r.Command).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
