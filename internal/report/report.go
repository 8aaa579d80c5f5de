// Package report aggregates the results of every harness phase into one
// run report and renders it as text, JSON or a table.
//
// Each phase hands over its own immutable result; the report only merges
// them. The exit status is derived, never stored.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/zatoshilabs/zord/internal/audit"
	"github.com/zatoshilabs/zord/internal/discovery"
	"github.com/zatoshilabs/zord/internal/probe"
	"github.com/zatoshilabs/zord/internal/validate"
)

// Exit statuses derived from a report.
const (
	ExitOK     = 0
	ExitFailed = 2
)

// StatusSummary is the status preflight read before probing.
type StatusSummary struct {
	Height string `json:"height"`
	Tokens string `json:"tokens"`
	Names  string `json:"names"`
}

// Smoke is the result of the discovery and probe phase.
type Smoke struct {
	Status        *StatusSummary   `json:"status,omitempty"`
	StatusError   string           `json:"status_error,omitempty"`
	Discovery     []discovery.Step `json:"discovery"`
	Parameterized int              `json:"parameterized"`
	Outcomes      []probe.Outcome  `json:"outcomes"`
	Elapsed       time.Duration    `json:"elapsed_ns"`
}

// Passed counts passing probes.
func (s *Smoke) Passed() int {
	return probe.Passed(s.Outcomes)
}

// Failures lists the failed preflight and every failed probe.
func (s *Smoke) Failures() []string {
	var out []string
	if s.StatusError != "" {
		out = append(out, "/api/v1/status -> "+s.StatusError)
	}
	for _, o := range s.Outcomes {
		if !o.Passed {
			out = append(out, o.Failure())
		}
	}
	return out
}

// Integrity is the result of the integrity audit phase.
type Integrity struct {
	*audit.Result
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Failures lists drifted tokens and failed per-token fetches.
func (i *Integrity) Failures() []string {
	var out []string
	for _, d := range i.Drift {
		out = append(out, "integrity drift: "+d.Ticker+" ("+d.Source+")")
	}
	out = append(out, i.Result.Failures...)
	return out
}

// Validation is the result of the field validation phase.
type Validation struct {
	*validate.Result
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Failures lists every validation problem.
func (v *Validation) Failures() []string {
	return append([]string(nil), v.Problems...)
}

// RunReport is the aggregate of one invocation. Phases that did not run
// are nil.
type RunReport struct {
	RunID   string        `json:"run_id"`
	Command string        `json:"command"`
	BaseURL string        `json:"base_url"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed_ns"`

	Smoke      *Smoke      `json:"smoke,omitempty"`
	Integrity  *Integrity  `json:"integrity,omitempty"`
	Validation *Validation `json:"validation,omitempty"`
}

// Phases returns how many phases ran.
func (r *RunReport) Phases() int {
	n := 0
	if r.Smoke != nil {
		n++
	}
	if r.Integrity != nil {
		n++
	}
	if r.Validation != nil {
		n++
	}
	return n
}

// Failures lists every failure across phases, in phase order.
func (r *RunReport) Failures() []string {
	var out []string
	if r.Smoke != nil {
		out = append(out, r.Smoke.Failures()...)
	}
	if r.Integrity != nil {
		out = append(out, r.Integrity.Failures()...)
	}
	if r.Validation != nil {
		out = append(out, r.Validation.Failures()...)
	}
	return out
}

// ExitCode is ExitOK when no phase failed and ExitFailed otherwise.
func (r *RunReport) ExitCode() int {
	if len(r.Failures()) > 0 {
		return ExitFailed
	}
	return ExitOK
}

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r *RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
