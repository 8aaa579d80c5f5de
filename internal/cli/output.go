package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zatoshilabs/zord/internal/report"
)

// Error codes carried by JSON error envelopes.
const (
	ErrCodeConfig      = "E001"
	ErrCodeSetup       = "E002"
	ErrCodeInterrupted = "E003"
)

// Envelope wraps every JSON document zordcheck writes to stdout.
type Envelope struct {
	Status  string         `json:"status"` // "ok", "failed" or "error"
	Data    any            `json:"data,omitempty"`
	Error   *EnvelopeError `json:"error,omitempty"`
	TraceID string         `json:"trace_id,omitempty"` // run id
}

// EnvelopeError describes why a run produced no report.
type EnvelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OutputFormatter writes run reports to Writer. Text diagnostics go to
// ErrWriter so stdout holds nothing but the report.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// Report renders r in the configured format.
func (f *OutputFormatter) Report(r *report.RunReport) error {
	switch f.Format {
	case "json":
		status := "ok"
		if r.ExitCode() != report.ExitOK {
			status = "failed"
		}
		return f.encode(Envelope{Status: status, Data: r, TraceID: r.RunID})
	case "table":
		return report.RenderTable(f.Writer, r)
	default:
		return report.RenderText(f.Writer, r)
	}
}

// Error reports a run that could not complete.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return f.encode(Envelope{
			Status: "error",
			Error:  &EnvelopeError{Code: code, Message: message, Details: details},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "ERROR: %s\n", message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// Partial reports a run aborted by a setup error after some phases
// finished. JSON output is a single error envelope carrying the partial
// report as details; other formats print the report, then the error.
func (f *OutputFormatter) Partial(r *report.RunReport, code, message string) error {
	if f.Format == "json" {
		return f.encode(Envelope{
			Status:  "error",
			Error:   &EnvelopeError{Code: code, Message: message, Details: r},
			TraceID: r.RunID,
		})
	}
	if err := f.Report(r); err != nil {
		return err
	}
	return f.Error(code, message, nil)
}

// Interrupted reports a cancelled run.
func (f *OutputFormatter) Interrupted() error {
	if f.Format == "json" {
		return f.Error(ErrCodeInterrupted, "interrupted", nil)
	}
	_, err := fmt.Fprintln(f.GetErrWriter(), "Interrupted")
	return err
}

// GetErrWriter returns ErrWriter, or Writer when unset.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

func (f *OutputFormatter) encode(v Envelope) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
