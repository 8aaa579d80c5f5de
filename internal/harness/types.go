package harness

import (
	"fmt"
	"time"

	"github.com/zatoshilabs/zord/internal/audit"
	"github.com/zatoshilabs/zord/internal/discovery"
)

// Phase names one verification phase.
type Phase string

const (
	PhaseSmoke     Phase = "smoke"
	PhaseIntegrity Phase = "integrity"
	PhaseValidate  Phase = "validate"
)

// AllPhases is the order used by the check command.
var AllPhases = []Phase{PhaseSmoke, PhaseIntegrity, PhaseValidate}

// Options configures every phase of a run.
type Options struct {
	// Command is recorded in the report.
	Command string

	// Smoke
	TokenLimit      int
	InscriptionScan int

	// Integrity
	IntegrityLimit int
	CrossCheck     bool

	// Validate
	ValidateLimit int
	Tick          string
	Address       string

	// Concurrency bounds probes and per-token audits.
	Concurrency int
}

// DefaultOptions mirrors the sequential reference behavior.
func DefaultOptions() Options {
	return Options{
		TokenLimit:      discovery.DefaultLimits().Tokens,
		InscriptionScan: discovery.DefaultLimits().TransferScan,
		IntegrityLimit:  audit.DefaultOptions().Limit,
		ValidateLimit:   200,
		Concurrency:     1,
	}
}

// SetupError is returned when a phase cannot start because its required
// first fetch failed.
type SetupError struct {
	Phase Phase
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}

// Clock returns the current wall time.
type Clock func() time.Time
