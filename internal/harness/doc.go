// Package harness runs the verification phases against one indexer and
// merges their results into a report.RunReport.
//
// # Phases
//
//   - smoke: status preflight, sample discovery, registry build, probes
//   - integrity: per-token integrity audit over the full listing
//   - validate: structural checks of listing, detail and balance records
//
// Phases run in the order given and never share mutable state; each
// returns its own result, which Run attaches to the report.
//
// # Errors
//
// A phase whose required first call fails (the token listing for the
// audit; status or listing for validation) aborts the run with a
// *SetupError. Everything else is recorded in the report. Cancelling the
// context stops the run and returns the partial report with ctx.Err().
//
// # Deterministic Testing
//
// WithClock and WithRunID inject the wall clock and run id so rendered
// reports are byte-identical across runs:
//
//	h := harness.New(api, opts,
//	    harness.WithClock(testutil.NewStepClock(start, time.Second).Now),
//	    harness.WithRunID(testutil.NewFixedRunID("")),
//	)
package harness
