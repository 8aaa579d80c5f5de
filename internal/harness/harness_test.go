package harness

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatoshilabs/zord/internal/fakeindexer"
	"github.com/zatoshilabs/zord/internal/fetch"
	"github.com/zatoshilabs/zord/internal/indexer"
	"github.com/zatoshilabs/zord/internal/report"
	"github.com/zatoshilabs/zord/internal/testutil"
)

func newHarness(t *testing.T, f *fakeindexer.Fixture, opts Options) *Harness {
	t.Helper()
	srv := httptest.NewServer(fakeindexer.New(f))
	t.Cleanup(srv.Close)

	return New(indexer.NewAPI(fetch.New(srv.URL)), opts,
		WithClock(testutil.NewStepClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), 100*time.Millisecond).Now),
		WithRunID(testutil.NewFixedRunID("")),
	)
}

func TestRun_IntegrityAndValidateGolden(t *testing.T) {
	opts := DefaultOptions()
	opts.Command = "check"
	opts.Tick = "zatz"
	opts.Address = "t1alice"

	r, err := newHarness(t, fakeindexer.Default(), opts).Run(context.Background(), PhaseIntegrity, PhaseValidate)
	require.NoError(t, err)

	assert.Equal(t, "test-run-default", r.RunID)
	assert.Equal(t, 500*time.Millisecond, r.Elapsed)
	assert.Equal(t, report.ExitOK, r.ExitCode())
	AssertGolden(t, "integrity_validate_clean", r)
}

func TestRun_SmokeAgainstHealthyIndexer(t *testing.T) {
	opts := DefaultOptions()
	opts.Command = "smoke"
	opts.Concurrency = 4

	r, err := newHarness(t, fakeindexer.Default(), opts).Run(context.Background(), PhaseSmoke)
	require.NoError(t, err)
	require.NotNil(t, r.Smoke)

	assert.Empty(t, r.Failures())
	assert.Equal(t, report.ExitOK, r.ExitCode())
	require.NotNil(t, r.Smoke.Status)
	assert.Equal(t, "3021337", r.Smoke.Status.Height)
	assert.Positive(t, r.Smoke.Parameterized)
	assert.Equal(t, len(r.Smoke.Outcomes), r.Smoke.Passed())
	assert.Equal(t, 100*time.Millisecond, r.Smoke.Elapsed)
	assert.NotEmpty(t, r.Smoke.Discovery)
	assert.Nil(t, r.Integrity)
	assert.Nil(t, r.Validation)
}

func TestRun_SmokeWithEmptyIndexer(t *testing.T) {
	opts := DefaultOptions()
	opts.Command = "smoke"

	f := &fakeindexer.Fixture{Overrides: map[string]fakeindexer.Response{
		"/block/height": {Status: http.StatusNotFound},
	}}

	r, err := newHarness(t, f, opts).Run(context.Background(), PhaseSmoke)
	require.NoError(t, err)

	assert.Zero(t, r.Smoke.Parameterized)
	assert.NotEmpty(t, r.Smoke.Outcomes)
	for _, o := range r.Smoke.Outcomes {
		assert.NotContains(t, o.Path, "/api/v1/zrc20/token/")
	}
}

func TestRun_StatusPreflightFailureIsRecorded(t *testing.T) {
	f := fakeindexer.Default()
	f.Overrides = map[string]fakeindexer.Response{
		"/api/v1/status": {Status: http.StatusServiceUnavailable},
	}
	opts := DefaultOptions()
	opts.Command = "smoke"

	r, err := newHarness(t, f, opts).Run(context.Background(), PhaseSmoke)
	require.NoError(t, err)

	assert.Nil(t, r.Smoke.Status)
	assert.Contains(t, r.Smoke.StatusError, "HTTP 503")
	assert.Equal(t, report.ExitFailed, r.ExitCode())
	assert.Contains(t, r.Failures()[0], "/api/v1/status -> ")
}

func TestRun_IntegrityDrift(t *testing.T) {
	f := fakeindexer.Default()
	f.Tokens[0].Integrity = map[string]any{
		"ticker": "zatz", "consistent": false, "supply": "1000", "sumOverall": "900",
	}
	opts := DefaultOptions()
	opts.Command = "integrity"

	r, err := newHarness(t, f, opts).Run(context.Background(), PhaseIntegrity)
	require.NoError(t, err)

	require.Len(t, r.Integrity.Drift, 1)
	assert.Equal(t, "zatz", r.Integrity.Drift[0].Ticker)
	assert.Equal(t, report.ExitFailed, r.ExitCode())
}

func TestRun_SetupErrorKeepsEarlierPhases(t *testing.T) {
	f := fakeindexer.Default()
	f.Overrides = map[string]fakeindexer.Response{
		"/api/v1/status": {Status: http.StatusBadGateway},
	}
	opts := DefaultOptions()
	opts.Command = "check"

	r, err := newHarness(t, f, opts).Run(context.Background(), PhaseIntegrity, PhaseValidate)
	require.Error(t, err)

	var setup *SetupError
	require.True(t, errors.As(err, &setup))
	assert.Equal(t, PhaseValidate, setup.Phase)
	assert.True(t, fetch.IsHTTPStatus(err))
	require.NotNil(t, r)
	assert.NotNil(t, r.Integrity)
	assert.Nil(t, r.Validation)
}

func TestRun_IntegrityListingFailureIsSetupError(t *testing.T) {
	f := fakeindexer.Default()
	f.Overrides = map[string]fakeindexer.Response{
		"/api/v1/tokens": {Body: "not json"},
	}
	opts := DefaultOptions()
	opts.Command = "integrity"

	_, err := newHarness(t, f, opts).Run(context.Background(), PhaseIntegrity)
	var setup *SetupError
	require.True(t, errors.As(err, &setup))
	assert.Equal(t, PhaseIntegrity, setup.Phase)
	assert.True(t, fetch.IsDecode(err))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := DefaultOptions()
	opts.Command = "check"

	r, err := newHarness(t, fakeindexer.Default(), opts).Run(ctx, AllPhases...)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, r)
	assert.Nil(t, r.Integrity)
}

func TestRun_UnknownPhase(t *testing.T) {
	_, err := newHarness(t, fakeindexer.Default(), DefaultOptions()).Run(context.Background(), Phase("bogus"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}
