package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/zatoshilabs/zord/internal/report"
)

// AssertGolden renders r as the text report and compares it against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Reports compared this way must come from a harness built WithClock and
// WithRunID, otherwise elapsed times differ on every run.
func AssertGolden(t *testing.T, name string, r *report.RunReport) {
	t.Helper()

	var buf bytes.Buffer
	if err := report.RenderText(&buf, r); err != nil {
		t.Fatalf("render report: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
}
