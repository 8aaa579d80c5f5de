package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// RenderText writes the line-oriented human report. A single-phase report
// prints exactly that phase; a multi-phase report prefixes each phase with
// a header and ends with a combined summary.
func RenderText(w io.Writer, r *RunReport) error {
	var b strings.Builder
	multi := r.Phases() > 1

	if r.Smoke != nil {
		if multi {
			b.WriteString("== smoke ==\n")
		}
		writeSmoke(&b, r.Smoke)
	}
	if r.Integrity != nil {
		if multi {
			b.WriteString("== integrity ==\n")
		}
		writeIntegrity(&b, r.Integrity)
	}
	if r.Validation != nil {
		if multi {
			b.WriteString("== validate ==\n")
		}
		writeValidation(&b, r.Validation)
	}
	if multi {
		failures := r.Failures()
		fmt.Fprintf(&b, "===\nTotal: %d phases, %d failed in %s\n", r.Phases(), len(failures), seconds(r.Elapsed))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSmoke(b *strings.Builder, s *Smoke) {
	if s.Status != nil {
		fmt.Fprintf(b, "✓ status height=%s tokens=%s names=%s\n", s.Status.Height, s.Status.Tokens, s.Status.Names)
	} else if s.StatusError != "" {
		fmt.Fprintf(b, "✗ /api/v1/status [%s]\n", s.StatusError)
	}
	for _, o := range s.Outcomes {
		mark := "✓"
		if !o.Passed {
			mark = "✗"
		}
		fmt.Fprintf(b, "%s %s [%s]\n", mark, o.Path, o.Detail)
	}

	failures := s.Failures()
	fmt.Fprintf(b, "---\nParameterized: %d of %d endpoints\n", s.Parameterized, len(s.Outcomes))
	fmt.Fprintf(b, "Done: %d OK, %d failed in %s\n", s.Passed(), len(failures), seconds(s.Elapsed))
	for _, f := range failures {
		fmt.Fprintf(b, "FAIL: %s\n", f)
	}
}

func writeIntegrity(b *strings.Builder, i *Integrity) {
	if i.Tokens == 0 {
		b.WriteString("No tokens returned; nothing to check\n")
		return
	}
	for _, s := range i.Skipped {
		fmt.Fprintf(b, "skip %s: %s\n", s.Ticker, s.Reason)
	}
	for _, f := range i.Result.Failures {
		fmt.Fprintf(b, "FAIL: %s\n", f)
	}
	if len(i.Drift) > 0 {
		b.WriteString("Integrity drift detected:\n")
		for _, d := range i.Drift {
			if d.Recomputed != "" {
				fmt.Fprintf(b, "%s: recomputed holder sum %s does not match supply %s\n",
					d.Ticker, d.Recomputed, d.Report.Supply.String())
			}
			b.WriteString(d.Report.Indent())
			b.WriteString("\n")
		}
		return
	}
	if len(i.Result.Failures) == 0 {
		fmt.Fprintf(b, "OK: %d tokens consistent\n", i.Tokens)
	}
}

func writeValidation(b *strings.Builder, v *Validation) {
	fmt.Fprintf(b, "✓ status height %s inscriptions %s\n", v.Height, v.Inscriptions)
	if v.ListingValid {
		fmt.Fprintf(b, "✓ %d tokens returned\n", v.Tokens)
	}
	if v.TickSupply != "" {
		fmt.Fprintf(b, "✓ token/%s -> supply %s\n", v.Tick, v.TickSupply)
	}
	if bal := v.Balance; bal != nil {
		fmt.Fprintf(b, "✓ balance %s %s available %s overall %s\n", bal.Tick, bal.Address, bal.Available, bal.Overall)
	}
	for _, p := range v.Problems {
		fmt.Fprintf(b, "✗ %s\n", p)
	}
	if len(v.Problems) == 0 {
		b.WriteString("Validation complete\n")
		return
	}
	fmt.Fprintf(b, "Validation failed: %d problem(s)\n", len(v.Problems))
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
