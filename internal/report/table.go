package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTable writes one row per check followed by a summary line.
func RenderTable(w io.Writer, r *RunReport) error {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Phase", "Check", "Result", "Detail"})
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)
	t.SetBorder(false)

	for _, row := range Rows(r) {
		t.Append(row)
	}
	t.Render()

	_, err := fmt.Fprintf(w, "%d failed in %s\n", len(r.Failures()), seconds(r.Elapsed))
	return err
}

// Rows flattens a report into phase, check, result and detail columns.
func Rows(r *RunReport) [][]string {
	var rows [][]string
	if s := r.Smoke; s != nil {
		switch {
		case s.Status != nil:
			rows = append(rows, []string{"smoke", "/api/v1/status", "ok", "height " + s.Status.Height})
		case s.StatusError != "":
			rows = append(rows, []string{"smoke", "/api/v1/status", "fail", s.StatusError})
		}
		for _, o := range s.Outcomes {
			rows = append(rows, []string{"smoke", o.Path, result(o.Passed), o.Detail})
		}
	}
	if i := r.Integrity; i != nil {
		for _, d := range i.Drift {
			rows = append(rows, []string{"integrity", d.Ticker, "drift", d.Source})
		}
		for _, s := range i.Skipped {
			rows = append(rows, []string{"integrity", s.Ticker, "skip", s.Reason})
		}
		for _, f := range i.Result.Failures {
			rows = append(rows, []string{"integrity", "", "fail", f})
		}
		if len(i.Drift) == 0 && len(i.Result.Failures) == 0 {
			rows = append(rows, []string{"integrity", fmt.Sprintf("%d tokens", i.Tokens), "ok", fmt.Sprintf("%d checked", i.Checked)})
		}
	}
	if v := r.Validation; v != nil {
		for _, p := range v.Problems {
			rows = append(rows, []string{"validate", "", "fail", p})
		}
		if len(v.Problems) == 0 {
			rows = append(rows, []string{"validate", fmt.Sprintf("%d tokens", v.Tokens), "ok", ""})
		}
	}
	return rows
}

func result(passed bool) string {
	if passed {
		return "ok"
	}
	return "fail"
}
