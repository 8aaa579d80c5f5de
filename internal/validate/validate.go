// Package validate asserts structural constraints on token listing, token
// detail and balance records.
//
// The checks are pure functions over decoded records so they can be
// exercised without a server; Validator wires them to the indexer.
package validate

import (
	"fmt"
	"strings"

	"github.com/zatoshilabs/zord/internal/indexer"
)

// Tokens checks every listing entry and returns one problem per
// violation. It never stops at the first bad record.
func Tokens(items []indexer.TokenSummary) []string {
	var problems []string
	for _, t := range items {
		tick := t.Tick()
		label := tick
		if label == "" {
			label = "unknown"
			problems = append(problems, "Missing ticker in token entry")
		}
		if !t.Supply.Valid() || !t.Max.Valid() {
			problems = append(problems, label+": missing supply/max fields")
		}
		if !progressInRange(t.Progress) {
			problems = append(problems, fmt.Sprintf("%s: invalid progress %s", label, t.Progress.String()))
		}
	}
	return problems
}

func progressInRange(f indexer.Field) bool {
	p, ok := f.Float()
	return ok && p >= 0.0 && p <= 1.0
}

// Tick checks a token detail document. The presence of an error member,
// even a null or empty one, fails the check.
func Tick(tick string, d *indexer.TokenDetail) error {
	if d.Error.Present() {
		return &indexer.SemanticError{
			Path:    indexer.TokenLegacyPath(tick),
			Message: fmt.Sprintf("Token %s not found: %s", tick, d.Error.String()),
		}
	}
	if missing := d.Missing(); len(missing) > 0 {
		return &indexer.SemanticError{
			Path:    indexer.TokenLegacyPath(tick),
			Message: fmt.Sprintf("Token %s missing fields: %s", tick, strings.Join(missing, ", ")),
		}
	}
	return nil
}

// Balance checks a balance document.
func Balance(tick, address string, b *indexer.Balance) error {
	if b.Error.Present() {
		return &indexer.SemanticError{
			Path:    indexer.BalancePath(tick, address),
			Message: "Balance query error: " + b.Error.String(),
		}
	}
	if missing := b.Missing(); len(missing) > 0 {
		return &indexer.SemanticError{
			Path:    indexer.BalancePath(tick, address),
			Message: fmt.Sprintf("Balance %s/%s missing fields: %s", tick, address, strings.Join(missing, ", ")),
		}
	}
	return nil
}
