package testutil

// FixedRunID returns the same run id every time.
//
// Unlike runid.Sequence which returns ids in order, this generator never
// runs out, which suits tests that execute an unknown number of runs.
//
// Thread-safety: FixedRunID is stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a fixed run id generator.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed run id.
//
// Implements runid.Generator.
func (g *FixedRunID) Generate() string {
	return g.id
}
