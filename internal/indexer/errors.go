package indexer

import (
	"errors"
	"fmt"
)

// SemanticError reports a well-formed response that the indexer itself
// flagged with an "error" member, or that failed a structural assertion.
type SemanticError struct {
	Path    string
	Message string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s -> error: %s", e.Path, e.Message)
}

// IsSemantic returns true if err is (or wraps) a SemanticError.
func IsSemantic(err error) bool {
	var se *SemanticError
	return errors.As(err, &se)
}

// SemanticMessage returns the indexer's message when err is a
// SemanticError, or err.Error() otherwise.
func SemanticMessage(err error) string {
	var se *SemanticError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}
