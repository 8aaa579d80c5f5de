package indexer

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
)

// Field is a single JSON member kept in its raw form.
//
// Indexer records are loosely shaped: a member may be missing, null, a
// string or a number depending on the endpoint and the indexer version.
// Field records whether the key was present at all so callers can apply
// either "key exists" or "has a value" semantics.
type Field struct {
	raw json.RawMessage
	set bool
}

// RawField builds a present Field from raw JSON text. Used by tests and by
// callers that assemble records by hand.
func RawField(raw string) Field {
	return Field{raw: json.RawMessage(raw), set: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is also invoked for a
// literal null, which is how null stays distinguishable from absence.
func (f *Field) UnmarshalJSON(b []byte) error {
	f.raw = append(f.raw[:0], b...)
	f.set = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// Present reports whether the key appeared in the document, even as null.
func (f Field) Present() bool {
	return f.set
}

// IsNull reports whether the key appeared with a null value.
func (f Field) IsNull() bool {
	return f.set && bytes.Equal(bytes.TrimSpace(f.raw), []byte("null"))
}

// Valid reports whether the key appeared with a non-null value.
func (f Field) Valid() bool {
	return f.set && !f.IsNull()
}

// Raw returns the raw JSON text, or nil when absent.
func (f Field) Raw() json.RawMessage {
	return f.raw
}

// Truthy applies loose truthiness: absent, null, false, 0, "", [] and {}
// are false; every other value is true.
func (f Field) Truthy() bool {
	if !f.Valid() {
		return false
	}
	raw := bytes.TrimSpace(f.raw)
	switch raw[0] {
	case 'f':
		return false
	case 't':
		return true
	case '"':
		var s string
		return json.Unmarshal(raw, &s) == nil && s != ""
	case '[':
		var a []json.RawMessage
		return json.Unmarshal(raw, &a) == nil && len(a) > 0
	case '{':
		var m map[string]json.RawMessage
		return json.Unmarshal(raw, &m) == nil && len(m) > 0
	default:
		n, err := strconv.ParseFloat(string(raw), 64)
		return err == nil && n != 0
	}
}

// Scalar returns a string or number value as text. Other kinds (and
// absent or null fields) yield ok=false.
func (f Field) Scalar() (string, bool) {
	if !f.Valid() {
		return "", false
	}
	raw := bytes.TrimSpace(f.raw)
	switch {
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		return string(raw), true
	}
	return "", false
}

// Text returns the scalar value, or "" when it has none.
func (f Field) Text() string {
	s, _ := f.Scalar()
	return s
}

// String renders the field for human-readable output: strings unquoted,
// other values as raw JSON, absence as "missing".
func (f Field) String() string {
	if !f.set {
		return "missing"
	}
	if s, ok := f.Scalar(); ok {
		return s
	}
	return string(bytes.TrimSpace(f.raw))
}

// Float parses a number or a numeric string.
func (f Field) Float() (float64, bool) {
	s, ok := f.Scalar()
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Rat parses a number or a numeric string exactly. Token amounts can exceed
// float64 precision, so reconciliation uses this rather than Float.
func (f Field) Rat() (*big.Rat, bool) {
	s, ok := f.Scalar()
	if !ok {
		return nil, false
	}
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, false
	}
	return r, true
}

// ErrorOf inspects a decoded body for an "error" member. isObject is false
// when the document is valid JSON but not an object, in which case no
// error member can exist.
func ErrorOf(body []byte) (errField Field, isObject bool, err error) {
	var probe struct {
		Error Field `json:"error"`
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] != '{' {
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return Field{}, false, err
		}
		return Field{}, false, nil
	}
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Field{}, false, err
	}
	return probe.Error, true, nil
}
