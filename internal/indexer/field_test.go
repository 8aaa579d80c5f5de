package indexer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeField(t *testing.T, doc string) Field {
	t.Helper()
	var v struct {
		F Field `json:"f"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &v))
	return v.F
}

func TestFieldPresence(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		present bool
		valid   bool
	}{
		{"absent", `{}`, false, false},
		{"null", `{"f":null}`, true, false},
		{"string", `{"f":"x"}`, true, true},
		{"zero", `{"f":0}`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := decodeField(t, tt.doc)
			assert.Equal(t, tt.present, f.Present())
			assert.Equal(t, tt.valid, f.Valid())
		})
	}
}

func TestFieldTruthy(t *testing.T) {
	tests := []struct {
		doc  string
		want bool
	}{
		{`{}`, false},
		{`{"f":null}`, false},
		{`{"f":false}`, false},
		{`{"f":true}`, true},
		{`{"f":""}`, false},
		{`{"f":"not found"}`, true},
		{`{"f":0}`, false},
		{`{"f":0.0}`, false},
		{`{"f":3}`, true},
		{`{"f":[]}`, false},
		{`{"f":[1]}`, true},
		{`{"f":{}}`, false},
		{`{"f":{"a":1}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeField(t, tt.doc).Truthy())
		})
	}
}

func TestFieldScalarAndString(t *testing.T) {
	s, ok := decodeField(t, `{"f":"zatz"}`).Scalar()
	assert.True(t, ok)
	assert.Equal(t, "zatz", s)

	s, ok = decodeField(t, `{"f":1000}`).Scalar()
	assert.True(t, ok)
	assert.Equal(t, "1000", s)

	_, ok = decodeField(t, `{"f":{"a":1}}`).Scalar()
	assert.False(t, ok)

	assert.Equal(t, "missing", decodeField(t, `{}`).String())
	assert.Equal(t, "null", decodeField(t, `{"f":null}`).String())
	assert.Equal(t, `{"a":1}`, decodeField(t, `{"f":{"a":1}}`).String())
}

func TestFieldFloat(t *testing.T) {
	v, ok := decodeField(t, `{"f":0.047}`).Float()
	assert.True(t, ok)
	assert.InDelta(t, 0.047, v, 1e-12)

	v, ok = decodeField(t, `{"f":"0.5"}`).Float()
	assert.True(t, ok)
	assert.InDelta(t, 0.5, v, 1e-12)

	_, ok = decodeField(t, `{"f":"abc"}`).Float()
	assert.False(t, ok)

	_, ok = decodeField(t, `{"f":null}`).Float()
	assert.False(t, ok)
}

func TestFieldRatIsExact(t *testing.T) {
	r, ok := decodeField(t, `{"f":"21000000000000000000000001"}`).Rat()
	require.True(t, ok)
	assert.Equal(t, "21000000000000000000000001/1", r.String())

	r, ok = decodeField(t, `{"f":12.5}`).Rat()
	require.True(t, ok)
	assert.Equal(t, "25/2", r.String())
}

func TestErrorOf(t *testing.T) {
	f, isObject, err := ErrorOf([]byte(`{"error":"not found"}`))
	require.NoError(t, err)
	assert.True(t, isObject)
	assert.True(t, f.Truthy())
	assert.Equal(t, "not found", f.String())

	f, isObject, err = ErrorOf([]byte(`{"error":null,"ok":1}`))
	require.NoError(t, err)
	assert.True(t, isObject)
	assert.True(t, f.Present())
	assert.False(t, f.Truthy())

	_, isObject, err = ErrorOf([]byte(`[{"error":"x"}]`))
	require.NoError(t, err)
	assert.False(t, isObject)

	_, _, err = ErrorOf([]byte(`{broken`))
	require.Error(t, err)
}
