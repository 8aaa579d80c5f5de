package validate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatoshilabs/zord/internal/indexer"
)

func listing(t *testing.T, doc string) []indexer.TokenSummary {
	t.Helper()
	var p indexer.TokenPage
	require.NoError(t, json.Unmarshal([]byte(doc), &p))
	return p.Items
}

func TestTokensWellFormed(t *testing.T) {
	items := listing(t, `{"items":[{"ticker":"zatz","supply":1000,"max":21000,"progress":0.047}]}`)
	assert.Empty(t, Tokens(items))
}

func TestTokensAcceptsStringAmountsAndBounds(t *testing.T) {
	items := listing(t, `{"items":[
		{"ticker":"a","supply":"0","max":"1","progress":0},
		{"ticker":"b","supply":"1","max":"1","progress":1.0},
		{"ticker":"c","supply":"1","max":"2","progress":"0.5"}
	]}`)
	assert.Empty(t, Tokens(items))
}

func TestTokensFlagsEveryViolation(t *testing.T) {
	items := listing(t, `{"items":[
		{"ticker":"over","supply":"1","max":"1","progress":1.5},
		{"ticker":"under","supply":"1","max":"1","progress":-0.1},
		{"ticker":"nomax","supply":"1","progress":0.1},
		{"ticker":"nullsupply","supply":null,"max":"1","progress":0.1},
		{"supply":"1","max":"1","progress":0.2},
		{"ticker":"noprogress","supply":"1","max":"1"},
		{"ticker":"textprogress","supply":"1","max":"1","progress":"half"}
	]}`)

	assert.Equal(t, []string{
		"over: invalid progress 1.5",
		"under: invalid progress -0.1",
		"nomax: missing supply/max fields",
		"nullsupply: missing supply/max fields",
		"Missing ticker in token entry",
		"noprogress: invalid progress missing",
		"textprogress: invalid progress half",
	}, Tokens(items))
}

func TestTokensUnknownTickerCollectsAllProblems(t *testing.T) {
	items := listing(t, `{"items":[{"progress":7}]}`)
	assert.Equal(t, []string{
		"Missing ticker in token entry",
		"unknown: missing supply/max fields",
		"unknown: invalid progress 7",
	}, Tokens(items))
}

func TestTickErrorMember(t *testing.T) {
	var d indexer.TokenDetail
	require.NoError(t, json.Unmarshal([]byte(`{"error":"not found"}`), &d))

	err := Tick("zatz", &d)
	require.Error(t, err)
	assert.True(t, indexer.IsSemantic(err))
	assert.Contains(t, err.Error(), "not found")
	assert.Equal(t, "Token zatz not found: not found", indexer.SemanticMessage(err))
}

func TestTickNullErrorStillFails(t *testing.T) {
	var d indexer.TokenDetail
	require.NoError(t, json.Unmarshal([]byte(`{"error":null,"max":"1","lim":"1","dec":0,"supply":"1"}`), &d))
	require.Error(t, Tick("zatz", &d))
}

func TestTickMissingFields(t *testing.T) {
	var d indexer.TokenDetail
	require.NoError(t, json.Unmarshal([]byte(`{"max":"21000","supply":"1000"}`), &d))

	err := Tick("zatz", &d)
	require.Error(t, err)
	assert.Equal(t, "Token zatz missing fields: lim, dec", indexer.SemanticMessage(err))
}

func TestTickComplete(t *testing.T) {
	var d indexer.TokenDetail
	require.NoError(t, json.Unmarshal([]byte(`{"max":"21000","lim":"100","dec":8,"supply":"1000"}`), &d))
	assert.NoError(t, Tick("zatz", &d))
}

func TestBalance(t *testing.T) {
	var b indexer.Balance
	require.NoError(t, json.Unmarshal([]byte(`{"tick":"zatz","address":"t1a","available":"1","overall":"2"}`), &b))
	assert.NoError(t, Balance("zatz", "t1a", &b))

	var bad indexer.Balance
	require.NoError(t, json.Unmarshal([]byte(`{"error":"invalid address"}`), &bad))
	err := Balance("zatz", "nope", &bad)
	require.Error(t, err)
	assert.Equal(t, "Balance query error: invalid address", indexer.SemanticMessage(err))

	var partial indexer.Balance
	require.NoError(t, json.Unmarshal([]byte(`{"tick":"zatz","address":"t1a"}`), &partial))
	err = Balance("zatz", "t1a", &partial)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing fields: available, overall")
}
