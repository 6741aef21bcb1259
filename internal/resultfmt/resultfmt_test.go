package resultfmt_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pso/internal/engine"
	"pso/internal/resultfmt"
)

func TestNewFormatterDefaultsToHuman(t *testing.T) {
	f, err := resultfmt.NewFormatter("")
	require.NoError(t, err)

	out, err := f.FormatResult(&engine.Result{Vars: []string{"?s"}, Rows: [][]string{{"a"}}})
	require.NoError(t, err)
	assert.Contains(t, out, "?s")
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "(1 rows)")
}

func TestNewFormatterRejectsUnknownName(t *testing.T) {
	_, err := resultfmt.NewFormatter("xml")
	require.Error(t, err)
}

func TestHumanFormatterReportsInsertedCount(t *testing.T) {
	f, err := resultfmt.NewFormatter("human")
	require.NoError(t, err)

	out, err := f.FormatResult(&engine.Result{Inserted: 3})
	require.NoError(t, err)
	assert.Equal(t, "inserted 3 triples\n", out)
}

func TestHumanFormatterAlignsColumns(t *testing.T) {
	f, err := resultfmt.NewFormatter("human")
	require.NoError(t, err)

	out, err := f.FormatResult(&engine.Result{
		Vars: []string{"?s", "?o"},
		Rows: [][]string{{"a", "looooong"}, {"bb", "o"}},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4) // header + 2 rows + footer
	assert.Equal(t, len(lines[0]), len(lines[1]))
	assert.Equal(t, len(lines[0]), len(lines[2]))
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	f, err := resultfmt.NewFormatter("json")
	require.NoError(t, err)

	out, err := f.FormatResult(&engine.Result{
		Vars:     []string{"?s"},
		Rows:     [][]string{{"a"}, {"b"}},
		Distinct: true,
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []interface{}{"?s"}, decoded["vars"])
	assert.EqualValues(t, 2, decoded["count"])
	assert.Equal(t, true, decoded["distinct"])
}

func TestJSONFormatterHandlesInsert(t *testing.T) {
	f, err := resultfmt.NewFormatter("JSON")
	require.NoError(t, err)

	out, err := f.FormatResult(&engine.Result{Inserted: 5})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.EqualValues(t, 5, decoded["inserted"])
}
