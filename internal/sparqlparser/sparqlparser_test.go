package sparqlparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pso/internal/core"
	"pso/internal/query"
)

func TestParseSelectBasic(t *testing.T) {
	q, err := Parse("select ?x ?p where { ?x ?p <A>. }")
	require.NoError(t, err)

	assert.False(t, q.Distinct)
	assert.Equal(t, []string{"?x", "?p"}, q.Vars)
	require.Len(t, q.Patterns, 1)
	assert.Equal(t, query.Pattern{
		S: query.Term{Text: "?x", IsVar: true},
		P: query.Term{Text: "?p", IsVar: true},
		O: query.Term{Text: "<A>"},
	}, q.Patterns[0])
}

func TestParseSelectDistinct(t *testing.T) {
	q, err := Parse("SELECT DISTINCT ?s WHERE { ?s :likes <B> . }")
	require.NoError(t, err)
	assert.True(t, q.Distinct)
	assert.Equal(t, []string{"?s"}, q.Vars)
	assert.Equal(t, []string{":likes"}, q.Predicates)
}

func TestParseInsertData(t *testing.T) {
	q, err := Parse("INSERT DATA { A :likes B . A :likes C . B :follows D . D :follows E . }")
	require.NoError(t, err)

	require.Len(t, q.InsertTriples, 4)
	assert.Equal(t, []core.RawTriple{
		{S: "A", P: ":likes", O: "B"},
		{S: "A", P: ":likes", O: "C"},
		{S: "B", P: ":follows", O: "D"},
		{S: "D", P: ":follows", O: "E"},
	}, q.InsertTriples)
	assert.True(t, q.IsInsert())
}

func TestParseAllowsMissingTrailingDot(t *testing.T) {
	q, err := Parse("SELECT ?s WHERE { ?s p <x> }")
	require.NoError(t, err)
	require.Len(t, q.Patterns, 1)
}

func TestParseUnrecognisedFormFails(t *testing.T) {
	_, err := Parse("DESCRIBE <A>")
	require.Error(t, err)
	assert.IsType(t, &core.ParseError{}, err)
}

func TestPredicatesPreserveDuplicatesAndOrder(t *testing.T) {
	q, err := Parse("SELECT ?s WHERE { ?s p <x> . ?s q <y> . ?s p <z> . }")
	require.NoError(t, err)
	assert.Equal(t, []string{"p", "q", "p"}, q.Predicates)
}
