package engine_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pso/internal/engine"
	"pso/internal/store"
)

func newTestDB(t *testing.T, lines string) *store.Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triples.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	db, err := store.Create("e2e", path, store.Options{Root: t.TempDir()})
	require.NoError(t, err)
	return db
}

func TestRunTwoHopJoin(t *testing.T) {
	db := newTestDB(t, "<a> p b .\nb q c .\nb q d .\n")
	e := engine.New(db, nil)

	res, err := e.Run("SELECT ?y ?z WHERE { <a> p ?y . ?y q ?z . }")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	got := map[string]bool{}
	for _, r := range res.Rows {
		assert.Equal(t, "b", r[0])
		got[r[1]] = true
	}
	assert.True(t, got["c"])
	assert.True(t, got["d"])
}

func TestRunFilterWithGroundObject(t *testing.T) {
	db := newTestDB(t, "a p <x> .\nb p <x> .\nc p <y> .\n")
	e := engine.New(db, nil)

	res, err := e.Run("SELECT ?s WHERE { ?s p <x> . }")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	seen := map[string]bool{}
	for _, r := range res.Rows {
		seen[r[0]] = true
	}
	assert.True(t, seen["a"])
	assert.True(t, seen["b"])
	assert.False(t, seen["c"])
}

func TestRunFilterSOPath(t *testing.T) {
	db := newTestDB(t, "a p b .\na q b .\na q c .\n")
	e := engine.New(db, nil)

	res, err := e.Run("SELECT ?s ?o WHERE { ?s p ?o . ?s q ?o . }")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []string{"a", "b"}, res.Rows[0])
}

func TestRunDistinctDedupes(t *testing.T) {
	db := newTestDB(t, "a p b .\nc p b .\n")
	e := engine.New(db, nil)

	res, err := e.Run("SELECT DISTINCT ?o WHERE { ?s p ?o . }")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "b", res.Rows[0][0])
}

func TestRunInsertDataReturnsAffectedCount(t *testing.T) {
	db := newTestDB(t, "a p b .\n")
	e := engine.New(db, nil)

	res, err := e.Run("INSERT DATA { c q d . c q e . }")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.EqualValues(t, 3, db.TripleCount())
}

func TestRunUnknownTermReturnsEmptyResultNotError(t *testing.T) {
	db := newTestDB(t, "a p b .\n")
	e := engine.New(db, nil)

	res, err := e.Run("SELECT ?s WHERE { ?s ghost <x> . }")
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestLastQueryTimeIsRecorded(t *testing.T) {
	db := newTestDB(t, "a p b .\n")
	e := engine.New(db, nil)

	_, err := e.Run("SELECT ?s WHERE { ?s p ?o . }")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, e.LastQueryTime(), time.Duration(0))
}
