package dictionary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pso/internal/core"
)

func TestInternAssignsStableIDs(t *testing.T) {
	d := New()

	id1 := d.Intern("alice")
	id2 := d.Intern("bob")
	id3 := d.Intern("alice")

	assert.Equal(t, id1, id3)
	assert.NotEqual(t, id1, id2)
	assert.EqualValues(t, 2, d.Size())
}

func TestInternIncrementsCount(t *testing.T) {
	d := New()

	d.Intern("alice")
	d.Intern("alice")
	d.Intern("alice")

	id, err := d.IDOf("entity", "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 3, d.CountOf(id))
}

func TestIDOfAndStringOfAreInverse(t *testing.T) {
	d := New()
	id := d.Intern("likes")

	got, err := d.IDOf("predicate", "likes")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	str, err := d.StringOf("predicate", id)
	require.NoError(t, err)
	assert.Equal(t, "likes", str)
}

func TestIDOfUnknownFails(t *testing.T) {
	d := New()
	_, err := d.IDOf("entity", "nobody")
	require.Error(t, err)
	assert.IsType(t, &core.NotFoundError{}, err)
}

func TestStringOfReservedZeroFails(t *testing.T) {
	d := New()
	_, err := d.StringOf("entity", core.NoID)
	require.Error(t, err)
}

func TestEntriesAndLoadFromEntriesRoundTrip(t *testing.T) {
	d := New()
	d.Intern("a")
	d.Intern("b")
	d.Intern("a")

	entries := d.Entries()
	require.Len(t, entries, 2)

	reloaded := LoadFromEntries(entries)
	assert.Equal(t, d.Size(), reloaded.Size())

	for _, e := range entries {
		id, err := reloaded.IDOf("x", e.Term)
		require.NoError(t, err)
		assert.Equal(t, e.ID, id)
		assert.Equal(t, e.Count, reloaded.CountOf(id))
	}
}

func TestStatisticsVectorIncludesReservedZero(t *testing.T) {
	d := New()
	d.Intern("a")

	stats := d.Statistics()
	require.Len(t, stats, 2)
	assert.EqualValues(t, 0, stats[0])
	assert.EqualValues(t, 1, stats[1])
}
