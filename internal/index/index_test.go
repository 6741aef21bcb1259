package index

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pso/internal/core"
)

func TestInsertAndPairs(t *testing.T) {
	idx := New()
	idx.Insert(1, 10, 20)
	idx.Insert(1, 10, 21)
	idx.Insert(1, 11, 20)

	pairs := idx.Pairs(1).Pairs()
	assert.Len(t, pairs, 3)
}

func TestDuplicatePairsArePermitted(t *testing.T) {
	idx := New()
	idx.Insert(1, 10, 20)
	idx.Insert(1, 10, 20)

	assert.Equal(t, 2, idx.Pairs(1).Len())
}

func TestPairsForUnloadedPredicateIsEmpty(t *testing.T) {
	idx := New()
	assert.Equal(t, 0, idx.Pairs(99).Len())
	assert.False(t, idx.Loaded(99))
}

func TestReversePairs(t *testing.T) {
	idx := New()
	idx.Insert(1, 10, 20)
	idx.Insert(1, 11, 20)

	rev := idx.ReversePairs(1)
	subjects := make(map[core.ID]bool)
	for _, p := range rev.EqualRangeS(20) {
		subjects[p.O] = true
	}
	assert.True(t, subjects[10])
	assert.True(t, subjects[11])
}

func TestSubjectsWithAndObjectsWith(t *testing.T) {
	idx := New()
	idx.Insert(1, 10, 20)
	idx.Insert(1, 11, 20)
	idx.Insert(1, 10, 21)

	subs := idx.SubjectsWith(1, 20)
	assert.Len(t, subs, 2)
	assert.Contains(t, subs, core.ID(10))
	assert.Contains(t, subs, core.ID(11))

	objs := idx.ObjectsWith(10, 1)
	assert.Len(t, objs, 2)
	assert.Contains(t, objs, core.ID(20))
	assert.Contains(t, objs, core.ID(21))
}

func TestSetBucketReplacesExisting(t *testing.T) {
	idx := New()
	idx.Insert(1, 10, 20)

	b := NewBucket(1)
	b.Insert(30, 40)
	idx.SetBucket(1, b)

	pairs := idx.Pairs(1).Pairs()
	assert.Equal(t, []Pair{{S: 30, O: 40}}, pairs)
}
