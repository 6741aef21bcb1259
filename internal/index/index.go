// Package index implements the predicate-indexed multimap storage layer
// (§4.2): for each predicate id, every (subject-id, object-id) pair
// observed under that predicate.
package index

import "pso/internal/core"

// Pair is one (subject, object) entry under a predicate.
type Pair struct {
	S core.ID
	O core.ID
}

// Bucket is the multimap of (s, o) pairs for a single predicate. Duplicate
// pairs are permitted — the store is a multiset (§3).
type Bucket struct {
	pairs []Pair
}

// NewBucket returns an empty bucket with capacity reserved.
func NewBucket(capacity int) *Bucket {
	if capacity < 0 {
		capacity = 0
	}
	return &Bucket{pairs: make([]Pair, 0, capacity)}
}

// Insert appends (s, o) to the bucket.
func (b *Bucket) Insert(s, o core.ID) {
	b.pairs = append(b.pairs, Pair{S: s, O: o})
}

// Len returns the number of pairs in the bucket.
func (b *Bucket) Len() int { return len(b.pairs) }

// Pairs returns the bucket's pairs in insertion order. Callers must treat
// the returned slice as read-only.
func (b *Bucket) Pairs() []Pair { return b.pairs }

// EqualRangeS returns every pair whose subject equals s (used by JOIN_S and
// FILTER_SO, which need the set of objects reachable from a bound s, and by
// JOIN_O on the reversed bucket from ReversePairs).
func (b *Bucket) EqualRangeS(s core.ID) []Pair {
	var out []Pair
	for _, p := range b.pairs {
		if p.S == s {
			out = append(out, p)
		}
	}
	return out
}

// EqualRangeO returns every pair whose object equals o.
func (b *Bucket) EqualRangeO(o core.ID) []Pair {
	var out []Pair
	for _, p := range b.pairs {
		if p.O == o {
			out = append(out, p)
		}
	}
	return out
}

// Index is the predicate-keyed collection of buckets, dense over
// 1..predicate_count once fully loaded (§3 Predicate Index invariants).
type Index struct {
	buckets map[core.ID]*Bucket
}

// New returns an empty Index.
func New() *Index {
	return &Index{buckets: make(map[core.ID]*Bucket)}
}

// Insert appends (s, o) under predicate pid, creating the bucket on first
// use.
func (idx *Index) Insert(pid, s, o core.ID) {
	b, ok := idx.buckets[pid]
	if !ok {
		b = NewBucket(0)
		idx.buckets[pid] = b
	}
	b.Insert(s, o)
}

// SetBucket installs a fully-formed bucket for pid, replacing any existing
// one. Used by the loader, where each predicate's bucket is built by its
// own task (§4.3, §5).
func (idx *Index) SetBucket(pid core.ID, b *Bucket) {
	idx.buckets[pid] = b
}

// Pairs returns the S->O multimap for pid, or an empty bucket if pid has no
// data loaded (e.g. LoadPartial skipped it).
func (idx *Index) Pairs(pid core.ID) *Bucket {
	if b, ok := idx.buckets[pid]; ok {
		return b
	}
	return emptyBucket
}

// ReversePairs materialises the O->S inverted view of pid's bucket on
// demand (§4.2).
func (idx *Index) ReversePairs(pid core.ID) *Bucket {
	src := idx.Pairs(pid)
	rev := NewBucket(src.Len())
	for _, p := range src.pairs {
		rev.Insert(p.O, p.S)
	}
	return rev
}

// SubjectsWith returns every s such that (s, o) is present under pid.
func (idx *Index) SubjectsWith(pid, o core.ID) map[core.ID]struct{} {
	out := make(map[core.ID]struct{})
	for _, p := range idx.Pairs(pid).pairs {
		if p.O == o {
			out[p.S] = struct{}{}
		}
	}
	return out
}

// ObjectsWith returns every o such that (s, o) is present under pid.
func (idx *Index) ObjectsWith(s, pid core.ID) map[core.ID]struct{} {
	out := make(map[core.ID]struct{})
	for _, p := range idx.Pairs(pid).pairs {
		if p.S == s {
			out[p.O] = struct{}{}
		}
	}
	return out
}

// Loaded reports whether pid has a bucket present at all (distinct from
// "present but empty", used by introspection to report LoadPartial
// coverage).
func (idx *Index) Loaded(pid core.ID) bool {
	_, ok := idx.buckets[pid]
	return ok
}

var emptyBucket = NewBucket(0)
