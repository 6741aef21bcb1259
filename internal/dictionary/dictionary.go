// Package dictionary implements the bidirectional string<->id mapping used
// for predicates and, separately, for entities (§3, §4.1). A Dictionary
// instance knows nothing about which namespace it serves — the store wires
// one instance for predicates and another for entities.
package dictionary

import "pso/internal/core"

// Dictionary is a bidirectional string<->id map plus an occurrence count
// per id. Id 0 is reserved: index 0 of strings/counts is a placeholder so
// that ids can be used directly as slice indices.
type Dictionary struct {
	stringToID map[string]core.ID
	idToString []string
	countByID  []uint32
}

// New returns an empty Dictionary with the reserved id-0 slot populated.
func New() *Dictionary {
	return &Dictionary{
		stringToID: make(map[string]core.ID),
		idToString: []string{""},
		countByID:  []uint32{0},
	}
}

// Intern returns the id for s, assigning a new one on first sight, and
// increments s's occurrence count by one.
func (d *Dictionary) Intern(s string) core.ID {
	if id, ok := d.stringToID[s]; ok {
		d.countByID[id]++
		return id
	}
	id := core.ID(len(d.idToString))
	d.stringToID[s] = id
	d.idToString = append(d.idToString, s)
	d.countByID = append(d.countByID, 1)
	return id
}

// IDOf looks up s, failing with *core.NotFoundError if absent.
func (d *Dictionary) IDOf(kind, s string) (core.ID, error) {
	if id, ok := d.stringToID[s]; ok {
		return id, nil
	}
	return core.NoID, &core.NotFoundError{Kind: kind, Term: s}
}

// StringOf looks up id, failing with *core.NotFoundError if out of range.
func (d *Dictionary) StringOf(kind string, id core.ID) (string, error) {
	if id == core.NoID || int(id) >= len(d.idToString) {
		return "", &core.NotFoundError{Kind: kind, ID: id}
	}
	return d.idToString[id], nil
}

// CountOf returns the occurrence count recorded for id, or 0 if id is out
// of range (including the reserved zero id).
func (d *Dictionary) CountOf(id core.ID) uint32 {
	if int(id) >= len(d.countByID) {
		return 0
	}
	return d.countByID[id]
}

// Size returns the number of distinct strings interned.
func (d *Dictionary) Size() uint32 {
	return uint32(len(d.idToString) - 1)
}

// Statistics returns the full count vector indexed by id; entry 0 is the
// reserved placeholder (§4.1 predicate_statistics).
func (d *Dictionary) Statistics() []uint32 {
	out := make([]uint32, len(d.countByID))
	copy(out, d.countByID)
	return out
}

// Entry describes one dictionary row as persisted to disk (§4.3): id,
// occurrence count, and the string.
type Entry struct {
	ID    core.ID
	Count uint32
	Term  string
}

// Entries returns every (id, count, string) row in id order 1..Size(), the
// order the on-disk id_predicates/id_entities files are written in.
func (d *Dictionary) Entries() []Entry {
	out := make([]Entry, 0, len(d.idToString)-1)
	for id := 1; id < len(d.idToString); id++ {
		out = append(out, Entry{ID: core.ID(id), Count: d.countByID[id], Term: d.idToString[id]})
	}
	return out
}

// LoadFromEntries resets the dictionary and repopulates it from previously
// persisted rows, preserving the exact ids and counts (§4.3 Load*).
func LoadFromEntries(entries []Entry) *Dictionary {
	d := New()
	size := len(entries)
	d.idToString = make([]string, size+1)
	d.countByID = make([]uint32, size+1)
	d.stringToID = make(map[string]core.ID, size)
	for _, e := range entries {
		d.idToString[e.ID] = e.Term
		d.countByID[e.ID] = e.Count
		d.stringToID[e.Term] = e.ID
	}
	return d
}
