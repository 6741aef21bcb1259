// Package introspect reports on the current state of a loaded Database:
// dictionary sizes, per-predicate cardinalities, and how much of the
// predicate index LoadPartial actually brought into memory. Adapted from
// the teacher's introspect registry, which dispatched by SQL dialect; this
// engine has one storage backend, not several, so the registry collapses
// to a single reporting function (see DESIGN.md).
package introspect

import "pso/internal/core"

// database is the subset of store.Database introspection needs.
type database interface {
	Name() string
	PredicateCount() uint32
	EntityCount() uint32
	TripleCount() uint64
	PredicateStatistics() []uint32
	PredicateOfID(id core.ID) (string, error)
	IndexLoaded(pid core.ID) bool
}

// PredicateStat is one predicate's reported cardinality and load state.
type PredicateStat struct {
	Predicate string
	ID        core.ID
	Count     uint32
	Loaded    bool
}

// Report is a point-in-time snapshot of a Database's state.
type Report struct {
	Name           string
	PredicateCount uint32
	EntityCount    uint32
	TripleCount    uint64
	Predicates     []PredicateStat
}

// Introspect builds a Report for db.
func Introspect(db database) (*Report, error) {
	stats := db.PredicateStatistics()
	report := &Report{
		Name:           db.Name(),
		PredicateCount: db.PredicateCount(),
		EntityCount:    db.EntityCount(),
		TripleCount:    db.TripleCount(),
	}

	for pid := 1; pid < len(stats); pid++ {
		id := core.ID(pid)
		name, err := db.PredicateOfID(id)
		if err != nil {
			return nil, err
		}
		report.Predicates = append(report.Predicates, PredicateStat{
			Predicate: name,
			ID:        id,
			Count:     stats[pid],
			Loaded:    db.IndexLoaded(id),
		})
	}
	return report, nil
}
