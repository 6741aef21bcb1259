package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pso/internal/core"
	"pso/internal/query"
)

// fakeDB is a minimal database double driving cardinality decisions
// directly from fixed tables, so planner tests don't need the full store.
type fakeDB struct {
	predicateIDs   map[string]core.ID
	entityIDs      map[string]core.ID
	predicateCount map[core.ID]uint32
	entityCount    map[core.ID]uint32
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		predicateIDs:   make(map[string]core.ID),
		entityIDs:      make(map[string]core.ID),
		predicateCount: make(map[core.ID]uint32),
		entityCount:    make(map[core.ID]uint32),
	}
}

func (f *fakeDB) predicate(name string, count uint32) core.ID {
	id := core.ID(len(f.predicateIDs) + 1)
	f.predicateIDs[name] = id
	f.predicateCount[id] = count
	return id
}

func (f *fakeDB) entity(name string, count uint32) core.ID {
	id := core.ID(len(f.entityIDs) + 1)
	f.entityIDs[name] = id
	f.entityCount[id] = count
	return id
}

func (f *fakeDB) IDOfPredicate(s string) (core.ID, error) {
	id, ok := f.predicateIDs[s]
	if !ok {
		return core.NoID, &core.NotFoundError{Kind: "predicate", Term: s}
	}
	return id, nil
}

func (f *fakeDB) IDOfEntity(s string) (core.ID, error) {
	id, ok := f.entityIDs[s]
	if !ok {
		return core.NoID, &core.NotFoundError{Kind: "entity", Term: s}
	}
	return id, nil
}

func (f *fakeDB) PredicateCountByID(pid core.ID) uint32 { return f.predicateCount[pid] }
func (f *fakeDB) EntityCountByID(eid core.ID) uint32    { return f.entityCount[eid] }

func pattern(s, p, o string) query.Pattern {
	return query.Pattern{S: query.NewTerm(s), P: query.NewTerm(p), O: query.NewTerm(o)}
}

func TestGenerateTwoHopJoin(t *testing.T) {
	db := newFakeDB()
	db.predicate("p", 1)
	db.predicate("q", 2)
	db.entity("a", 1)

	patterns := []query.Pattern{
		pattern("<a>", "p", "?y"),
		pattern("?y", "q", "?z"),
	}

	plan, err := Generate(db, patterns)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)

	assert.Equal(t, query.SingleO, plan.Steps[0].Kind)
	assert.Equal(t, query.JoinS, plan.Steps[1].Kind)
}

func TestGenerateEmitsOneStepPerPattern(t *testing.T) {
	db := newFakeDB()
	db.predicate("p", 10)
	db.predicate("q", 10)
	db.predicate("r", 10)
	db.entity("a", 5)
	db.entity("b", 5)

	patterns := []query.Pattern{
		pattern("<a>", "p", "?x"),
		pattern("?x", "q", "?y"),
		pattern("?y", "r", "<b>"),
	}

	plan, err := Generate(db, patterns)
	require.NoError(t, err)
	assert.Len(t, plan.Steps, len(patterns))
}

func TestGenerateVariablePredicateFails(t *testing.T) {
	db := newFakeDB()
	patterns := []query.Pattern{pattern("?s", "?p", "?o")}

	_, err := Generate(db, patterns)
	require.Error(t, err)
	assert.IsType(t, &core.UnsupportedPatternError{}, err)
}

func TestGenerateUnknownPredicateFails(t *testing.T) {
	db := newFakeDB()
	patterns := []query.Pattern{pattern("?s", "ghost", "?o")}

	_, err := Generate(db, patterns)
	require.Error(t, err)
	assert.IsType(t, &core.NotFoundError{}, err)
}

func TestGenerateFilterSOPrecedence(t *testing.T) {
	db := newFakeDB()
	db.predicate("p", 1)
	db.predicate("q", 2)
	db.predicate("r", 3)
	db.entity("a", 1)

	patterns := []query.Pattern{
		pattern("<a>", "p", "?s"),
		pattern("?s", "q", "?o"),
		pattern("?s", "r", "?o"),
	}
	plan, err := Generate(db, patterns)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 3)
	assert.Equal(t, query.SingleO, plan.Steps[0].Kind)
	assert.Equal(t, query.JoinS, plan.Steps[1].Kind)
	// Both ?s and ?o are bound by now, so FILTER_SO wins over JOIN_S.
	assert.Equal(t, query.FilterSO, plan.Steps[2].Kind)
}

func TestGenerateForcedRestartOnDisconnectedComponent(t *testing.T) {
	db := newFakeDB()
	db.predicate("p", 1)
	db.predicate("q", 5)
	db.entity("a", 1)
	db.entity("b", 5)

	patterns := []query.Pattern{
		pattern("<a>", "p", "?x"),
		pattern("<b>", "q", "?y"),
	}
	plan, err := Generate(db, patterns)
	require.NoError(t, err)
	require.Len(t, plan.Steps, 2)
	assert.Equal(t, query.SingleO, plan.Steps[0].Kind)
	assert.Equal(t, query.SingleO, plan.Steps[1].Kind)
}
