// Package planner implements the cardinality-driven query planner (§4.6):
// it orders triple patterns by estimated selectivity and tags each with the
// join/filter/single strategy the executor should use, following the
// sort-then-greedy-pass algorithm of the original query_plan.cpp.
package planner

import (
	"sort"

	"pso/internal/core"
	"pso/internal/query"
)

// database is the subset of store.Database the planner needs. Declared
// locally so this package does not import internal/store (§3: the planner
// is stateless across queries and only ever reads cardinalities and ids).
type database interface {
	IDOfPredicate(s string) (core.ID, error)
	IDOfEntity(s string) (core.ID, error)
	PredicateCountByID(pid core.ID) uint32
	EntityCountByID(eid core.ID) uint32
}

// candidate is one triple pattern mid-planning: its positions resolved to
// ids (or a per-query variable id), plus its estimated selectivity key.
type candidate struct {
	s   query.StepTerm
	p   core.ID
	o   query.StepTerm
	key uint64
}

// varTable assigns a stable per-query id to each distinct variable name on
// first sight (§4.6 step 1). Patterns with no variable position at all are
// given a synthetic, unprojectable variable on O so that every pattern has
// at least one variable to drive plan-step classification.
type varTable struct {
	ids  map[string]core.VarID
	next core.VarID
}

func newVarTable() *varTable {
	return &varTable{ids: make(map[string]core.VarID)}
}

func (t *varTable) assign(name string) core.VarID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := t.next
	t.next++
	t.ids[name] = id
	return id
}

func (t *varTable) fresh() core.VarID {
	id := t.next
	t.next++
	return id
}

// Plan is the planner's output: the ordered plan queue plus the mapping
// from projection variable name to the per-query variable id assigned
// while planning, needed by the executor to resolve a SELECT's projection
// list back to binding-row keys.
type Plan struct {
	Steps []query.Step
	Vars  map[string]core.VarID
}

// Generate builds the ordered plan queue for patterns against db (§4.6). It
// fails with *core.UnsupportedPatternError if any pattern's predicate
// position is a variable, and with *core.NotFoundError if a concrete term
// names a predicate or entity the database has never seen.
func Generate(db database, patterns []query.Pattern) (*Plan, error) {
	vars := newVarTable()
	candidates := make([]candidate, 0, len(patterns))

	for _, pat := range patterns {
		if pat.P.IsVar {
			return nil, &core.UnsupportedPatternError{Subject: pat.S.Text, Predicate: pat.P.Text, Object: pat.O.Text}
		}
		pid, err := db.IDOfPredicate(pat.P.Text)
		if err != nil {
			return nil, err
		}

		cand := candidate{p: pid, key: uint64(db.PredicateCountByID(pid))}

		if pat.S.IsVar {
			cand.s = query.StepTerm{IsVar: true, Var: vars.assign(pat.S.Text)}
		} else {
			sid, err := db.IDOfEntity(pat.S.Text)
			if err != nil {
				return nil, err
			}
			cand.s = query.StepTerm{ID: sid}
			cand.key = minKey(cand.key, uint64(db.EntityCountByID(sid)))
		}

		if pat.O.IsVar {
			cand.o = query.StepTerm{IsVar: true, Var: vars.assign(pat.O.Text)}
		} else {
			oid, err := db.IDOfEntity(pat.O.Text)
			if err != nil {
				return nil, err
			}
			cand.o = query.StepTerm{ID: oid}
			if pat.S.IsVar {
				cand.key = minKey(cand.key, uint64(db.EntityCountByID(oid)))
			}
		}

		if !cand.s.IsVar && !cand.o.IsVar {
			cand.o = query.StepTerm{IsVar: true, Var: vars.fresh()}
		}

		candidates = append(candidates, cand)
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].key < candidates[j].key })

	bound := make(map[core.VarID]bool)
	steps := make([]query.Step, 0, len(candidates))

	head := candidates[0]
	candidates = candidates[1:]
	steps = append(steps, emitSingle(head, bound))

	for len(candidates) > 0 {
		progressed := false
		for i, cand := range candidates {
			kind, ok := classify(cand, bound)
			if !ok {
				continue
			}
			steps = append(steps, toStep(cand, kind))
			markBound(cand, kind, bound)
			candidates = append(candidates[:i], candidates[i+1:]...)
			progressed = true
			break
		}
		if progressed {
			continue
		}

		head := candidates[0]
		candidates = candidates[1:]
		steps = append(steps, emitSingle(head, bound))
	}

	return &Plan{Steps: steps, Vars: vars.ids}, nil
}

func minKey(a, b uint64) uint64 {
	if b < a {
		return b
	}
	return a
}

func emitSingle(cand candidate, bound map[core.VarID]bool) query.Step {
	kind := query.SingleSO
	switch {
	case cand.s.IsVar && !cand.o.IsVar:
		kind = query.SingleS
	case !cand.s.IsVar && cand.o.IsVar:
		kind = query.SingleO
	}
	if cand.s.IsVar {
		bound[cand.s.Var] = true
	}
	if cand.o.IsVar {
		bound[cand.o.Var] = true
	}
	return toStep(cand, kind)
}

// classify decides cand's Kind against the current bound-set, checking
// conditions in the precedence order FILTER_SO > FILTER_S > FILTER_O >
// JOIN_S > JOIN_O (§4.6 tie-breaks) so that a pattern whose variables are
// all already bound is never mistaken for a join.
func classify(cand candidate, bound map[core.VarID]bool) (query.Kind, bool) {
	sReady := cand.s.IsVar && bound[cand.s.Var]
	oReady := cand.o.IsVar && bound[cand.o.Var]

	switch {
	case cand.s.IsVar && cand.o.IsVar && sReady && oReady:
		return query.FilterSO, true
	case cand.s.IsVar && !cand.o.IsVar && sReady:
		return query.FilterS, true
	case !cand.s.IsVar && cand.o.IsVar && oReady:
		return query.FilterO, true
	case cand.s.IsVar && cand.o.IsVar && sReady:
		return query.JoinS, true
	case cand.s.IsVar && cand.o.IsVar && oReady:
		return query.JoinO, true
	default:
		return 0, false
	}
}

func markBound(cand candidate, kind query.Kind, bound map[core.VarID]bool) {
	switch kind {
	case query.JoinS:
		bound[cand.o.Var] = true
	case query.JoinO:
		bound[cand.s.Var] = true
	}
}

func toStep(cand candidate, kind query.Kind) query.Step {
	return query.Step{S: cand.s, P: cand.p, O: cand.o, Kind: kind}
}
