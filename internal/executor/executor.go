// Package executor implements the query executor (§4.7): it consumes a
// plan queue left-to-right, maintaining an intermediate relation of
// variable-id to entity-id bindings, and applies the matching kernel for
// each step's Kind.
package executor

import (
	"time"

	"pso/internal/core"
	"pso/internal/index"
	"pso/internal/planner"
	"pso/internal/query"
)

// database is the subset of store.Database the executor needs to run a
// plan (§4.2, §4.4 query-side read operations).
type database interface {
	Pairs(pid core.ID) *index.Bucket
	ReversePairs(pid core.ID) *index.Bucket
	SubjectsWith(pid, o core.ID) map[core.ID]struct{}
	ObjectsWith(s, pid core.ID) map[core.ID]struct{}
	EntityOfID(id core.ID) (string, error)
}

// Executor runs plans against a database and remembers the wall-clock time
// spent in the most recent Execute call (§4.7 Timing).
type Executor struct {
	lastQueryTime time.Duration
}

// New returns a ready-to-use Executor.
func New() *Executor {
	return &Executor{}
}

// LastQueryTime returns the wall-clock duration of the most recently
// completed Execute call.
func (e *Executor) LastQueryTime() time.Duration {
	return e.lastQueryTime
}

// Execute runs steps against db and returns the final intermediate
// relation. It returns immediately once the relation becomes empty (§4.7).
func (e *Executor) Execute(db database, steps []query.Step) []query.Row {
	start := time.Now()
	defer func() { e.lastQueryTime = time.Since(start) }()

	var rows []query.Row
	for _, step := range steps {
		rows = runStep(db, rows, step)
		if len(rows) == 0 {
			return rows
		}
	}
	return rows
}

func runStep(db database, existing []query.Row, step query.Step) []query.Row {
	switch step.Kind {
	case query.SingleS, query.SingleO, query.SingleSO:
		return execSingle(db, existing, step)
	case query.JoinS:
		return execJoinS(db, existing, step)
	case query.JoinO:
		return execJoinO(db, existing, step)
	case query.FilterS:
		return execFilterS(db, existing, step)
	case query.FilterO:
		return execFilterO(db, existing, step)
	case query.FilterSO:
		return execFilterSO(db, existing, step)
	default:
		return nil
	}
}

// execSingle emits one row per matching (s,o) pair under step.P, then takes
// the cartesian product with any rows already in the relation (§4.7
// SINGLE_S/O/SO — "the cartesian product with each existing row is
// preserved by merging the existing binding map into every emitted row").
func execSingle(db database, existing []query.Row, step query.Step) []query.Row {
	bucket := db.Pairs(step.P)
	var increments []query.Row
	for _, pr := range bucket.Pairs() {
		switch step.Kind {
		case query.SingleS:
			if pr.O == step.O.ID {
				increments = append(increments, query.Row{step.S.Var: pr.S})
			}
		case query.SingleO:
			if pr.S == step.S.ID {
				increments = append(increments, query.Row{step.O.Var: pr.O})
			}
		case query.SingleSO:
			increments = append(increments, query.Row{step.S.Var: pr.S, step.O.Var: pr.O})
		}
	}
	return cartesian(existing, increments)
}

func cartesian(existing, increments []query.Row) []query.Row {
	if len(existing) == 0 {
		return increments
	}
	out := make([]query.Row, 0, len(existing)*len(increments))
	for _, e := range existing {
		for _, inc := range increments {
			merged := e.Clone()
			for k, v := range inc {
				merged[k] = v
			}
			out = append(out, merged)
		}
	}
	return out
}

// execJoinS extends every row by looking up its already-bound S in pairs(p)
// (§4.7 JOIN_S).
func execJoinS(db database, existing []query.Row, step query.Step) []query.Row {
	bucket := db.Pairs(step.P)
	var out []query.Row
	for _, r := range existing {
		for _, pr := range bucket.EqualRangeS(r[step.S.Var]) {
			nr := r.Clone()
			nr[step.O.Var] = pr.O
			out = append(out, nr)
		}
	}
	return out
}

// execJoinO extends every row by looking up its already-bound O in
// reverse_pairs(p) (§4.7 JOIN_O).
func execJoinO(db database, existing []query.Row, step query.Step) []query.Row {
	bucket := db.ReversePairs(step.P)
	var out []query.Row
	for _, r := range existing {
		for _, pr := range bucket.EqualRangeS(r[step.O.Var]) {
			nr := r.Clone()
			nr[step.S.Var] = pr.O
			out = append(out, nr)
		}
	}
	return out
}

// execFilterS keeps rows whose bound S is among the subjects paired with
// the constant O under p (§4.7 FILTER_S).
func execFilterS(db database, existing []query.Row, step query.Step) []query.Row {
	subjects := db.SubjectsWith(step.P, step.O.ID)
	var out []query.Row
	for _, r := range existing {
		if _, ok := subjects[r[step.S.Var]]; ok {
			out = append(out, r)
		}
	}
	return out
}

// execFilterO keeps rows whose bound O is among the objects paired with the
// constant S under p (§4.7 FILTER_O).
func execFilterO(db database, existing []query.Row, step query.Step) []query.Row {
	objects := db.ObjectsWith(step.S.ID, step.P)
	var out []query.Row
	for _, r := range existing {
		if _, ok := objects[r[step.O.Var]]; ok {
			out = append(out, r)
		}
	}
	return out
}

// execFilterSO keeps rows where the bound (S, O) pair is itself present
// under p (§4.7 FILTER_SO).
func execFilterSO(db database, existing []query.Row, step query.Step) []query.Row {
	bucket := db.Pairs(step.P)
	var out []query.Row
	for _, r := range existing {
		sid, oid := r[step.S.Var], r[step.O.Var]
		for _, pr := range bucket.EqualRangeS(sid) {
			if pr.O == oid {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Project implements resultMapper (§4.7 Finalisation): it turns binding
// rows into the ordered string tuples named by projVars, deduping when
// distinct is set.
func Project(db database, plan *planner.Plan, rows []query.Row, projVars []string, distinct bool) ([][]string, error) {
	out := make([][]string, 0, len(rows))
	seen := make(map[string]bool)

	for _, r := range rows {
		tuple := make([]string, len(projVars))
		for i, name := range projVars {
			vid, ok := plan.Vars[name]
			var eid core.ID
			if ok {
				eid = r[vid]
			}
			term, err := db.EntityOfID(eid)
			if err != nil {
				return nil, err
			}
			tuple[i] = term
		}

		if distinct {
			key := tupleKey(tuple)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, tuple)
	}
	return out, nil
}

func tupleKey(tuple []string) string {
	key := ""
	for _, t := range tuple {
		key += t + "\x00"
	}
	return key
}
