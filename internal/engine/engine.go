// Package engine wires the parser, planner, and executor together into the
// single query_selector_-style entry point the original sparql_query.cpp
// exposed: parse, plan, execute, project (§6 Query interface to the core).
package engine

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"pso/internal/core"
	"pso/internal/executor"
	"pso/internal/index"
	"pso/internal/planner"
	"pso/internal/query"
	"pso/internal/sparqlparser"
)

// database is the subset of store.Database the engine needs to drive a
// query end to end.
type database interface {
	IDOfPredicate(s string) (core.ID, error)
	IDOfEntity(s string) (core.ID, error)
	PredicateCountByID(pid core.ID) uint32
	EntityCountByID(eid core.ID) uint32
	Pairs(pid core.ID) *index.Bucket
	ReversePairs(pid core.ID) *index.Bucket
	SubjectsWith(pid, o core.ID) map[core.ID]struct{}
	ObjectsWith(s, pid core.ID) map[core.ID]struct{}
	EntityOfID(id core.ID) (string, error)
	InsertTriples(triples []core.RawTriple) (int, error)
}

// Result is the outward answer to one SPARQL statement: a SELECT's
// projection header and row tuples, or an INSERT's affected-row count.
type Result struct {
	Vars     []string
	Rows     [][]string
	Distinct bool
	Inserted int
}

// Engine ties one Database to a reusable Executor.
type Engine struct {
	db  database
	exe *executor.Executor
	log *zap.SugaredLogger
}

// New returns an Engine bound to db.
func New(db database, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{db: db, exe: executor.New(), log: log}
}

// Parse exposes the parser so callers (e.g. the CLI, to size a LoadPartial
// call) can inspect the predicate hints before running the query.
func Parse(sparql string) (*query.ParsedQuery, error) {
	return sparqlparser.Parse(sparql)
}

// Run parses sparql and executes it (§6).
func (e *Engine) Run(sparql string) (*Result, error) {
	parsed, err := sparqlparser.Parse(sparql)
	if err != nil {
		return nil, err
	}
	return e.RunParsed(parsed)
}

// RunParsed executes an already-parsed statement, so the caller can derive
// a LoadPartial predicate hint list from parsed.Predicates first.
func (e *Engine) RunParsed(parsed *query.ParsedQuery) (*Result, error) {
	if parsed.IsInsert() {
		n, err := e.db.InsertTriples(parsed.InsertTriples)
		if err != nil {
			return nil, err
		}
		return &Result{Inserted: n}, nil
	}

	plan, err := planner.Generate(e.db, parsed.Patterns)
	if err != nil {
		var notFound *core.NotFoundError
		if errors.As(err, &notFound) {
			e.log.Warnw("query references an unknown term, returning empty result", "error", err)
			return &Result{Vars: parsed.Vars, Distinct: parsed.Distinct}, nil
		}
		return nil, err
	}

	rows := e.exe.Execute(e.db, plan.Steps)
	tuples, err := executor.Project(e.db, plan, rows, parsed.Vars, parsed.Distinct)
	if err != nil {
		return nil, err
	}
	return &Result{Vars: parsed.Vars, Rows: tuples, Distinct: parsed.Distinct}, nil
}

// LastQueryTime returns the wall-clock time spent in the most recent
// SELECT's execution step (§4.7 Timing).
func (e *Engine) LastQueryTime() time.Duration {
	return e.exe.LastQueryTime()
}
