// Package query holds the types shared by the parser, planner, and executor:
// the triple-pattern AST the parser produces, and the plan-step vocabulary
// the planner emits and the executor consumes (§3 Ownership, §4.6, §4.7).
package query

import "pso/internal/core"

// Term is one position of a triple pattern as written in SPARQL text: a
// variable (leading `?`) or an opaque constant token (§4.5).
type Term struct {
	Text  string
	IsVar bool
}

// NewTerm classifies a token by its leading `?`.
func NewTerm(tok string) Term {
	return Term{Text: tok, IsVar: len(tok) > 0 && tok[0] == '?'}
}

// Pattern is one triple pattern from a SELECT's WHERE clause (§4.5).
type Pattern struct {
	S Term
	P Term
	O Term
}

// ParsedQuery is the parser's output for either recognised form (§4.5).
type ParsedQuery struct {
	Distinct      bool
	Vars          []string
	Patterns      []Pattern
	Predicates    []string
	InsertTriples []core.RawTriple
}

// IsInsert reports whether the parse produced an INSERT DATA statement
// rather than a SELECT.
func (q *ParsedQuery) IsInsert() bool { return q.InsertTriples != nil }

// Kind is the execution strategy assigned to a plan step by the planner
// (§4.6).
type Kind int

const (
	SingleS Kind = iota
	SingleO
	SingleSO
	JoinS
	JoinO
	FilterS
	FilterO
	FilterSO
)

func (k Kind) String() string {
	switch k {
	case SingleS:
		return "SINGLE_S"
	case SingleO:
		return "SINGLE_O"
	case SingleSO:
		return "SINGLE_SO"
	case JoinS:
		return "JOIN_S"
	case JoinO:
		return "JOIN_O"
	case FilterS:
		return "FILTER_S"
	case FilterO:
		return "FILTER_O"
	case FilterSO:
		return "FILTER_SO"
	default:
		return "UNKNOWN"
	}
}

// StepTerm is one S or O position of a plan step: either a variable id
// local to the query, or a resolved entity id (§4.6 TripletId).
type StepTerm struct {
	IsVar bool
	Var   core.VarID
	ID    core.ID
}

// Step is one entry in the plan queue: a triple pattern with its positions
// resolved to ids, plus its execution Kind (§4.6).
type Step struct {
	S    StepTerm
	P    core.ID
	O    StepTerm
	Kind Kind
}

// Row is one binding of query-variable ids to entity ids (§4.7 Binding Row).
type Row map[core.VarID]core.ID

// Clone returns a shallow copy of the row, safe to extend independently of
// its source.
func (r Row) Clone() Row {
	out := make(Row, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}
