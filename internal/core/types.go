// Package core holds the types shared by every layer of the triple store:
// compact identifiers, triples, and the error kinds raised while building
// or querying a Database.
package core

import "fmt"

// ID is a compact, monotonically assigned identifier. Id 0 is reserved and
// means "no entry" — it is never returned by an intern operation.
type ID uint32

// NoID is the reserved zero value meaning "no entry".
const NoID ID = 0

// VarID identifies a query variable within the scope of a single query. It
// is a distinct numbering from entity/predicate ids — the planner and
// executor never confuse the two because they are carried in separate
// fields (Triple.S/Triple.O hold entity ids, a plan step's variable
// positions hold VarIDs).
type VarID uint16

// Triple is a (subject, predicate, object) tuple expressed in compact ids.
type Triple struct {
	S ID
	P ID
	O ID
}

// RawTriple is a (subject, predicate, object) tuple expressed as opaque
// terms, prior to dictionary interning.
type RawTriple struct {
	S string
	P string
	O string
}

// ParseError reports that SPARQL text matched neither the SELECT nor the
// INSERT DATA form recognised by the parser (§4.5).
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sparql: cannot parse query: %q", truncate(e.Input, 80))
}

// UnsupportedPatternError reports a triple pattern whose predicate position
// is a variable — the planner has no strategy for that (§4.6 step 5).
type UnsupportedPatternError struct {
	Subject   string
	Predicate string
	Object    string
}

func (e *UnsupportedPatternError) Error() string {
	return fmt.Sprintf("planner: pattern %s %s %s has a variable predicate, which is not supported",
		e.Subject, e.Predicate, e.Object)
}

// NotFoundError reports a lookup of an unknown term or unknown id in the
// Dictionary (§4.1, §7).
type NotFoundError struct {
	Kind string // "predicate" or "entity"
	Term string
	ID   ID
}

func (e *NotFoundError) Error() string {
	if e.Term != "" {
		return fmt.Sprintf("dictionary: %s %q not found", e.Kind, e.Term)
	}
	return fmt.Sprintf("dictionary: %s id %d not found", e.Kind, e.ID)
}

// IOFailureError wraps a filesystem failure encountered while saving or
// loading a database artefact (§4.3, §7).
type IOFailureError struct {
	Path string
	Err  error
}

func (e *IOFailureError) Error() string {
	return fmt.Sprintf("io failure on %q: %v", e.Path, e.Err)
}

func (e *IOFailureError) Unwrap() error { return e.Err }

// DatabaseMissingError reports that Load* was called against a directory
// that does not exist (§4.3, §7).
type DatabaseMissingError struct {
	Name string
}

func (e *DatabaseMissingError) Error() string {
	return fmt.Sprintf("database %q does not exist, create or build it first", e.Name)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
