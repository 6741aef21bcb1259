// Package sparqlparser implements the SPARQL subset recognised by the
// engine (§4.5): SELECT [DISTINCT] ... WHERE { ... } and INSERT DATA { ... },
// following the regex-driven style of the original sparql_parser.cpp.
package sparqlparser

import (
	"regexp"
	"strings"

	"pso/internal/core"
	"pso/internal/query"
)

var (
	selectForm  = regexp.MustCompile(`(?is)^\s*SELECT\s+(DISTINCT\s+)?(.+?)\s+WHERE\s*\{(.*)\}\s*;?\s*$`)
	insertForm  = regexp.MustCompile(`(?is)^\s*INSERT\s+DATA\s*\{(.*)\}\s*;?\s*$`)
	triplePiece = regexp.MustCompile(`(\S+)\s+(\S+)\s+(\S+)\s*\.`)
)

// Parse recognises sparql as either a SELECT or an INSERT DATA statement and
// extracts the fields described in §4.5. It fails with *core.ParseError when
// neither form matches.
func Parse(sparql string) (*query.ParsedQuery, error) {
	if m := selectForm.FindStringSubmatch(sparql); m != nil {
		return parseSelect(m[1], m[2], m[3])
	}
	if m := insertForm.FindStringSubmatch(sparql); m != nil {
		return parseInsert(m[1])
	}
	return nil, &core.ParseError{Input: sparql}
}

func parseSelect(distinctClause, varList, whereBlock string) (*query.ParsedQuery, error) {
	patterns := patternsIn(whereBlock)
	if len(patterns) == 0 {
		return nil, &core.ParseError{Input: whereBlock}
	}

	q := &query.ParsedQuery{
		Distinct: strings.TrimSpace(distinctClause) != "",
		Vars:     splitVars(varList),
		Patterns: patterns,
	}
	for _, p := range patterns {
		if !p.P.IsVar {
			q.Predicates = append(q.Predicates, p.P.Text)
		}
	}
	return q, nil
}

func parseInsert(block string) (*query.ParsedQuery, error) {
	patterns := patternsIn(block)
	if len(patterns) == 0 {
		return nil, &core.ParseError{Input: block}
	}
	triples := make([]core.RawTriple, 0, len(patterns))
	for _, p := range patterns {
		triples = append(triples, core.RawTriple{S: p.S.Text, P: p.P.Text, O: p.O.Text})
	}
	return &query.ParsedQuery{InsertTriples: triples}, nil
}

// splitVars extracts the `?name` tokens from a SELECT projection clause, in
// the order they were written.
func splitVars(varList string) []string {
	var vars []string
	for _, tok := range strings.Fields(varList) {
		if strings.HasPrefix(tok, "?") {
			vars = append(vars, tok)
		}
	}
	return vars
}

// patternsIn extracts every `subject predicate object .` triple from a
// brace-delimited block. The block's final `.` is optional (§4.5); the
// regex only requires a terminating `.` per pattern, so a missing trailing
// dot on the last pattern is tolerated by appending one before matching.
func patternsIn(block string) []query.Pattern {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil
	}
	if !strings.HasSuffix(block, ".") {
		block += " ."
	}

	var patterns []query.Pattern
	for _, m := range triplePiece.FindAllStringSubmatch(block, -1) {
		patterns = append(patterns, query.Pattern{
			S: query.NewTerm(m[1]),
			P: query.NewTerm(m[2]),
			O: query.NewTerm(m[3]),
		})
	}
	return patterns
}
