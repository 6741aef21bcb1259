// Package resultfmt formats query results for display, adapted from the
// teacher's internal/output formatter-registry shape down to the two
// formats this engine actually needs: human-readable and JSON.
package resultfmt

import (
	"fmt"
	"strings"

	"pso/internal/engine"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
)

// Formatter formats one query Result for display.
type Formatter interface {
	FormatResult(*engine.Result) (string, error)
}

// NewFormatter creates a new Formatter instance based on name. If no format
// is specified, defaults to human format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'human' or 'json'", name)
	}
}
