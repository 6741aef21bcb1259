package resultfmt

import (
	"fmt"
	"strings"

	"pso/internal/engine"
)

type humanFormatter struct{}

// FormatResult renders an aligned table of the projection header and row
// tuples, or a one-line "inserted N triples" message for INSERT results.
func (humanFormatter) FormatResult(r *engine.Result) (string, error) {
	if r == nil {
		return "", nil
	}
	if r.Vars == nil {
		return fmt.Sprintf("inserted %d triples\n", r.Inserted), nil
	}

	widths := make([]int, len(r.Vars))
	for i, v := range r.Vars {
		widths[i] = len(v)
	}
	for _, row := range r.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow(&b, r.Vars, widths)
	for _, row := range r.Rows {
		writeRow(&b, row, widths)
	}
	fmt.Fprintf(&b, "(%d rows)\n", len(r.Rows))
	return b.String(), nil
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		fmt.Fprintf(b, "%-*s", widths[i]+2, cell)
	}
	b.WriteByte('\n')
}
