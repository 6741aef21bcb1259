package resultfmt

import (
	"encoding/json"

	"pso/internal/engine"
)

type jsonFormatter struct{}

type resultPayload struct {
	Vars     []string   `json:"vars,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
	Distinct bool       `json:"distinct,omitempty"`
	Count    int        `json:"count"`
	Inserted int        `json:"inserted,omitempty"`
}

func (jsonFormatter) FormatResult(r *engine.Result) (string, error) {
	payload := resultPayload{}
	if r != nil {
		payload.Vars = r.Vars
		payload.Rows = r.Rows
		payload.Distinct = r.Distinct
		payload.Count = len(r.Rows)
		payload.Inserted = r.Inserted
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
