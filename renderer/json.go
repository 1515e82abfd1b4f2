package renderer

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/krd"
)

// JSON returns the indented JSON representation of the report.
func JSON(r *krd.Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Query evaluates a JSONPath expression against the JSON representation of the report,
// for instance "$.portfolio" or "$.bonds[?(@.duration > 2)].name".
func Query(r *krd.Report, expr string) (any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	res, err := jsonpath.Get(expr, v)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", expr, err)
	}
	return res, nil
}
