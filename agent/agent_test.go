package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/etnz/krd"
	"github.com/etnz/krd/date"
	"google.golang.org/genai"
)

func testTools() *Tools {
	asOf := date.MustParse("2025-01-01")
	bond := krd.NewBond("OAT", "EUR", asOf, 0.03, 1,
		krd.C(date.MustParse("2026-01-01"), 5),
		krd.C(date.MustParse("2027-01-01"), 105),
	)
	return &Tools{
		Book:    krd.NewBook("test", bond),
		Options: krd.ReportOptions{Convention: krd.DefaultConvention, Mode: krd.Continuous, Workers: 1},
	}
}

func call(t *testing.T, lib Library, name string, args map[string]any) map[string]any {
	t.Helper()
	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
	if resp.ID != "1" || resp.Name != name {
		t.Errorf("%s: response id/name = %q/%q", name, resp.ID, resp.Name)
	}
	return resp.Response
}

func TestAnalystFunctions(t *testing.T) {
	lib := NewLibrary(testTools().Functions())

	got := call(t, lib, "Report", nil)
	if out, _ := got["output"].(string); !strings.Contains(out, "OAT") {
		t.Errorf("Report output = %v, want a report mentioning OAT", got)
	}

	got = call(t, lib, "Query", map[string]any{"path": "$.bonds[0].name"})
	if got["output"] != `"OAT"` {
		t.Errorf("Query output = %v, want \"OAT\"", got)
	}

	// continuous compounding leaves the rate unchanged.
	got = call(t, lib, "Annualize", map[string]any{"rate": "0.03"})
	if got["output"] != "0.03" {
		t.Errorf("Annualize output = %v, want 0.03", got)
	}

	got = call(t, lib, "Topic", map[string]any{"topic": "krd"})
	if out, _ := got["output"].(string); !strings.HasPrefix(out, "# Key rate durations") {
		t.Errorf("Topic output = %v", got)
	}
}

func TestAnalystErrors(t *testing.T) {
	lib := NewLibrary(testTools().Functions())

	tests := []struct {
		name string
		args map[string]any
	}{
		{"Query", nil},
		{"Query", map[string]any{"path": 42}},
		{"Annualize", map[string]any{"rate": "abc"}},
		{"Annualize", map[string]any{"rate": "NaN"}},
		{"Topic", map[string]any{"topic": "nope"}},
		{"Unknown", nil},
	}
	for _, tt := range tests {
		got := call(t, lib, tt.name, tt.args)
		if _, ok := got["error"]; !ok {
			t.Errorf("%s(%v) = %v, want an error", tt.name, tt.args, got)
		}
	}
}

func TestDeclarations(t *testing.T) {
	analyst := NewAnalyst("model", testTools())
	economist := NewEconomist("model")
	f := newFacilitator("model", analyst, economist)

	decls := f.Config.Tools[0].FunctionDeclarations
	if len(decls) != 2 || decls[0].Name != "Analyst" || decls[1].Name != "Economist" {
		t.Errorf("facilitator declarations = %v, want Analyst and Economist", decls)
	}
	if n := len(analyst.Config.Tools[0].FunctionDeclarations); n != 4 {
		t.Errorf("analyst has %d functions, want 4", n)
	}
}
