package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/krd"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/subcommands"
	"go.uber.org/zap/zapcore"
)

const testBonds = `{"coupons":[{"date":"2026-01-01","amount":5},{"date":"2027-01-01","amount":105}],"rate":0.03,"weight":1,"asOf":"2025-01-01","currency":"EUR","name":"OAT 2027"}
`

// setFlag sets a global flag for the duration of the test.
func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func setStdout(t *testing.T, w io.Writer) {
	t.Helper()
	old := stdout
	stdout = w
	t.Cleanup(func() { stdout = old })
}

// setup writes the bonds file and a configuration in a temporary directory.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	bonds := filepath.Join(dir, "bonds.jsonl")
	if err := os.WriteFile(bonds, []byte(testBonds), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "krd.yaml")
	if err := os.WriteFile(cfg, []byte("workers: 2\nlog:\n  level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
	setFlag(t, bondsFile, bonds)
	setFlag(t, configFile, cfg)
	return bonds
}

// execute runs a command with args, and returns its status and output.
func execute(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	var out bytes.Buffer
	setStdout(t, &out)
	status := c.Execute(context.Background(), fs)
	return status, out.String()
}

func TestReportJSON(t *testing.T) {
	setup(t)

	status, out := execute(t, &reportCmd{}, "-json", "-m", "continuous")
	if status != subcommands.ExitSuccess {
		t.Fatalf("report -json status = %v", status)
	}
	var got krd.Report
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("report -json output is not a report: %v\n%s", err, out)
	}
	if got.Compounding != krd.Continuous || got.Name != "bonds" {
		t.Errorf("report = %s/%s, want continuous/bonds", got.Compounding, got.Name)
	}
	want := []float64{0.0468, 1.9065}
	if diff := cmp.Diff(want, got.Portfolio, cmpopts.EquateApprox(0, 5e-4)); diff != "" {
		t.Errorf("portfolio mismatch (-want +got):\n%s", diff)
	}
}

func TestReportDefaultCurrency(t *testing.T) {
	bonds := setup(t)
	noCurrency := strings.Replace(testBonds, `"currency":"EUR",`, "", 1)
	if err := os.WriteFile(bonds, []byte(noCurrency), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(t.TempDir(), "krd.yaml")
	if err := os.WriteFile(cfg, []byte("currency: USD\nlog:\n  level: error\n"), 0644); err != nil {
		t.Fatal(err)
	}
	setFlag(t, configFile, cfg)

	status, out := execute(t, &reportCmd{}, "-q", "$.currency")
	if status != subcommands.ExitSuccess {
		t.Fatalf("report -q status = %v", status)
	}
	if got := strings.TrimSpace(out); got != `"USD"` {
		t.Errorf("report currency = %s, want \"USD\"", got)
	}
}

func TestReportQuery(t *testing.T) {
	setup(t)

	status, out := execute(t, &reportCmd{}, "-q", "$.bonds[*].name")
	if status != subcommands.ExitSuccess {
		t.Fatalf("report -q status = %v", status)
	}
	var got []string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("report -q output: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"OAT 2027"}, got); diff != "" {
		t.Errorf("report -q mismatch (-want +got):\n%s", diff)
	}

	if status, _ := execute(t, &reportCmd{}, "-q", "$[?("); status != subcommands.ExitUsageError {
		t.Errorf("report -q with an invalid query status = %v, want usage error", status)
	}
}

func TestReportErrors(t *testing.T) {
	setup(t)

	if status, _ := execute(t, &reportCmd{}, "-m", "weekly"); status != subcommands.ExitUsageError {
		t.Errorf("report -m weekly status = %v, want usage error", status)
	}
	setFlag(t, bondsFile, filepath.Join(t.TempDir(), "missing.jsonl"))
	if status, _ := execute(t, &reportCmd{}); status != subcommands.ExitFailure {
		t.Errorf("report on a missing file status = %v, want failure", status)
	}
}

func TestMarkdownCommands(t *testing.T) {
	setup(t)

	tests := []struct {
		cmd  subcommands.Command
		args []string
		want string
	}{
		{&reportCmd{}, nil, "OAT 2027"},
		{&pvCmd{}, []string{"-m", "continuous"}, "OAT 2027"},
		{&annualizeCmd{}, []string{"-m", "continuous", "0.03"}, "0.0300000000"},
		{&annualizeCmd{}, []string{"-n", "1", "0.05"}, "0.0500000000"},
		{&topicCmd{}, []string{"krd"}, "Key rate durations"},
	}
	for _, tt := range tests {
		status, out := execute(t, tt.cmd, tt.args...)
		if status != subcommands.ExitSuccess {
			t.Errorf("%s %v status = %v", tt.cmd.Name(), tt.args, status)
			continue
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("%s %v output does not contain %q:\n%s", tt.cmd.Name(), tt.args, tt.want, out)
		}
	}

	if status, _ := execute(t, &annualizeCmd{}); status != subcommands.ExitUsageError {
		t.Errorf("annualize without rate status = %v, want usage error", status)
	}
	if status, _ := execute(t, &annualizeCmd{}, "abc"); status != subcommands.ExitUsageError {
		t.Errorf("annualize abc status = %v, want usage error", status)
	}
}

func TestFmt(t *testing.T) {
	bonds := setup(t)

	if status, _ := execute(t, &fmtCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("fmt status = %v", status)
	}
	got, err := os.ReadFile(bonds)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"OAT 2027","currency":"EUR","asOf":"2025-01-01","weight":1,"rate":0.03,"coupons":[{"date":"2026-01-01","amount":5},{"date":"2027-01-01","amount":105}]}
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("fmt mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(zapcore.AddSync(&buf), "info", "json")
	if err != nil {
		t.Fatalf("newLogger() unexpected error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, `"level":"INFO"`) {
		t.Errorf("unexpected log output: %s", out)
	}

	if _, err := NewLogger("loud", "json"); err == nil {
		t.Errorf("NewLogger(loud) expected an error")
	}
	if _, err := NewLogger("info", "xml"); err == nil {
		t.Errorf("NewLogger(info, xml) expected an error")
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()

	for _, name := range []string{"report", "pv", "annualize", "fmt", "serve", "assist", "topic", "help"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("Completion() has no %q command", name)
		}
	}
	if _, ok := c.Flags["bonds"]; !ok {
		t.Errorf("Completion() has no global -bonds flag")
	}
	report := c.Sub["report"]
	if got := report.Flags["m"].Predict(""); !cmp.Equal(got, []string{"discrete", "continuous"}) {
		t.Errorf("report -m predicts %v", got)
	}
	if p, ok := report.Flags["json"]; !ok || p != nil {
		t.Errorf("report -json should be a boolean flag")
	}
	if got := c.Sub["topic"].Args.Predict(""); !cmp.Equal(got, []string{"bonds", "compounding", "krd"}) {
		t.Errorf("topic predicts %v", got)
	}
}
