package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/krd"
	"github.com/etnz/krd/renderer"
	"github.com/google/subcommands"
)

type reportCmd struct {
	mode      string
	json      bool
	query     string
	skipBonds bool
}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "compute the key rate durations of every bond and of the portfolio"
}
func (*reportCmd) Usage() string {
	return `krd report [-m <compounding>] [-json | -q <jsonpath>] [-skip-bonds]

  Aligns all bonds of the bonds file on the union of their payment dates, and
  reports the key rate duration of each term bucket, for each bond and for the
  weighted portfolio.

Usage Examples:
# Key rate durations under continuous compounding.
$ krd report -m continuous

# Portfolio key rate durations only, as JSON.
$ krd report -q '$.portfolio'
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "m", "", "Compounding (discrete, continuous). Defaults to the configuration.")
	f.BoolVar(&c.json, "json", false, "Print the report as JSON.")
	f.StringVar(&c.query, "q", "", "Print the result of a JSONPath query on the JSON report.")
	f.BoolVar(&c.skipBonds, "skip-bonds", false, "Do not detail bonds in the markdown report.")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := newSession(c.mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer s.logger.Sync()

	report, err := computeReport(ctx, s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	switch {
	case c.query != "":
		v, err := renderer.Query(report, c.query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintln(stdout, string(data))
	case c.json:
		data, err := renderer.JSON(report)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintln(stdout, string(data))
	default:
		printMarkdown(renderer.RenderReport(report, renderer.ReportRenderOptions{SkipBonds: c.skipBonds}))
	}
	return subcommands.ExitSuccess
}

// computeReport loads the bonds file and computes its report.
func computeReport(ctx context.Context, s *session) (*krd.Report, error) {
	book, err := DecodeBook()
	if err != nil {
		return nil, err
	}
	return krd.NewReport(ctx, book, s.reportOptions())
}
