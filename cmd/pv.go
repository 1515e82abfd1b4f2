package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/krd/renderer"
	"github.com/google/subcommands"
)

type pvCmd struct {
	mode string
}

func (*pvCmd) Name() string     { return "pv" }
func (*pvCmd) Synopsis() string { return "compute the present value of every bond" }
func (*pvCmd) Usage() string {
	return `krd pv [-m <compounding>]

  Prints the present value of each bond of the bonds file, and the weighted
  present value of the portfolio.
`
}

func (c *pvCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "m", "", "Compounding (discrete, continuous). Defaults to the configuration.")
}

func (c *pvCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.RenderPresentValues(report))
	return subcommands.ExitSuccess
}
