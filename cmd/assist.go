package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/krd/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type assistCmd struct {
	mode  string
	model string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `krd assist [-m <compounding>] [-model <model>] [<prompt>]

  Start an interactive session with the AI assistant, about the bonds file.
  The Gemini API key is read from GEMINI_API_KEY.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mode, "m", "", "Compounding (discrete, continuous). Defaults to the configuration.")
	f.StringVar(&c.model, "model", "", "Gemini model. Defaults to the configuration.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := newSession(c.mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer s.logger.Sync()
	model := s.cfg.Assist.Model
	if c.model != "" {
		model = c.model
	}

	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	analyst := agent.NewAnalyst(model, &agent.Tools{Book: book, Options: s.reportOptions()})
	economist := agent.NewEconomist(model)
	for _, e := range []*agent.Expert{analyst, economist} {
		e.Logger = s.logger
	}
	a := agent.New(stdout, os.Stdin, model, analyst, economist)
	a.Print = writeMarkdown

	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
