package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/krd/server"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve key rate durations over HTTP" }
func (*serveCmd) Usage() string {
	return `krd serve [-addr <address>]

  Serves the HTTP API until interrupted:

    POST /v1/krd   bonds → key rate duration report
    POST /v1/pv    bonds → present values
    GET  /healthz
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listening address. Defaults to the configuration.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := newSession("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	defer s.logger.Sync()
	addr := s.cfg.Server.Addr
	if c.addr != "" {
		addr = c.addr
	}

	if err := server.New(s.reportOptions(), s.logger).ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
