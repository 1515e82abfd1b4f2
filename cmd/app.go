// Package cmd implements the krd command line application.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/krd"
	"github.com/etnz/krd/config"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// group lists commands displayed together in the help.
type group struct {
	name string
	cmds []subcommands.Command
}

func groups() []group {
	return []group{
		{"durations", []subcommands.Command{&reportCmd{}, &pvCmd{}, &annualizeCmd{}}},
		{"bonds", []subcommands.Command{&fmtCmd{}}},
		{"services", []subcommands.Command{&serveCmd{}, &assistCmd{}}},
		{"help", []subcommands.Command{&topicCmd{}}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "help")
	c.Register(c.FlagsCommand(), "help")
	c.Register(c.CommandsCommand(), "help")
	for _, g := range groups() {
		for _, cmd := range g.cmds {
			c.Register(cmd, g.name)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	bondsFile  = flag.String("bonds", "bonds.jsonl", "Path to the bonds file (JSONL format)")
	configFile = flag.String("config", "", "Path to a krd.yaml configuration file. Searched in . and $HOME/.krd by default")
	// Verbose raises the log level to debug.
	Verbose = flag.Bool("v", false, "Log debug messages")
)

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// session holds what a command needs to compute: the resolved configuration and a logger.
type session struct {
	cfg    *config.Config
	conv   krd.Convention
	mode   krd.Compounding
	logger *zap.Logger
}

// newSession loads the configuration. A non empty mode overrides the configured
// compounding.
func newSession(mode string) (*session, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if mode != "" {
		cfg.Compounding = mode
	}
	if *Verbose {
		cfg.Log.Level = "debug"
	}

	s := &session{cfg: cfg}
	if s.conv, err = cfg.Convention(); err != nil {
		return nil, err
	}
	if s.mode, err = cfg.Mode(); err != nil {
		return nil, err
	}
	if s.logger, err = NewLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
		return nil, fmt.Errorf("invalid log configuration: %w", err)
	}
	return s, nil
}

func (s *session) reportOptions() krd.ReportOptions {
	return krd.ReportOptions{
		Convention: s.conv,
		Mode:       s.mode,
		Workers:    s.cfg.Workers,
		Logger:     s.logger,
		Currency:   s.cfg.Currency,
	}
}

// DecodeBook decodes the book from the app bonds file.
func DecodeBook() (*krd.Book, error) {
	return krd.LoadBook(*bondsFile)
}

// EncodeBook writes the book into the app bonds file, or into path if not empty.
func EncodeBook(book *krd.Book, path string) error {
	if path == "" {
		path = *bondsFile
	}
	return krd.SaveBook(path, book)
}
