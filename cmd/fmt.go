package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct {
	outputFile string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the bonds file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `krd fmt [-o <file>]

  Validates and formats the bonds file. Every bond is written on its own line,
  with fields in a canonical order. By default, the bonds file is formatted in-place.

Usage Examples:
# Formats the default bonds file.
$ krd fmt
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "", "Write the formatted bonds into this file instead.")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := DecodeBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeBook(book, c.outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %d bonds.\n", book.Len())
	return subcommands.ExitSuccess
}
