package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/statement"
	"github.com/google/subcommands"
)

// exportCmd holds the flags for the 'export' subcommand.
type exportCmd struct {
	kind   string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "append the reconstructed trades to a JSONL ledger" }
func (*exportCmd) Usage() string {
	return `stmt export [-kind <kind>] [-o <ledger.jsonl>] <file>

  Parses a broker statement and writes one buy and one sell record per trade,
  followed by the trade itself. Trades without ticker, quantity or entry price
  are skipped.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "auto", "Statement kind: auto, csv, excel, text or pdf")
	f.StringVar(&c.output, "o", "", "Ledger file to append to. Defaults to stdout.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "export requires exactly one statement file")
		return subcommands.ExitUsageError
	}
	kind, err := statement.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing kind: %v\n", err)
		return subcommands.ExitUsageError
	}
	r, status := parseFile(f.Arg(0), kind)
	if status != subcommands.ExitSuccess {
		return status
	}

	var w io.Writer = os.Stdout
	target := "stdout"
	if c.output != "" {
		// Open the file in append mode, creating it if it doesn't exist.
		out, err := os.OpenFile(c.output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", c.output, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		w, target = out, c.output
	}

	written, skipped, err := statement.ExportLedger(w, r.Trades)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to %s: %v\n", target, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Exported %d trades to %s, skipped %d\n", written, target, skipped)
	return subcommands.ExitSuccess
}
