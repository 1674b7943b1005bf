package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/statement"
	"github.com/google/subcommands"
)

type tickersCmd struct{}

func (*tickersCmd) Name() string     { return "tickers" }
func (*tickersCmd) Synopsis() string { return "print the ticker table or resolve instrument names" }
func (*tickersCmd) Usage() string {
	return `stmt tickers [<instrument name>...]

  Without arguments, prints the ticker table in the YAML format accepted by
  -tickers-file. Otherwise prints the ticker each name resolves to.
`
}

func (*tickersCmd) SetFlags(*flag.FlagSet) {}

func (*tickersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	table := statement.DefaultTickers()
	if tickersFile != "" {
		t, err := loadTickers(tickersFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading tickers %q: %v\n", tickersFile, err)
			return subcommands.ExitFailure
		}
		table = t
	}

	if f.NArg() == 0 {
		if err := statement.EncodeTickerTable(os.Stdout, table); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	status := subcommands.ExitSuccess
	for _, name := range f.Args() {
		ticker := table.Lookup(name)
		if ticker == "" {
			ticker = "?"
			status = subcommands.ExitFailure
		}
		fmt.Printf("%s\t%s\n", name, ticker)
	}
	return status
}
