package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/statement"
	"github.com/etnz/statement/renderer"
	"github.com/google/subcommands"
)

// parseCmd holds the flags for the 'parse' subcommand.
type parseCmd struct {
	kind       string
	query      string
	incomplete bool
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "reconstruct the trades of a broker statement" }
func (*parseCmd) Usage() string {
	return `stmt parse [-kind <kind>] [-q <jsonpath>] [-incomplete] <file>

  Reads a broker statement (CSV, TSV, Excel, PDF or an execution log) and
  prints the trades, holdings and summary it contains. Use "-" to read stdin.

  -q prints only the JSON value selected by a JSONPath expression, e.g.
  '$.summary.totalPnl' or '$.trades[?(@.status=="incomplete")].ticker'.
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "auto", "Statement kind: auto, csv, excel, text or pdf")
	f.StringVar(&c.query, "q", "", "JSONPath expression selecting part of the result")
	f.BoolVar(&c.incomplete, "incomplete", false, "Only report incomplete trades and what they miss")
}

func (c *parseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "parse requires exactly one statement file")
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

	if c.query != "" {
		v, err := query(r, c.query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error evaluating %q: %v\n", c.query, err)
			return subcommands.ExitFailure
		}
		return printJSON(v)
	}

	switch format {
	case "json":
		return printJSON(r)
	case "markdown", "md":
		printMarkdown(c.markdown(r))
	case "html":
		html, err := renderer.HTML(c.markdown(r))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering html: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Print(html)
	default:
		fmt.Fprintf(os.Stderr, "unknown -format %q, want markdown, json or html\n", format)
		return subcommands.ExitUsageError
	}
	return subcommands.ExitSuccess
}

func (c *parseCmd) markdown(r *statement.Result) string {
	if c.incomplete {
		return renderer.TradesMarkdown(r)
	}
	return renderer.ResultMarkdown(r)
}

// parseFile reads and parses a statement, reporting errors on stderr.
func parseFile(path string, kind statement.Kind) (*statement.Result, subcommands.ExitStatus) {
	data, err := readStatement(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", path, err)
		return nil, subcommands.ExitFailure
	}
	p, err := newParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tickers %q: %v\n", tickersFile, err)
		return nil, subcommands.ExitFailure
	}
	r, err := p.Parse(data, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %q: %v\n", path, err)
		return nil, subcommands.ExitFailure
	}
	return r, subcommands.ExitSuccess
}

// query evaluates a JSONPath expression on the JSON form of r.
func query(r *statement.Result, path string) (any, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var jobj any
	if err := json.Unmarshal(b, &jobj); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	// jsonpath returns a list of 1 answer for a single value: keep the first one.
	if jlist, ok := jval.([]any); ok && len(jlist) == 1 {
		jval = jlist[0]
	}
	return jval, nil
}

func printJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding json: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
