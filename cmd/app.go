// Package cmd implements the CLI application to reconcile broker statements.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/statement"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Register the subcommands and the global flags.
// A main package will call Register() before flag.Parse(), and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	// .env is optional, real environment variables win.
	_ = godotenv.Load()
	registerFlags(flag.CommandLine)

	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&parseCmd{}, "statements")
	c.Register(&exportCmd{}, "statements")
	c.Register(&tickersCmd{}, "tickers")
	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var tickersFile string
var format = "markdown"
var maxBytes int64 = 32 << 20
var verbose bool

func registerFlags(f *flag.FlagSet) {
	f.StringVar(&tickersFile, "tickers-file", os.Getenv("STMT_TICKERS_FILE"), "YAML file mapping instrument names to tickers (env STMT_TICKERS_FILE)")
	f.StringVar(&format, "format", envString("STMT_FORMAT", format), "Output format: markdown, json or html (env STMT_FORMAT)")
	f.Int64Var(&maxBytes, "max-bytes", envInt64("STMT_MAX_BYTES", maxBytes), "Largest statement accepted, in bytes (env STMT_MAX_BYTES)")
	f.BoolVar(&verbose, "v", false, "Log format detection and column mappings")
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// newParser returns a Parser using the -tickers-file table, if any, and logging to stderr.
func newParser() (*statement.Parser, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := []statement.Option{statement.WithLogger(logger)}
	if tickersFile != "" {
		t, err := loadTickers(tickersFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, statement.WithTickers(t))
	}
	return statement.NewParser(opts...), nil
}

func loadTickers(path string) (*statement.TickerTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ticker table: %w", err)
	}
	defer f.Close()
	return statement.DecodeTickerTable(f)
}

var errTooLarge = errors.New("statement is larger than -max-bytes")

// readStatement reads a whole statement from path, or stdin for "-".
func readStatement(path string) ([]byte, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return readLimited(r, maxBytes)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}

// printMarkdown renders md for the terminal, or prints it as is when it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
