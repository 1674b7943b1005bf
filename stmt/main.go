package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/statement/cmd"
	"github.com/google/subcommands"
)

func main() {
	cmd.Completion().Complete("stmt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
