// Package main provides the entry point for decodeinst.
// decodeinst names the encoding format of a single ARM or Thumb instruction.
package main

import (
	"os"

	"github.com/retroenv/retrogolib/app"

	"github.com/rlopez44/cgba/cli"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	ctx := app.Context()

	a := &cli.App{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	os.Exit(a.Run(ctx, os.Args[1:]))
}
