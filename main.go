// Package main provides the entry point for decodeinst when run from the
// repository root. It behaves exactly like ./cmd/decodeinst.
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
	a := &cli.App{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
	os.Exit(a.Run(app.Context(), os.Args[1:]))
}
