package main

import (
	"context"
	"os"

	"github.com/tphakala/smartwaste/cmd"
)

// Set at build time with -ldflags.
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := cmd.RootCommand(version, buildDate).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
