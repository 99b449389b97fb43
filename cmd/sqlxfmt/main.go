// Package main is the entry point for the sqlxfmt CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/sqlxfmt/internal/cli"
	"github.com/yaklabco/sqlxfmt/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// The check command already reported which files are unformatted.
		if !errors.Is(err, cli.ErrUnformattedFiles) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return 1
	}

	return 0
}
