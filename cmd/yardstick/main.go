package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/yardstick-io/yardstick/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	// Commands print their own failures through the formatter; cobra's
	// echo would duplicate them.
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	if err := cmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// Flag and usage errors never went through a formatter.
			fmt.Fprintln(os.Stderr, err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
