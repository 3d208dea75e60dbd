// Command outlint checks the output of integration actions.
//
//	outlint check <method> --result out.json [--app app.cue] [--db outlint.db]
//	outlint rules [--kind trigger]
//	outlint schema export | validate <app-file>
//	outlint changelog <version> [--dir DIR]
//	outlint history --db outlint.db
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/outlint/internal/cli"
)

var version = "dev"

func main() {
	root := cli.NewRootCommand()
	root.Version = version

	err := root.Execute()
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Commands report their own failures; only cobra's flag and argument
		// errors reach here unprinted.
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
