// Package cli decouples the process entrypoint from the command
// implementation so tests can drive the full CLI in-process.
package cli

import (
	"fmt"
	"io"
)

// Handler is the command implementation. The main package wires it in an
// init function; tests may swap it to observe exit codes without forking.
var Handler func(args []string, stdout, stderr io.Writer) int

// Run dispatches to Handler and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	if Handler == nil {
		fmt.Fprintln(stderr, "internal error: cli handler not configured")
		return 1
	}
	return Handler(args, stdout, stderr)
}
