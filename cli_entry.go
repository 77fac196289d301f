package main

import (
	"os"

	"github.com/updrift/updrift/internal/cli"
)

func init() {
	cli.Handler = run
}

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
