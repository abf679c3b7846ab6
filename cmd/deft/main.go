// Command deft is the command line of the deft feature tracker.
package main

import (
	"os"

	"github.com/roach88/deft/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
