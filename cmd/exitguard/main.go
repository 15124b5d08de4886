// Command exitguard runs a daemon whose resources are released by cleanup
// listeners before the process terminates, and inspects past shutdowns.
package main

import (
	"fmt"
	"os"

	"github.com/yndnr/exitguard/internal/cli/command"
)

func main() {
	if err := command.App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
