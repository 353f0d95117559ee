// Command lctrace builds a lifecycle tree from a scenario file, replays
// lifecycle steps against it and traces what every node receives.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/lifecycle/cmd/lctrace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
