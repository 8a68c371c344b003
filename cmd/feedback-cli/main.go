// Package main provides the feedback engine CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/civiclens/feedback-engine/cmd/feedback-cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
