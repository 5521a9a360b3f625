// Command washboard is the terminal client for the laundry dashboard:
// an interactive TUI plus one-shot subcommands for scripting.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
