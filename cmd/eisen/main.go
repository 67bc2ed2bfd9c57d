// Command eisen is an Eisenhower matrix task manager for the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/Iron-Ham/eisen/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
