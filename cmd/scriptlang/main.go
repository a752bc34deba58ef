// Command scriptlang is the CLI entry point: `scriptlang [-m MEMORY_LIMIT_MB]
// FILE [ARG...]`.
package main

import (
	"os"

	"github.com/cwbudde/scriptlang/cmd/scriptlang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
