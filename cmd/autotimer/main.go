// autotimer: split timer for A Link to the Past.
//
// Usage:
//
//	autotimer run        # Track a live game through QUsb2Snes
//	autotimer replay     # Replay a recorded snapshot sequence
//	autotimer validate   # Validate check and tile data
//	autotimer stats      # Summarize completed runs
package main

import (
	"fmt"
	"os"

	"github.com/roach88/autotimer/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
