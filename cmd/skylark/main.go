package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/skylarkphone/skylark/internal/cli"
)

// Build-time variables (set via ldflags).
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	// GTK requires the main loop to run on the thread that created it.
	runtime.LockOSThread()
}

func main() {
	rootCmd := cli.NewRootCmd(version, commit, buildDate)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
