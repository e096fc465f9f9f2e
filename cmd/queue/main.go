// ============================================================================
// Anvil - Main Entry Point
// ============================================================================
//
// File: cmd/queue/main.go
// Purpose: Application entry point and CLI initialization
//
// Version Injection:
//   Variables injected at build time via -ldflags:
//   go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
//
// Usage:
//   ./anvil serve                         # Start the Job Coordinator
//   ./anvil worker --coordinator host:port # Start a worker pool
//   ./anvil submit --operands 1,2,3       # Submit a demo job
//   ./anvil status --job <hex>            # Poll a job's status
//
// ============================================================================

package main

import (
	"fmt"
	"os"

	"github.com/anvil-run/anvil/internal/cli"
)

// Build-time version injection via ldflags.
var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "fatal error: %v\n", r)
			os.Exit(1)
		}
	}()

	rootCmd := cli.BuildCLI()
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
