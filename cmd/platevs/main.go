package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AaronXu9/plate-vs-client/internal/api"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitUnreachable  = 3
	ExitStorageError = 4
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "status":
		return runStatus(cmdArgs)
	case "search":
		return runSearch(cmdArgs)
	case "affinity":
		return runAffinity(cmdArgs)
	case "matrix":
		return runMatrix(cmdArgs)
	case "sdf":
		return runSdf(cmdArgs)
	case "mirror":
		return runMirror(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: platevs <command> [options]

Commands:
  status    Check that the PLATE-VS service is reachable
  search    Search affinity records by UniProt ID or SMILES
  affinity  Download affinity data for a query as CSV
  matrix    Download one similarity-matrix CSV (threshold + qcov level)
  sdf       Download one structure archive (threshold)
  mirror    Bulk-download the full similarity-matrix dataset

Run 'platevs <command> -h' for command-specific help.`)
}

// newClient builds an API client for the given base URL and timeout.
func newClient(baseURL string, timeout time.Duration) *api.Client {
	opts := api.DefaultOptions()
	if baseURL != "" {
		opts.BaseURL = baseURL
	}
	if timeout > 0 {
		opts.Timeout = timeout
	}
	return api.NewClient(opts)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\n[platevs] Received interrupt, shutting down...")
		cancel()
	}()

	return ctx, cancel
}
