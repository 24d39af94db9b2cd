package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/AaronXu9/plate-vs-client/internal/api"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ExitOnError)

	baseURL := fs.String("base-url", api.DefaultBaseURL, "PLATE-VS service root")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: platevs status [options]

Probe the PLATE-VS main page and API health endpoint.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := newClient(*baseURL, *timeout)
	status := client.CheckStatus(ctx)

	fmt.Printf("main: %s\n", reachable(status.Main))
	fmt.Printf("api:  %s\n", reachable(status.API))

	if !status.Main {
		return ExitUnreachable
	}
	return ExitSuccess
}

func reachable(ok bool) string {
	if ok {
		return "reachable"
	}
	return "unreachable"
}
