package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/AaronXu9/plate-vs-client/internal/api"
)

func runAffinity(args []string) int {
	fs := flag.NewFlagSet("affinity", flag.ExitOnError)

	baseURL := fs.String("base-url", api.DefaultBaseURL, "PLATE-VS service root")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	protein := fs.String("protein", "", "UniProt accession to export (e.g. P00533)")
	smiles := fs.String("smiles", "", "SMILES string to export")
	output := fs.String("output", "", "Output file path (default: derived from the query)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: platevs affinity [options]

Download the affinity records matching a protein or SMILES query as CSV.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	if (*protein == "") == (*smiles == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -protein or -smiles is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	var filters api.AffinityFilters
	var path string
	if *protein != "" {
		filters.ProteinID = *protein
		path = fmt.Sprintf("affinity_uniprot_%s.csv", sanitizeQuery(*protein))
	} else {
		filters.SMILES = *smiles
		path = fmt.Sprintf("affinity_smiles_%s.csv", sanitizeQuery(*smiles))
	}
	if *output != "" {
		path = *output
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := newClient(*baseURL, *timeout)
	body, err := client.DownloadAffinity(ctx, filters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}
	defer body.Close()

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating file: %v\n", err)
		return ExitStorageError
	}

	n, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		return ExitStorageError
	}

	fmt.Fprintf(os.Stderr, "[platevs] Downloaded %d bytes to %s\n", n, path)
	return ExitSuccess
}

// sanitizeQuery makes a query safe to embed in a file name. SMILES
// strings may contain path separators.
func sanitizeQuery(q string) string {
	q = strings.ReplaceAll(q, "/", "_")
	q = strings.ReplaceAll(q, "\\", "_")
	if len(q) > 50 {
		q = q[:50]
	}
	return q
}
