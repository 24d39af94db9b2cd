package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/AaronXu9/plate-vs-client/internal/api"
)

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	baseURL := fs.String("base-url", api.DefaultBaseURL, "PLATE-VS service root")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	protein := fs.String("protein", "", "UniProt accession to search for (e.g. P00533)")
	smiles := fs.String("smiles", "", "SMILES string to search for")
	similar := fs.Bool("similar", false, "Similarity search instead of exact SMILES match")
	threshold := fs.Float64("threshold", 0.7, "Similarity threshold for -similar")
	limit := fs.Int("limit", 100, "Maximum number of results")
	page := fs.Int("page", 1, "Result page")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: platevs search [options]

Search affinity records by UniProt protein ID or SMILES string.

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
	if *similar && *smiles == "" {
		fmt.Fprintln(os.Stderr, "Error: -similar requires -smiles")
		return ExitInvalidArgs
	}

	ctx, cancel := signalContext()
	defer cancel()

	client := newClient(*baseURL, *timeout)

	var molecules []api.Molecule
	var total int

	if *similar {
		found, err := client.SearchSimilar(ctx, *smiles, *threshold, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneralError
		}
		molecules = found
		total = len(found)
	} else {
		resultPage, err := client.SearchMolecules(ctx, api.MoleculeQuery{
			ProteinID: *protein,
			SMILES:    *smiles,
			Page:      *page,
			Limit:     *limit,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitGeneralError
		}
		molecules = resultPage.Data
		total = resultPage.Total
	}

	fmt.Printf("%d result(s)\n", total)
	for _, m := range molecules {
		fmt.Printf("%d\t%s\t%s\t%.2f %s\n", m.ID, m.ProteinID, m.SMILES, m.Affinity, m.Unit)
	}

	return ExitSuccess
}
