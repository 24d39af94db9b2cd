// Package api provides a client for the PLATE-VS web service.
//
// PLATE-VS (https://www.drugbench.org) serves protein-ligand affinity
// data. This package handles:
//   - Molecule search by UniProt protein ID or SMILES string
//   - Similarity search by SMILES
//   - Affinity data downloads as CSV
//   - Similarity-matrix CSV and structure-archive downloads
//   - Service reachability probes
//
// # Usage
//
//	client := api.NewClient(api.DefaultOptions())
//
//	// Check the service is up
//	status := client.CheckStatus(ctx)
//	// status.Main, status.API
//
//	// Fetch a similarity matrix CSV
//	body, err := client.MatrixCSV(ctx, 0.9, 100)
//	defer body.Close()
//
// Requests carry a bounded timeout and follow redirects transparently;
// the structure-archive endpoint redirects to an object store. Non-2xx
// responses are reported as errors, several of them as sentinel values
// suitable for errors.Is.
package api
