// Package progress provides progress reporting for bulk downloads.
//
// This package outputs human-readable progress information, including
// per-category task counts, bytes transferred, and elapsed time.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{
//	    TotalMatrices: 24,
//	    TotalArchives: 6,
//	    Output:        os.Stderr,
//	})
//
//	reporter.Start()
//	defer reporter.Stop()
//
//	// Update as tasks complete
//	reporter.TaskStarted()
//	reporter.MatrixCompleted(written)
//
// # Output Format
//
//	[platevs] Mirroring: https://www.drugbench.org
//	[platevs] Tasks: 24 matrix CSVs + 6 structure archives
//	[platevs] Progress: 18/30 tasks | 2 failed | 1.13 GB | Elapsed: 1m 12s
package progress
