// Package bulk mirrors the PLATE-VS similarity-matrix dataset.
//
// This package enumerates the full download grid — one matrix CSV per
// (query-coverage level, threshold) pair, plus one structure archive per
// threshold — and fetches each artifact through the API client, writing
// successful responses to a gocloud.dev blob bucket.
//
// # Usage
//
// The main entry point is the Run function:
//
//	summary, results, err := bulk.Run(ctx, client, bucket, qcovLevels, thresholds, bulk.Options{
//	    Workers:  1,
//	    Progress: reporter,
//	})
//
// # Failure Semantics
//
// One reachability probe runs before any task; if the service is down,
// Run returns ErrUnreachable without attempting anything. After that,
// failures are strictly task-local: a failed download is recorded in its
// Result and tallied in the Summary, and the run always continues to the
// end. There is no retry, no resume, and reruns overwrite existing
// objects.
//
// # Pacing
//
// Requests are spaced by per-category rate limiters shared across the
// whole worker pool, so raising Workers never increases the request rate
// against the service. Results keep enumeration order regardless of
// worker count.
package bulk
