package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/AaronXu9/plate-vs-client/internal/api"
	"github.com/AaronXu9/plate-vs-client/internal/bulk"
	"github.com/AaronXu9/plate-vs-client/internal/progress"
)

func runMatrix(args []string) int {
	fs := flag.NewFlagSet("matrix", flag.ExitOnError)

	baseURL := fs.String("base-url", api.DefaultBaseURL, "PLATE-VS service root")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	threshold := fs.Float64("threshold", 0.9, "Similarity threshold")
	qcov := fs.Int("qcov", 100, "Query coverage level (50, 70, 95, 100)")
	bucketURL := fs.String("bucket", "", "Destination bucket URL (required, e.g. file:///data/platevs)")
	object := fs.String("object", "", "Destination object name (default: derived from parameters)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: platevs matrix [options]

Download one similarity-matrix CSV for a threshold and coverage level.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if *bucketURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -bucket is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	task := bulk.Task{Kind: bulk.KindMatrix, Threshold: *threshold, QcovLevel: *qcov}
	return fetchOne(*baseURL, *timeout, *bucketURL, *object, task)
}

func runSdf(args []string) int {
	fs := flag.NewFlagSet("sdf", flag.ExitOnError)

	baseURL := fs.String("base-url", api.DefaultBaseURL, "PLATE-VS service root")
	timeout := fs.Duration("timeout", 30*time.Second, "Request timeout")
	threshold := fs.Float64("threshold", 0.9, "Similarity threshold")
	bucketURL := fs.String("bucket", "", "Destination bucket URL (required, e.g. file:///data/platevs)")
	object := fs.String("object", "", "Destination object name (default: derived from parameters)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: platevs sdf [options]

Download one compressed structure-file archive for a threshold.
The endpoint redirects to an object store; the redirect is followed.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}
	if *bucketURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -bucket is required")
		fs.Usage()
		return ExitInvalidArgs
	}

	task := bulk.Task{Kind: bulk.KindArchive, Threshold: *threshold}
	return fetchOne(*baseURL, *timeout, *bucketURL, *object, task)
}

// fetchOne downloads a single artifact into the bucket.
func fetchOne(baseURL string, timeout time.Duration, bucketURL, object string, task bulk.Task) int {
	ctx, cancel := signalContext()
	defer cancel()

	client := newClient(baseURL, timeout)

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
		return ExitStorageError
	}
	defer bucket.Close()

	var body io.ReadCloser
	switch task.Kind {
	case bulk.KindArchive:
		body, err = client.StructureArchive(ctx, task.Threshold)
	default:
		body, err = client.MatrixCSV(ctx, task.Threshold, task.QcovLevel)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	if object == "" {
		object = task.Object()
	}
	if err := bucket.WriteAll(ctx, object, data, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing object: %v\n", err)
		return ExitStorageError
	}

	fmt.Fprintf(os.Stderr, "[platevs] Downloaded %s to %s/%s\n",
		progress.FormatBytes(int64(len(data))), bucketURL, object)
	return ExitSuccess
}
