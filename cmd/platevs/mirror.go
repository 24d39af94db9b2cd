package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gocloud.dev/blob"

	"github.com/AaronXu9/plate-vs-client/internal/api"
	"github.com/AaronXu9/plate-vs-client/internal/bulk"
	"github.com/AaronXu9/plate-vs-client/internal/config"
	"github.com/AaronXu9/plate-vs-client/internal/progress"
)

// runMirror bulk-downloads the full similarity-matrix dataset: one matrix
// CSV per (coverage, threshold) pair plus one structure archive per
// threshold. Partial failures never abort the run and the summary is
// always printed; only an unreachable service exits non-zero.
func runMirror(args []string) int {
	fs := flag.NewFlagSet("mirror", flag.ExitOnError)

	configPath := fs.String("config", "", "YAML config file")
	baseURL := fs.String("base-url", "", "PLATE-VS service root")
	bucketURL := fs.String("bucket", "", "Destination bucket URL (e.g. file:///data/platevs)")
	thresholds := fs.String("thresholds", "", "Comma-separated similarity thresholds")
	qcovLevels := fs.String("qcov", "", "Comma-separated query coverage levels")
	workers := fs.Int("workers", 0, "Number of parallel download workers")
	timeout := fs.Duration("timeout", 0, "Request timeout")
	matrixInterval := fs.Duration("matrix-interval", 0, "Minimum spacing between matrix requests")
	archiveInterval := fs.Duration("archive-interval", 0, "Minimum spacing between archive requests")
	showProgress := fs.Bool("progress", false, "Show progress output")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: platevs mirror [options]

Download every similarity-matrix CSV and structure archive in the
configured (coverage x threshold) grid into a bucket. Requests are
paced to stay polite to the service; individual failures are tallied
and reported but never stop the run.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	// Configuration precedence: defaults < file < environment < flags.
	cfg := config.Default()
	if *configPath != "" {
		fileCfg, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitInvalidArgs
		}
		cfg = fileCfg
	}
	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	override := config.Config{
		BaseURL:         *baseURL,
		Bucket:          *bucketURL,
		Workers:         *workers,
		Timeout:         *timeout,
		MatrixInterval:  *matrixInterval,
		ArchiveInterval: *archiveInterval,
		Progress:        *showProgress,
	}
	if *thresholds != "" {
		parsed, err := config.ParseFloats(*thresholds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -thresholds: %v\n", err)
			return ExitInvalidArgs
		}
		override.Thresholds = parsed
	}
	if *qcovLevels != "" {
		parsed, err := config.ParseInts(*qcovLevels)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -qcov: %v\n", err)
			return ExitInvalidArgs
		}
		override.QcovLevels = parsed
	}
	cfg = cfg.Merge(override)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitInvalidArgs
	}

	ctx, cancel := signalContext()
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, cfg.Bucket)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening bucket: %v\n", err)
		return ExitStorageError
	}
	defer bucket.Close()

	apiOpts := api.DefaultOptions()
	apiOpts.BaseURL = cfg.BaseURL
	apiOpts.Timeout = cfg.Timeout
	client := api.NewClient(apiOpts)

	var reporter *progress.Reporter
	if cfg.Progress {
		reporter = progress.NewReporter(progress.Options{
			TotalMatrices: len(cfg.QcovLevels) * len(cfg.Thresholds),
			TotalArchives: len(cfg.Thresholds),
			BaseURL:       cfg.BaseURL,
		})
		reporter.Start()
		defer reporter.Stop()
	}

	summary, _, err := bulk.Run(ctx, client, bucket, cfg.QcovLevels, cfg.Thresholds, bulk.Options{
		Workers:         cfg.Workers,
		MatrixInterval:  cfg.MatrixInterval,
		ArchiveInterval: cfg.ArchiveInterval,
		Progress:        reporter,
		Log:             os.Stderr,
	})
	if err != nil {
		if errors.Is(err, bulk.ErrUnreachable) {
			fmt.Fprintf(os.Stderr, "Error: %s is not reachable, aborting\n", cfg.BaseURL)
			return ExitUnreachable
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	if reporter != nil {
		reporter.Stop()
	}
	printSummary(summary)

	// Partial failure still exits 0; the summary tells the story.
	return ExitSuccess
}

func printSummary(s bulk.Summary) {
	fmt.Printf("Matrix CSVs:        %d/%d\n", s.MatrixSucceeded, s.MatrixAttempted)
	fmt.Printf("Structure archives: %d/%d\n", s.ArchiveSucceeded, s.ArchiveAttempted)
	fmt.Printf("Downloaded:         %s\n", progress.FormatBytes(s.BytesWritten))
	fmt.Printf("Elapsed:            %s\n", progress.FormatDuration(s.Elapsed))
}
