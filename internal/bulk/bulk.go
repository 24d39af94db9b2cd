package bulk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gocloud.dev/blob"
	"golang.org/x/time/rate"

	"github.com/AaronXu9/plate-vs-client/internal/api"
	"github.com/AaronXu9/plate-vs-client/internal/progress"
)

// ErrUnreachable is returned when the pre-run reachability probe fails.
// No task is attempted in that case.
var ErrUnreachable = errors.New("bulk: service not reachable")

// Options configures a bulk run.
type Options struct {
	// Workers is the number of parallel download workers.
	// Default: 1 (strictly sequential).
	Workers int

	// MatrixInterval is the minimum spacing between matrix CSV requests,
	// shared across all workers. Default: 500ms.
	MatrixInterval time.Duration

	// ArchiveInterval is the minimum spacing between archive requests.
	// Archives are larger, so they get a longer interval. Default: 1s.
	ArchiveInterval time.Duration

	// Progress is an optional progress reporter.
	Progress *progress.Reporter

	// Log receives one line per task outcome. Default: discarded.
	Log io.Writer
}

// Result is the outcome of one task.
type Result struct {
	Task   Task
	Object string // destination object name, set on success
	Size   int64  // bytes written, set on success
	Err    error
}

// Succeeded reports whether the task completed and its artifact was written.
func (r Result) Succeeded() bool {
	return r.Err == nil
}

// Summary aggregates the outcome of a bulk run.
type Summary struct {
	MatrixAttempted  int
	MatrixSucceeded  int
	ArchiveAttempted int
	ArchiveSucceeded int
	BytesWritten     int64
	Elapsed          time.Duration
}

// Run downloads every artifact in the (qcovLevels × thresholds) grid into
// bucket. It probes service reachability once up front and returns
// ErrUnreachable without attempting any task if the probe fails. After
// that, per-task failures are recorded and tallied but never abort the
// run. Results are returned in enumeration order.
func Run(ctx context.Context, client *api.Client, bucket *blob.Bucket, qcovLevels []int, thresholds []float64, opts Options) (Summary, []Result, error) {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.MatrixInterval <= 0 {
		opts.MatrixInterval = 500 * time.Millisecond
	}
	if opts.ArchiveInterval <= 0 {
		opts.ArchiveInterval = time.Second
	}
	if opts.Log == nil {
		opts.Log = io.Discard
	}

	start := time.Now()

	if status := client.CheckStatus(ctx); !status.Main {
		return Summary{}, nil, ErrUnreachable
	}

	tasks := Tasks(qcovLevels, thresholds)
	results := make([]Result, len(tasks))

	// Pool-wide pacing: one limiter per artifact category, so extra
	// workers never increase the request rate against the service.
	matrixLimit := rate.NewLimiter(rate.Every(opts.MatrixInterval), 1)
	archiveLimit := rate.NewLimiter(rate.Every(opts.ArchiveInterval), 1)

	jobs := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				task := tasks[idx]

				limiter := matrixLimit
				if task.Kind == KindArchive {
					limiter = archiveLimit
				}
				if err := limiter.Wait(ctx); err != nil {
					results[idx] = Result{Task: task, Err: err}
					continue
				}

				results[idx] = runTask(ctx, client, bucket, task, opts)
			}
		}()
	}

	// Feed tasks in enumeration order.
	for idx := range tasks {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	summary := summarize(results)
	summary.Elapsed = time.Since(start)
	return summary, results, nil
}

// runTask fetches one artifact and writes it to the bucket. Any failure
// is returned in the Result; nothing escalates past this boundary.
func runTask(ctx context.Context, client *api.Client, bucket *blob.Bucket, task Task, opts Options) Result {
	if opts.Progress != nil {
		opts.Progress.TaskStarted()
	}

	result := Result{Task: task}

	var body io.ReadCloser
	var err error
	switch task.Kind {
	case KindArchive:
		body, err = client.StructureArchive(ctx, task.Threshold)
	default:
		body, err = client.MatrixCSV(ctx, task.Threshold, task.QcovLevel)
	}
	if err != nil {
		return failed(result, fmt.Errorf("fetch %s: %w", task, err), opts)
	}

	// Buffer the whole artifact so only complete responses reach the
	// bucket; a failed task never leaves a partial object behind.
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return failed(result, fmt.Errorf("read %s: %w", task, err), opts)
	}

	object := task.Object()
	if err := bucket.WriteAll(ctx, object, data, nil); err != nil {
		return failed(result, fmt.Errorf("write %s: %w", object, err), opts)
	}

	result.Object = object
	result.Size = int64(len(data))

	if opts.Progress != nil {
		if task.Kind == KindArchive {
			opts.Progress.ArchiveCompleted(result.Size)
		} else {
			opts.Progress.MatrixCompleted(result.Size)
		}
	}
	fmt.Fprintf(opts.Log, "[platevs] %s: ok (%s)\n", task, progress.FormatBytes(result.Size))

	return result
}

func failed(result Result, err error, opts Options) Result {
	result.Err = err
	if opts.Progress != nil {
		if result.Task.Kind == KindArchive {
			opts.Progress.ArchiveFailed()
		} else {
			opts.Progress.MatrixFailed()
		}
	}
	fmt.Fprintf(opts.Log, "[platevs] %s: failed: %v\n", result.Task, err)
	return result
}

func summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Task.Kind {
		case KindArchive:
			s.ArchiveAttempted++
			if r.Succeeded() {
				s.ArchiveSucceeded++
				s.BytesWritten += r.Size
			}
		default:
			s.MatrixAttempted++
			if r.Succeeded() {
				s.MatrixSucceeded++
				s.BytesWritten += r.Size
			}
		}
	}
	return s
}
