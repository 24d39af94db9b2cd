package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalMatrices is the number of matrix CSV tasks in the run.
	TotalMatrices int

	// TotalArchives is the number of structure archive tasks in the run.
	TotalArchives int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 2s
	UpdateInterval time.Duration

	// BaseURL is the service being mirrored (for display).
	BaseURL string
}

// Reporter outputs human-readable progress information for a bulk run.
type Reporter struct {
	opts Options

	mu               sync.Mutex
	matrixCompleted  atomic.Int32
	matrixFailed     atomic.Int32
	archiveCompleted atomic.Int32
	archiveFailed    atomic.Int32
	inProgress       atomic.Int32
	completedBytes   atomic.Int64
	startTime        time.Time
	stopCh           chan struct{}
	doneCh           chan struct{}
	stopped          bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 2 * time.Second
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()

	fmt.Fprintf(r.opts.Output, "[platevs] Mirroring: %s\n", r.opts.BaseURL)
	fmt.Fprintf(r.opts.Output, "[platevs] Tasks: %d matrix CSVs + %d structure archives\n",
		r.opts.TotalMatrices, r.opts.TotalArchives)

	go r.updateLoop()
}

// Stop stops the progress reporter and prints the final status line.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

// TaskStarted marks a task as in progress.
func (r *Reporter) TaskStarted() {
	r.inProgress.Add(1)
}

// MatrixCompleted records a successful matrix CSV download of size bytes.
func (r *Reporter) MatrixCompleted(size int64) {
	r.completedBytes.Add(size)
	r.matrixCompleted.Add(1)
	r.inProgress.Add(-1)
}

// MatrixFailed records a failed matrix CSV task.
func (r *Reporter) MatrixFailed() {
	r.matrixFailed.Add(1)
	r.inProgress.Add(-1)
}

// ArchiveCompleted records a successful archive download of size bytes.
func (r *Reporter) ArchiveCompleted(size int64) {
	r.completedBytes.Add(size)
	r.archiveCompleted.Add(1)
	r.inProgress.Add(-1)
}

// ArchiveFailed records a failed archive task.
func (r *Reporter) ArchiveFailed() {
	r.archiveFailed.Add(1)
	r.inProgress.Add(-1)
}

// updateLoop periodically updates the progress display.
func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

func (r *Reporter) counts() (done, failed, total int) {
	done = int(r.matrixCompleted.Load() + r.archiveCompleted.Load())
	failed = int(r.matrixFailed.Load() + r.archiveFailed.Load())
	total = r.opts.TotalMatrices + r.opts.TotalArchives
	return done, failed, total
}

// printProgress outputs the current progress.
func (r *Reporter) printProgress() {
	done, failed, total := r.counts()

	fmt.Fprintf(r.opts.Output, "[platevs] Progress: %d/%d tasks | %d failed | %s | Elapsed: %s\n",
		done+failed,
		total,
		failed,
		formatBytes(r.completedBytes.Load()),
		formatDuration(time.Since(r.startTime)),
	)
}

// printFinalStatus outputs the final status.
func (r *Reporter) printFinalStatus() {
	done, failed, total := r.counts()
	duration := time.Since(r.startTime)

	fmt.Fprintf(r.opts.Output, "[platevs] Finished: %d/%d tasks succeeded | %d failed | %s downloaded\n",
		done, total, failed, formatBytes(r.completedBytes.Load()))
	fmt.Fprintf(r.opts.Output, "[platevs] Total time: %s\n", formatDuration(duration))
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

// FormatDuration is exported for use by other packages.
func FormatDuration(d time.Duration) string {
	return formatDuration(d)
}
