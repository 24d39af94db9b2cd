package bulk

import (
	"fmt"

	"github.com/AaronXu9/plate-vs-client/internal/api"
)

// Kind identifies the artifact category a task downloads.
type Kind int

const (
	// KindMatrix is a similarity-matrix CSV for a (qcov, threshold) pair.
	KindMatrix Kind = iota
	// KindArchive is a compressed structure-file bundle for a threshold.
	KindArchive
)

func (k Kind) String() string {
	switch k {
	case KindMatrix:
		return "matrix"
	case KindArchive:
		return "archive"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Task is one artifact to download. Immutable once enumerated.
type Task struct {
	Kind      Kind
	Threshold float64
	QcovLevel int // matrix tasks only
}

// Object returns the deterministic destination object name for the task.
func (t Task) Object() string {
	if t.Kind == KindArchive {
		return fmt.Sprintf("similarity_sdf_threshold_%s.tar.gz", api.FormatThreshold(t.Threshold))
	}
	return fmt.Sprintf("similarity_matrix_qcov%d_threshold_%s.csv", t.QcovLevel, api.FormatThreshold(t.Threshold))
}

func (t Task) String() string {
	if t.Kind == KindArchive {
		return fmt.Sprintf("archive threshold=%s", api.FormatThreshold(t.Threshold))
	}
	return fmt.Sprintf("matrix qcov=%d threshold=%s", t.QcovLevel, api.FormatThreshold(t.Threshold))
}

// Tasks enumerates the download grid: one matrix task per (coverage,
// threshold) pair in coverage-major order, followed by one archive task
// per threshold. The result is fully determined by the two input lists.
func Tasks(qcovLevels []int, thresholds []float64) []Task {
	tasks := make([]Task, 0, len(qcovLevels)*len(thresholds)+len(thresholds))

	for _, qcov := range qcovLevels {
		for _, threshold := range thresholds {
			tasks = append(tasks, Task{
				Kind:      KindMatrix,
				Threshold: threshold,
				QcovLevel: qcov,
			})
		}
	}

	for _, threshold := range thresholds {
		tasks = append(tasks, Task{
			Kind:      KindArchive,
			Threshold: threshold,
		})
	}

	return tasks
}
