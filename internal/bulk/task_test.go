package bulk

import (
	"testing"
)

func TestTasksEnumeration(t *testing.T) {
	thresholds := []float64{0.0, 0.5, 0.9}
	qcovLevels := []int{50, 100}

	tasks := Tasks(qcovLevels, thresholds)

	wantTotal := len(qcovLevels)*len(thresholds) + len(thresholds)
	if len(tasks) != wantTotal {
		t.Fatalf("expected %d tasks, got %d", wantTotal, len(tasks))
	}

	// Matrix tasks come first, coverage-major, threshold-minor.
	wantMatrix := []Task{
		{Kind: KindMatrix, QcovLevel: 50, Threshold: 0.0},
		{Kind: KindMatrix, QcovLevel: 50, Threshold: 0.5},
		{Kind: KindMatrix, QcovLevel: 50, Threshold: 0.9},
		{Kind: KindMatrix, QcovLevel: 100, Threshold: 0.0},
		{Kind: KindMatrix, QcovLevel: 100, Threshold: 0.5},
		{Kind: KindMatrix, QcovLevel: 100, Threshold: 0.9},
	}
	for i, want := range wantMatrix {
		if tasks[i] != want {
			t.Errorf("task %d = %+v, want %+v", i, tasks[i], want)
		}
	}

	// Archive tasks follow, one per threshold.
	wantArchive := []Task{
		{Kind: KindArchive, Threshold: 0.0},
		{Kind: KindArchive, Threshold: 0.5},
		{Kind: KindArchive, Threshold: 0.9},
	}
	for i, want := range wantArchive {
		got := tasks[len(wantMatrix)+i]
		if got != want {
			t.Errorf("archive task %d = %+v, want %+v", i, got, want)
		}
	}
}

func TestTasksDeterministic(t *testing.T) {
	thresholds := []float64{0.1, 0.7}
	qcovLevels := []int{70, 95}

	a := Tasks(qcovLevels, thresholds)
	b := Tasks(qcovLevels, thresholds)

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("task %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestTasksEmpty(t *testing.T) {
	if got := Tasks(nil, nil); len(got) != 0 {
		t.Errorf("expected no tasks, got %d", len(got))
	}
	// Coverage levels without thresholds enumerate nothing.
	if got := Tasks([]int{50, 100}, nil); len(got) != 0 {
		t.Errorf("expected no tasks, got %d", len(got))
	}
}

func TestTaskObject(t *testing.T) {
	tests := []struct {
		task Task
		want string
	}{
		{Task{Kind: KindMatrix, QcovLevel: 100, Threshold: 0.9}, "similarity_matrix_qcov100_threshold_0.9.csv"},
		{Task{Kind: KindMatrix, QcovLevel: 50, Threshold: 0.0}, "similarity_matrix_qcov50_threshold_0.csv"},
		{Task{Kind: KindArchive, Threshold: 0.7}, "similarity_sdf_threshold_0.7.tar.gz"},
		{Task{Kind: KindArchive, Threshold: 0.0}, "similarity_sdf_threshold_0.tar.gz"},
	}

	for _, tt := range tests {
		if got := tt.task.Object(); got != tt.want {
			t.Errorf("Object(%+v) = %q, want %q", tt.task, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindMatrix.String() != "matrix" {
		t.Errorf("KindMatrix = %q", KindMatrix.String())
	}
	if KindArchive.String() != "archive" {
		t.Errorf("KindArchive = %q", KindArchive.String())
	}
}
