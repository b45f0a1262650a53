package activity

import "fmt"

// Step statuses.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// StepProgress is the status of a single activity step.
type StepProgress struct {
	Index  int    `json:"index"`
	Status string `json:"status"`
}

// Progress is the status of every step in an activity. Updates always
// replace the whole thing; there are no per-step patches.
type Progress struct {
	Steps []StepProgress `json:"steps"`
}

// NewProgress returns progress with every one of n steps not started.
func NewProgress(n int) Progress {
	steps := make([]StepProgress, 0, n)
	for i := 1; i <= n; i++ {
		steps = append(steps, StepProgress{Index: i, Status: StatusNotStarted})
	}
	return Progress{Steps: steps}
}

// Validate checks that the progress covers exactly the steps 1..n, each
// once, with a known status.
func (p Progress) Validate(n int) error {
	if len(p.Steps) != n {
		return fmt.Errorf("progress has %d steps, activity has %d", len(p.Steps), n)
	}

	seen := make(map[int]bool, n)
	for _, s := range p.Steps {
		if s.Index < 1 || s.Index > n {
			return fmt.Errorf("step index %d out of range 1..%d", s.Index, n)
		}
		if seen[s.Index] {
			return fmt.Errorf("duplicate step index %d", s.Index)
		}
		seen[s.Index] = true

		switch s.Status {
		case StatusNotStarted, StatusInProgress, StatusCompleted:
		default:
			return fmt.Errorf("step %d has unknown status %q", s.Index, s.Status)
		}
	}
	return nil
}
