package pipeline

import (
	"fmt"
	"time"

	"reelbuild/internal/stage"
)

// StageError carries the format and stage where a run failed.
type StageError struct {
	Format string
	Stage  stage.Name
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Format, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// FormatResult is the final state of one selected format.
type FormatResult struct {
	Format      string                       `json:"format"`
	State       stage.State                  `json:"state"`
	Stages      map[stage.Name]stage.Outcome `json:"stages"`
	FailedStage stage.Name                   `json:"failed_stage,omitempty"`
	Cause       string                       `json:"cause,omitempty"`
}

func newFormatResult(key string) FormatResult {
	stages := make(map[stage.Name]stage.Outcome, len(stage.Order))
	for _, n := range stage.Order {
		stages[n] = stage.OutcomeNotReached
	}
	return FormatResult{Format: key, State: stage.StateNotStarted, Stages: stages}
}

// Outcome returns the recorded outcome of stage n.
func (r FormatResult) Outcome(n stage.Name) stage.Outcome {
	if outcome, ok := r.Stages[n]; ok {
		return outcome
	}
	return stage.OutcomeNotReached
}

// Summary reports what a run did.
type Summary struct {
	RunID        string         `json:"run_id"`
	StartedAt    time.Time      `json:"started_at"`
	FinishedAt   time.Time      `json:"finished_at"`
	Succeeded    bool           `json:"succeeded"`
	Error        string         `json:"error,omitempty"`
	ErrorKind    string         `json:"error_kind,omitempty"`
	Hint         string         `json:"hint,omitempty"`
	Formats      []FormatResult `json:"formats"`
	ManifestPath string         `json:"manifest_path,omitempty"`
	PrunedFrames []string       `json:"pruned_frames,omitempty"`
}

// Result returns the entry for key, or nil when the format was not selected.
func (s *Summary) Result(key string) *FormatResult {
	if s == nil {
		return nil
	}
	for i := range s.Formats {
		if s.Formats[i].Format == key {
			return &s.Formats[i]
		}
	}
	return nil
}

// Count tallies stage outcomes across all formats.
func (s *Summary) Count(outcome stage.Outcome) int {
	if s == nil {
		return 0
	}
	total := 0
	for _, r := range s.Formats {
		for _, n := range stage.Order {
			if r.Outcome(n) == outcome {
				total++
			}
		}
	}
	return total
}

// Duration returns the wall time of the run.
func (s *Summary) Duration() time.Duration {
	if s == nil || s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
