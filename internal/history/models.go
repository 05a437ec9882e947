package history

import "time"

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Params are recorded when a run begins.
type Params struct {
	ID        string
	InputDir  string
	OutputDir string
	Sample    float64
	MinCount  int64
	Seed      uint64
	Workers   int
	LogPath   string
}

// Totals are recorded when a run completes.
type Totals struct {
	Documents      int64 `json:"documents"`
	Tokens         int64 `json:"tokens"`
	Vocabulary     int64 `json:"vocabulary"`
	Kept           int64 `json:"kept"`
	DroppedRare    int64 `json:"dropped_rare"`
	DroppedSampled int64 `json:"dropped_sampled"`
	DroppedUnknown int64 `json:"dropped_unknown"`
}

// Run is one row of the ledger.
type Run struct {
	ID           string     `json:"id"`
	Status       Status     `json:"status"`
	InputDir     string     `json:"input_dir"`
	OutputDir    string     `json:"output_dir"`
	Sample       float64    `json:"sample"`
	MinCount     int64      `json:"min_count"`
	Seed         uint64     `json:"seed"`
	Workers      int        `json:"workers"`
	Totals       Totals     `json:"totals"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	LogPath      string     `json:"log_path,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Duration returns the run's wall time, or zero while it is running.
func (r *Run) Duration() time.Duration {
	if r == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
