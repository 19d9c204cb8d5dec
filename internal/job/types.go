package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents the kind of job
type JobType string

const (
	JobRename JobType = "rename"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job represents a queued rename task
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	FilePath    string          `json:"file_path"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// RenameParams are parameters for a rename job
type RenameParams struct {
	UserPrompt string `json:"user_prompt"` // extra context for the naming model
	MaxFrames  int    `json:"max_frames"`  // visual clue sample count, 0 = default
	OutputDir  string `json:"output_dir"`  // where copied files land, "" = server default
}

// RenameResult is the output of a successful rename
type RenameResult struct {
	NewName  string `json:"new_name"`
	DestPath string `json:"dest_path"`
	Reason   string `json:"reason"`
	Tags     string `json:"tags"`
	Question string `json:"question,omitempty"`
	Moved    bool   `json:"moved"` // renamed in place (large file) vs copied
}

// JobHandler processes a job. The implementation is provided by the renamer
// service.
type JobHandler func(ctx context.Context, job *Job, updateProgress func(float64)) error
