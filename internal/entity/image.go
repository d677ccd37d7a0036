package entity

import "time"

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job is the persisted record of one batch request.
type Job struct {
	ID        string            `json:"id"`
	Status    JobStatus         `json:"status"`
	Request   Request           `json:"request"`
	Sources   []string          `json:"sources"`
	Result    *BatchResult      `json:"result,omitempty"`
	Outputs   map[string]string `json:"outputs,omitempty"`
	Error     string            `json:"error,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ProcessingTask is the queue message that hands a stored job to a worker.
type ProcessingTask struct {
	JobID string `json:"job_id"`
}

type UploadResponse struct {
	ID     string    `json:"id"`
	Status JobStatus `json:"status"`
}

type JobResponse struct {
	ID      string            `json:"id"`
	Status  JobStatus         `json:"status"`
	Result  *BatchResult      `json:"result,omitempty"`
	Outputs map[string]string `json:"outputs,omitempty"`
	Error   string            `json:"error,omitempty"`
}
