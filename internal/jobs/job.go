package jobs

import "time"

// Status of an enhancement job. The remote API owns the lifecycle; these
// values mirror what it reports.
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// IsFinished reports whether the remote service is done with the job.
func (s Status) IsFinished() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one media-enhancement request, keyed by the generated name the
// remote API assigns on upload.
type Job struct {
	GeneratedName string    `json:"generated_name"`
	SourcePath    string    `json:"source_path"`
	Status        Status    `json:"status"`
	OutputPath    string    `json:"output_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
