package mediaqueue

import "context"

// MediaEvent announces a local file that is ready to be uploaded for
// enhancement.
type MediaEvent struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// Source delivers media events until its context is cancelled. Run blocks;
// Events is closed when Run returns.
type Source interface {
	Events() <-chan MediaEvent
	Run(ctx context.Context) error
}
