package jobs

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("job not found")

// Registry tracks submitted jobs for the lifetime of an example run. It is a
// cache over the remote API's state, not a durable store.
type Registry interface {
	Put(ctx context.Context, job Job) error
	Get(ctx context.Context, generatedName string) (Job, error)
	SetStatus(ctx context.Context, generatedName string, status Status) error
	SetResult(ctx context.Context, generatedName, outputPath string) error
	List(ctx context.Context) ([]Job, error)
}
