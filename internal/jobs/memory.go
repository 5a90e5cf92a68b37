package jobs

import (
	"context"
	"sync"
	"time"
)

type memoryRegistry struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		jobs: make(map[string]Job),
	}
}

func (r *memoryRegistry) Put(_ context.Context, job Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.UpdatedAt = time.Now()
	r.jobs[job.GeneratedName] = job
	return nil
}

func (r *memoryRegistry) Get(_ context.Context, generatedName string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[generatedName]
	if !ok {
		return Job{}, ErrNotFound
	}
	return job, nil
}

func (r *memoryRegistry) SetStatus(_ context.Context, generatedName string, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[generatedName]
	if !ok {
		return ErrNotFound
	}
	job.Status = status
	job.UpdatedAt = time.Now()
	r.jobs[generatedName] = job
	return nil
}

func (r *memoryRegistry) SetResult(_ context.Context, generatedName, outputPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[generatedName]
	if !ok {
		return ErrNotFound
	}
	job.OutputPath = outputPath
	job.UpdatedAt = time.Now()
	r.jobs[generatedName] = job
	return nil
}

func (r *memoryRegistry) List(_ context.Context) ([]Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, job)
	}
	return out, nil
}
