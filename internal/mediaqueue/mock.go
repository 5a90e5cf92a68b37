package mediaqueue

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockSource re-emits every file found under a source folder on a fixed
// period, for demo purposes only. Each event carries a fresh uuid so repeated
// emissions of the same file stay distinguishable.
type MockSource struct {
	sourceDir string
	nTasks    int
	period    time.Duration
	out       chan MediaEvent
}

// NewMockSource builds a mock source. nTasks <= 0 means one producer per file
// found in sourceDir.
func NewMockSource(sourceDir string, nTasks int, period time.Duration) *MockSource {
	return &MockSource{
		sourceDir: sourceDir,
		nTasks:    nTasks,
		period:    period,
		out:       make(chan MediaEvent),
	}
}

func (s *MockSource) Events() <-chan MediaEvent {
	return s.out
}

func (s *MockSource) Run(ctx context.Context) error {
	defer close(s.out)

	var files []string
	err := filepath.WalkDir(s.sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", s.sourceDir, err)
	}

	n := s.nTasks
	if n <= 0 {
		n = len(files)
	}
	if len(files) < n {
		return fmt.Errorf(
			"requested %d tasks but only %d files in %s", n, len(files), s.sourceDir)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			s.produce(ctx, path)
		}(files[i])
	}
	wg.Wait()
	return nil
}

func (s *MockSource) produce(ctx context.Context, path string) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	for {
		select {
		case s.out <- MediaEvent{ID: uuid.NewString(), Path: path}:
		case <-ctx.Done():
			return
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}
