package mediaqueue

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("audio"), 0644))
	}
	return dir
}

func TestMockSource_EmitsDistinctEvents(t *testing.T) {
	dir := sampleDir(t, "one.mp3", "two.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewMockSource(dir, 0, 20*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	seen := make(map[string]bool)
	paths := make(map[string]bool)
	for i := 0; i < 6; i++ {
		select {
		case ev := <-src.Events():
			assert.False(t, seen[ev.ID], "event id %s repeated", ev.ID)
			seen[ev.ID] = true
			paths[ev.Path] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for mock events")
		}
	}

	// both files keep producing on the period
	assert.Len(t, paths, 2)

	cancel()
	require.NoError(t, <-done)
}

func TestMockSource_TooManyTasks(t *testing.T) {
	dir := sampleDir(t, "one.mp3")

	src := NewMockSource(dir, 5, time.Second)
	err := src.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requested 5 tasks")
}

func TestMockSource_ClosesEventsOnCancel(t *testing.T) {
	dir := sampleDir(t, "one.mp3")

	ctx, cancel := context.WithCancel(context.Background())
	src := NewMockSource(dir, 0, 10*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	// drain one event so the producer is known to be running
	select {
	case <-src.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("no event before cancel")
	}

	cancel()
	require.NoError(t, <-done)

	_, open := <-src.Events()
	assert.False(t, open, "events channel should be closed after Run returns")
}
