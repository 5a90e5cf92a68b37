package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRegistry_PutGet(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	err := reg.Put(ctx, Job{
		GeneratedName: "f0e6c12c",
		SourcePath:    "samples/sample.mp3",
		Status:        StatusSubmitted,
	})
	require.NoError(t, err)

	job, err := reg.Get(ctx, "f0e6c12c")
	require.NoError(t, err)
	assert.Equal(t, "samples/sample.mp3", job.SourcePath)
	assert.Equal(t, StatusSubmitted, job.Status)
	assert.False(t, job.CreatedAt.IsZero())
}

func TestMemoryRegistry_GetMissing(t *testing.T) {
	reg := NewMemoryRegistry()

	_, err := reg.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRegistry_SetStatusAndResult(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	require.NoError(t, reg.Put(ctx, Job{GeneratedName: "abc", Status: StatusSubmitted}))

	require.NoError(t, reg.SetStatus(ctx, "abc", StatusCompleted))
	require.NoError(t, reg.SetResult(ctx, "abc", "results/abc.wav"))

	job, err := reg.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, job.Status)
	assert.Equal(t, "results/abc.wav", job.OutputPath)

	assert.ErrorIs(t, reg.SetStatus(ctx, "missing", StatusFailed), ErrNotFound)
	assert.ErrorIs(t, reg.SetResult(ctx, "missing", "x"), ErrNotFound)
}

func TestMemoryRegistry_List(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	require.NoError(t, reg.Put(ctx, Job{GeneratedName: "a"}))
	require.NoError(t, reg.Put(ctx, Job{GeneratedName: "b"}))

	all, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
