package enhance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-coustics/media-enhance-go/internal/jobs"
)

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mp3")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestAPIClient_Upload(t *testing.T) {
	var gotAPIKey, gotTranscode, gotFilename string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/media/enhance", r.URL.Path)

		gotAPIKey = r.Header.Get("X-API-Key")

		require.NoError(t, r.ParseMultipartForm(20<<20))
		gotTranscode = r.FormValue("transcode_kind")
		assert.Equal(t, "-14", r.FormValue("loudness_target_level"))
		assert.Equal(t, "-1", r.FormValue("loudness_peak_limit"))
		assert.Equal(t, "1.0", r.FormValue("enhancement_level"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"generated_name": "f0e6c12c7be4459a802710ad109b4815"}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL+"/v1", "test-key", DefaultParams("MP3"))

	name, err := client.Upload(context.Background(), writeSample(t, "fake audio"))
	require.NoError(t, err)
	assert.Equal(t, "f0e6c12c7be4459a802710ad109b4815", name)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "MP3", gotTranscode)
	assert.Equal(t, "sample.mp3", gotFilename)
}

func TestAPIClient_UploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL+"/v1", "test-key", DefaultParams("MP3"))

	_, err := client.Upload(context.Background(), writeSample(t, "fake audio"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestAPIClient_UploadMissingFile(t *testing.T) {
	client := NewAPIClient("http://localhost:1", "test-key", DefaultParams("MP3"))

	_, err := client.Upload(context.Background(), "does/not/exist.mp3")
	require.Error(t, err)
}

func TestAPIClient_StatusStable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/media/abc123/status", r.URL.Path)
		w.Write([]byte(`{"generated_name": "abc123", "status": "processing"}`))
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL+"/v1", "test-key", DefaultParams("MP3"))

	first, err := client.Status(context.Background(), "abc123")
	require.NoError(t, err)
	second, err := client.Status(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, jobs.StatusProcessing, first)
	assert.Equal(t, first, second)
}

func TestAPIClient_Download(t *testing.T) {
	payload := []byte("enhanced audio bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/media/abc123", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		w.Write(payload)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL+"/v1", "test-key", DefaultParams("MP3"))

	outPath := filepath.Join(t.TempDir(), "results", "abc123.mp3")
	n, err := client.Download(context.Background(), "abc123", outPath)
	require.NoError(t, err)
	assert.Equal(t, int64(len(payload)), n)

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

func TestAPIClient_DownloadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "media not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL+"/v1", "test-key", DefaultParams("MP3"))

	_, err := client.Download(context.Background(), "nope", filepath.Join(t.TempDir(), "nope.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media not found")
}
