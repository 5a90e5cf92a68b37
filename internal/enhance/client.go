package enhance

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/ai-coustics/media-enhance-go/internal/jobs"
)

const (
	defaultRequestTimeout = 300 * time.Second
	defaultConnsPerHost   = 100
)

// APIClient implements Client over plain HTTP, authenticating every request
// with the X-API-Key header.
type APIClient struct {
	baseURL string
	apiKey  string
	params  EnhancementParams
	http    *http.Client
}

func NewAPIClient(baseURL, apiKey string, params EnhancementParams) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		params:  params,
		http: &http.Client{
			Timeout: defaultRequestTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: defaultConnsPerHost,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *APIClient) Upload(ctx context.Context, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open media file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for field, value := range c.params.formFields() {
		if err := mw.WriteField(field, value); err != nil {
			return "", fmt.Errorf("write form field %s: %w", field, err)
		}
	}

	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("read media file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/media/enhance", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload failed (%d): %s", resp.StatusCode, body)
	}

	var parsed struct {
		GeneratedName string `json:"generated_name"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if parsed.GeneratedName == "" {
		return "", fmt.Errorf("upload response has no generated_name")
	}
	return parsed.GeneratedName, nil
}

func (c *APIClient) Status(ctx context.Context, generatedName string) (jobs.Status, error) {
	url := fmt.Sprintf("%s/media/%s/status", c.baseURL, generatedName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("status request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status failed (%d): %s", resp.StatusCode, body)
	}

	var parsed struct {
		GeneratedName string `json:"generated_name"`
		Status        string `json:"status"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode status response: %w", err)
	}
	return jobs.Status(parsed.Status), nil
}

func (c *APIClient) Download(ctx context.Context, generatedName, outPath string) (int64, error) {
	url := fmt.Sprintf("%s/media/%s", c.baseURL, generatedName)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("download failed (%d): %s", resp.StatusCode, body)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return 0, err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", outPath, err)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return n, fmt.Errorf("short download: got %d bytes, expected %d", n, resp.ContentLength)
	}
	return n, nil
}
