package archive

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store keeps enhanced results in an S3-compatible bucket so they outlive the
// local results folder.
type Store struct {
	client *minio.Client
	bucket string
	host   string
}

func NewStore(endpoint, accessKey, secretKey, bucket, region string) (*Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: true,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init S3 client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %q does not exist", bucket)
	}

	return &Store{
		client: client,
		bucket: bucket,
		host:   fmt.Sprintf("https://%s", endpoint),
	}, nil
}

// SaveEnhanced uploads a downloaded result and returns its public URL.
func (s *Store) SaveEnhanced(ctx context.Context, generatedName, filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open result file: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat result file: %w", err)
	}

	key := s.objectKey(generatedName, filePath)
	_, err = s.client.PutObject(ctx, s.bucket, key, file, stat.Size(), minio.PutObjectOptions{
		ContentType:  contentTypeFor(filePath),
		UserMetadata: map[string]string{"uploaded-at": time.Now().Format(time.RFC3339)},
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return s.buildPublicURL(key), nil
}

func (s *Store) objectKey(generatedName, filePath string) string {
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("enhanced/%s/%s%s", date, generatedName, filepath.Ext(filePath))
}

func (s *Store) buildPublicURL(key string) string {
	escapedKey := url.PathEscape(filepath.ToSlash(key))
	return fmt.Sprintf("%s/%s/%s", s.host, s.bucket, escapedKey)
}

func contentTypeFor(filePath string) string {
	switch filepath.Ext(filePath) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	default:
		return "application/octet-stream"
	}
}
