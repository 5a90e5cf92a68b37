package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the examples read from the environment.
// API_KEY is the only required value; an API key can be created on the
// ai-coustics developer portal.
type Config struct {
	APIKey           string
	APIURL           string
	WebhookSignature string

	WebhookHost string
	WebhookPort int

	SamplesDir string
	OutputDir  string

	// optional S3-compatible archive for enhanced results
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Region    string

	// optional Redis-backed job registry
	RedisAddr     string
	RedisPassword string

	// optional RabbitMQ source of incoming media events
	AMQPURL   string
	AMQPQueue string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY is not set")
	}

	port, err := getenvInt("WEBHOOK_PORT", 8686)
	if err != nil {
		return nil, err
	}

	return &Config{
		APIKey:           apiKey,
		APIURL:           getenv("API_URL", "https://api.ai-coustics.com/v1"),
		WebhookSignature: os.Getenv("WEBHOOK_SIGNATURE"),

		WebhookHost: getenv("WEBHOOK_HOST", "0.0.0.0"),
		WebhookPort: port,

		SamplesDir: getenv("SAMPLES_DIR", "samples"),
		OutputDir:  getenv("OUTPUT_DIR", "results"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    os.Getenv("S3_REGION"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		AMQPURL:   os.Getenv("AMQP_URL"),
		AMQPQueue: getenv("AMQP_QUEUE", "media_events"),
	}, nil
}

// ArchiveEnabled reports whether the S3 archive block is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
