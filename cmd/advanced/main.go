package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"

	"github.com/ai-coustics/media-enhance-go/internal/archive"
	"github.com/ai-coustics/media-enhance-go/internal/config"
	"github.com/ai-coustics/media-enhance-go/internal/enhance"
	"github.com/ai-coustics/media-enhance-go/internal/jobs"
	"github.com/ai-coustics/media-enhance-go/internal/mediaqueue"
)

func main() {

	// =========================================================================
	// ENV / LOGGER INIT
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	var registry jobs.Registry
	if cfg.RedisAddr != "" {
		registry, err = jobs.NewRedisRegistry(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("failed to init redis registry: %v", err)
		}
	} else {
		registry = jobs.NewMemoryRegistry()
	}

	var store enhance.Archiver
	if cfg.ArchiveEnabled() {
		s, err := archive.NewStore(cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region)
		if err != nil {
			log.Fatalf("failed to init archive: %v", err)
		}
		store = s
	}

	var source mediaqueue.Source
	if cfg.AMQPURL != "" {
		source = mediaqueue.NewAMQPSource(cfg.AMQPURL, cfg.AMQPQueue)
	} else {
		source = mediaqueue.NewMockSource(cfg.SamplesDir, 0, 5*time.Second)
	}

	// =========================================================================
	// PIPELINE
	// =========================================================================

	transcodeKind, fileExt := "WAV", "wav"
	client := enhance.NewAPIClient(cfg.APIURL, cfg.APIKey, enhance.DefaultParams(transcodeKind))

	svc := enhance.NewService(client, registry, source, store, zl, enhance.Options{
		OutputDir:        cfg.OutputDir,
		FileExt:          fileExt,
		WebhookHost:      cfg.WebhookHost,
		WebhookPort:      cfg.WebhookPort,
		WebhookSignature: cfg.WebhookSignature,
	})

	go func() {
		if err := source.Run(ctx); err != nil {
			zl.Log(logger.LogEntry{Level: "error", Message: "media source stopped", Error: err})
			stop()
		}
	}()

	go func() {
		for path := range svc.Results() {
			zl.Log(logger.LogEntry{
				Level:   "info",
				Message: "enhanced media ready: " + path,
				Service: "media-enhance",
			})
		}
	}()

	if err := svc.Run(ctx); err != nil {
		log.Fatalf("pipeline error: %v", err)
	}
}
