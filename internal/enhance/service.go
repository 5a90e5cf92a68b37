package enhance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/ai-coustics/media-enhance-go/internal/jobs"
	"github.com/ai-coustics/media-enhance-go/internal/mediaqueue"
	"github.com/ai-coustics/media-enhance-go/internal/webhook"
)

const (
	defaultUploadWorkers   = 50
	defaultDownloadWorkers = 50
	defaultShutdownTimeout = 60 * time.Second
	resultBuffer           = 128
)

// Options tune the pipeline service. Zero values fall back to defaults.
type Options struct {
	OutputDir string
	FileExt   string

	WebhookHost      string
	WebhookPort      int
	WebhookSignature string

	UploadWorkers   int
	DownloadWorkers int
	ShutdownTimeout time.Duration
}

// Service drives the full upload -> webhook -> download pipeline: it consumes
// incoming media events, uploads them for enhancement, and downloads every
// result the webhook receiver reports as done.
type Service struct {
	client   Client
	registry jobs.Registry
	source   mediaqueue.Source
	archive  Archiver // nil disables archiving
	log      *logger.ZapLogger
	srv      *http.Server

	outputDir string
	fileExt   string

	uploadWorkers   int
	downloadWorkers int
	shutdownTimeout time.Duration

	enhanced chan string
	results  chan string
}

func NewService(
	client Client,
	registry jobs.Registry,
	source mediaqueue.Source,
	archive Archiver,
	log *logger.ZapLogger,
	opts Options,
) *Service {
	if opts.UploadWorkers <= 0 {
		opts.UploadWorkers = defaultUploadWorkers
	}
	if opts.DownloadWorkers <= 0 {
		opts.DownloadWorkers = defaultDownloadWorkers
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}

	s := &Service{
		client:   client,
		registry: registry,
		source:   source,
		archive:  archive,
		log:      log,

		outputDir: opts.OutputDir,
		fileExt:   opts.FileExt,

		uploadWorkers:   opts.UploadWorkers,
		downloadWorkers: opts.DownloadWorkers,
		shutdownTimeout: opts.ShutdownTimeout,

		enhanced: make(chan string, resultBuffer),
		results:  make(chan string, resultBuffer),
	}

	h := webhook.NewHandler(opts.WebhookSignature, s, log)
	s.srv = webhook.NewServer(opts.WebhookHost, opts.WebhookPort, h)
	return s
}

// Results delivers the local path of every enhanced file once it has been
// downloaded.
func (s *Service) Results() <-chan string {
	return s.results
}

// Completed implements webhook.Sink. A callback for a name the registry never
// saw is still downloaded; the example may have been restarted mid-job.
func (s *Service) Completed(ctx context.Context, generatedName string) error {
	err := s.registry.SetStatus(ctx, generatedName, jobs.StatusCompleted)
	if err != nil && !errors.Is(err, jobs.ErrNotFound) {
		return err
	}

	select {
	case s.enhanced <- generatedName:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run starts the webhook server and the upload/download worker pools, then
// blocks until ctx is cancelled. Shutdown is bounded by the configured
// timeout.
func (s *Service) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.uploadWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.uploadLoop(runCtx)
		}()
	}
	for i := 0; i < s.downloadWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.downloadLoop(runCtx)
		}()
	}

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "pipeline running, webhook at " + s.srv.Addr,
		Service: "media-enhance",
	})

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serverErr:
	}
	cancel()

	shCtx, shCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer shCancel()
	_ = s.srv.Shutdown(shCtx)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shCtx.Done():
		return fmt.Errorf("worker shutdown timed out after %s", s.shutdownTimeout)
	}
	return runErr
}

func (s *Service) uploadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-s.source.Events():
			if !ok {
				return
			}

			generatedName, err := s.client.Upload(ctx, event.Path)
			if err != nil {
				s.log.Log(logger.LogEntry{
					Level:   "error",
					Message: "upload failed: " + event.Path,
					Error:   err,
				})
				continue
			}

			job := jobs.Job{
				GeneratedName: generatedName,
				SourcePath:    event.Path,
				Status:        jobs.StatusSubmitted,
			}
			if err := s.registry.Put(ctx, job); err != nil {
				s.log.Log(logger.LogEntry{
					Level:   "error",
					Message: "failed to register job " + generatedName,
					Error:   err,
				})
			}

			s.log.Log(logger.LogEntry{
				Level:   "info",
				Message: "uploaded " + event.Path + " as " + generatedName,
				Service: "media-enhance",
			})
		}
	}
}

func (s *Service) downloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case generatedName := <-s.enhanced:
			outPath := filepath.Join(s.outputDir, generatedName+"."+s.fileExt)

			if _, err := s.client.Download(ctx, generatedName, outPath); err != nil {
				s.log.Log(logger.LogEntry{
					Level:   "error",
					Message: "download failed: " + generatedName,
					Error:   err,
				})
				if err := s.registry.SetStatus(ctx, generatedName, jobs.StatusFailed); err != nil && !errors.Is(err, jobs.ErrNotFound) {
					s.log.Log(logger.LogEntry{Level: "error", Message: "failed to mark job failed", Error: err})
				}
				continue
			}

			if err := s.registry.SetResult(ctx, generatedName, outPath); err != nil && !errors.Is(err, jobs.ErrNotFound) {
				s.log.Log(logger.LogEntry{Level: "error", Message: "failed to record result path", Error: err})
			}

			if s.archive != nil {
				url, err := s.archive.SaveEnhanced(ctx, generatedName, outPath)
				if err != nil {
					s.log.Log(logger.LogEntry{
						Level:   "error",
						Message: "archive failed: " + generatedName,
						Error:   err,
					})
				} else {
					s.log.Log(logger.LogEntry{
						Level:   "info",
						Message: "archived " + generatedName + " to " + url,
						Service: "media-enhance",
					})
				}
			}

			select {
			case s.results <- outPath:
			case <-ctx.Done():
				return
			}
		}
	}
}
