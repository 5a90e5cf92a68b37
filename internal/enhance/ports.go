package enhance

import (
	"context"
	"strconv"

	"github.com/ai-coustics/media-enhance-go/internal/jobs"
)

// Client talks to the ai-coustics media enhancement API.
type Client interface {
	// Upload submits a local file for enhancement and returns the generated
	// name the remote API assigned to the job.
	Upload(ctx context.Context, filePath string) (string, error)

	// Status asks the remote API where the job currently stands.
	Status(ctx context.Context, generatedName string) (jobs.Status, error)

	// Download streams the enhanced media to outPath and returns the number
	// of bytes written.
	Download(ctx context.Context, generatedName, outPath string) (int64, error)
}

// Archiver puts a downloaded result into long-term storage and returns its
// public URL.
type Archiver interface {
	SaveEnhanced(ctx context.Context, generatedName, filePath string) (string, error)
}

// EnhancementParams are sent as form fields alongside every upload.
type EnhancementParams struct {
	LoudnessTargetLevel int
	LoudnessPeakLimit   int
	EnhancementLevel    float64
	TranscodeKind       string
}

// DefaultParams returns the parameter set the examples use: -14 LUFS target,
// -1 dB peak limit, full enhancement.
func DefaultParams(transcodeKind string) EnhancementParams {
	return EnhancementParams{
		LoudnessTargetLevel: -14,
		LoudnessPeakLimit:   -1,
		EnhancementLevel:    1.0,
		TranscodeKind:       transcodeKind,
	}
}

func (p EnhancementParams) formFields() map[string]string {
	return map[string]string{
		"loudness_target_level": strconv.Itoa(p.LoudnessTargetLevel),
		"loudness_peak_limit":   strconv.Itoa(p.LoudnessPeakLimit),
		"enhancement_level":     strconv.FormatFloat(p.EnhancementLevel, 'f', 1, 64),
		"transcode_kind":        p.TranscodeKind,
	}
}
