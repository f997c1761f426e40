package llm

import "context"

// TextGenerator is the single capability the pipeline depends on: prompt in,
// free-text response out. Providers differ only in request shaping and
// response unwrapping.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// VisionOCR is implemented by providers that can read text straight off an
// image, bypassing local OCR.
type VisionOCR interface {
	ExtractImageText(ctx context.Context, imagePath string) (string, error)
}

// HealthChecker reports whether a provider is reachable before a run starts.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}
