// Package gemini implements the cloud backend. Besides plain text generation
// it can read text straight off an image (vision OCR), which replaces local
// tesseract when this provider is selected.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/auditkit/auditfill/constants"
)

// Config for the Gemini client.
type Config struct {
	APIKey string // if empty, falls back to env GEMINI_API_KEY
	Model  string // e.g. "gemini-1.5-flash"
}

type Client struct {
	cfg    Config
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

const visionPrompt = "Распознай весь текст на изображении. Верни только сам текст, " +
	"без комментариев, сохраняя порядок строк."

// NewClient dials the API and configures the model. Audit documents routinely
// trip over default content-safety thresholds (orders naming people,
// accident reports), so every category is set to block-none.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: dial: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
	}

	return &Client{cfg: cfg, client: client, model: model, logger: logger}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// GenerateText implements llm.TextGenerator.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Error("gemini.generate.error", "model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	out, err := firstText(resp)
	if err != nil {
		return "", err
	}
	c.logger.Info("gemini.generate.ok",
		"model", c.cfg.Model,
		"prompt_len", len(prompt),
		"response_len", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// ExtractImageText implements llm.VisionOCR: the image is attached as an
// inline part and the model is asked to transcribe it.
func (c *Client) ExtractImageText(ctx context.Context, imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	format := constants.NormalizeExt(filepath.Ext(imagePath))
	if format == "jpg" {
		format = "jpeg"
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx,
		genai.ImageData(format, data),
		genai.Text(visionPrompt),
	)
	if err != nil {
		c.logger.Error("gemini.vision.error", "path", imagePath, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("gemini vision: %w", err)
	}
	out, err := firstText(resp)
	if err != nil {
		return "", err
	}
	c.logger.Info("gemini.vision.ok",
		"path", imagePath,
		"image_bytes", len(data),
		"text_len", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// CheckHealth implements llm.HealthChecker with a minimal generation call.
func (c *Client) CheckHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if _, err := c.model.GenerateContent(ctx, genai.Text("ping")); err != nil {
		return fmt.Errorf("gemini unreachable: %w", err)
	}
	return nil
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: empty response")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", fmt.Errorf("gemini: no text part in response")
}
