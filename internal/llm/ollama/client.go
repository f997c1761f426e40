// Package ollama implements the local HTTP backend: an Ollama server on
// localhost answering /api/generate with a plain text completion.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/auditkit/auditfill/internal/llm"
)

// Config for the Ollama client.
type Config struct {
	BaseURL string        // default http://localhost:11434
	Model   string        // e.g. "qwen2.5:latest"
	Timeout time.Duration // per-request http timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "qwen2.5:latest"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// GenerateText implements llm.TextGenerator via POST /api/generate with
// stream disabled.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	body := map[string]any{
		"model":  c.cfg.Model,
		"prompt": prompt,
		"stream": false,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body, nil, c.logger)
	if err != nil {
		c.logger.Error("ollama.generate.http_error",
			"model", c.cfg.Model, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	var gen struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		c.logger.Error("ollama.generate.decode_error", "error", err, "raw_bytes", len(raw))
		return "", fmt.Errorf("decode ollama response: %w", err)
	}

	c.logger.Info("ollama.generate.ok",
		"model", c.cfg.Model,
		"prompt_len", len(prompt),
		"response_len", len(gen.Response),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return gen.Response, nil
}

// CheckHealth implements llm.HealthChecker via GET /api/tags. The installed
// model inventory is logged so a missing model shows up before a run.
func (c *Client) CheckHealth(ctx context.Context) error {
	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/api/tags"
	if err := llm.GetJSON(ctx, &http.Client{Timeout: 5 * time.Second}, endpoint, &tags, c.logger); err != nil {
		return fmt.Errorf("ollama unreachable at %s: %w", c.cfg.BaseURL, err)
	}

	names := make([]string, 0, len(tags.Models))
	found := false
	for _, m := range tags.Models {
		names = append(names, m.Name)
		if m.Name == c.cfg.Model {
			found = true
		}
	}
	c.logger.Info("ollama.health.ok", "models", names, "configured_model", c.cfg.Model)
	if !found {
		c.logger.Warn("ollama.health.model_missing",
			"model", c.cfg.Model,
			"hint", "ollama pull "+c.cfg.Model,
		)
	}
	return nil
}
