// auditfill processes scanned audit documents against a checklist template:
// extracts text, classifies each document, asks the configured language model
// which checklist rows it matches, and saves a filled timestamped copy of the
// template. The template itself is never modified.
//
// Usage:
//
//	auditfill -template чек-лист.xlsx [-config config.json] [-out файл.xlsx] [-demo] файл1.pdf файл2.jpg ...
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/auditkit/auditfill/internal/common"
	"github.com/auditkit/auditfill/internal/extract"
	"github.com/auditkit/auditfill/internal/llm"
	"github.com/auditkit/auditfill/internal/llm/gemini"
	"github.com/auditkit/auditfill/internal/llm/ollama"
	"github.com/auditkit/auditfill/internal/matcher"
	"github.com/auditkit/auditfill/internal/pipeline"
)

func main() {
	var (
		templatePath = flag.String("template", "", "checklist template .xlsx (required)")
		configPath   = flag.String("config", "config.json", "config file path")
		outPath      = flag.String("out", "", "output file path (default: timestamped copy next to the template)")
		demo         = flag.Bool("demo", false, "run without a language model: extract and classify only")
		verbose      = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *templatePath == "" {
		fmt.Fprintln(os.Stderr, "auditfill: -template is required")
		flag.Usage()
		os.Exit(2)
	}
	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "auditfill: no input files")
		flag.Usage()
		os.Exit(2)
	}

	// credentials may live in .env next to the binary
	if err := godotenv.Load(); err == nil {
		logger.Debug("config.dotenv_loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := common.LoadConfig(*configPath, logger)
	if err != nil {
		logger.Error("config.load_failed", "error", err)
		os.Exit(1)
	}

	var (
		gen    llm.TextGenerator
		vision llm.VisionOCR
	)
	if !*demo {
		if err := cfg.Validate(); err != nil {
			logger.Error("config.invalid", "error", err)
			os.Exit(1)
		}
		gen, vision, err = buildProvider(ctx, cfg, logger)
		if err != nil {
			logger.Error("provider.unavailable", "provider", cfg.Provider, "error", err)
			fmt.Fprintf(os.Stderr, "провайдер %q недоступен: %v\nзапустите с флагом -demo для обработки без ИИ\n", cfg.Provider, err)
			os.Exit(1)
		}
	}

	extractor := extract.NewExtractor(extract.Config{
		Pdftotext:     cfg.Extract.Pdftotext,
		Pdftoppm:      cfg.Extract.Pdftoppm,
		Tesseract:     cfg.Extract.Tesseract,
		TesseractLang: cfg.Extract.TesseractLang,
		DPI:           cfg.Extract.DPI,
		MaxPages:      cfg.Extract.MaxPages,
	}, vision, logger)

	var m *matcher.Matcher
	if gen != nil {
		m = matcher.New(gen, matcher.Config{
			MaxCandidates:       cfg.Matcher.MaxCandidates,
			RequireTargetColumn: cfg.Matcher.RequireTargetColumn,
			EvidenceColumn:      cfg.Sheet.EvidenceColumn,
		}, logger)
	}

	p := pipeline.NewProcessor(cfg, extractor, m, logger)
	sum, err := p.Run(ctx, *templatePath, files, *outPath)
	if err != nil {
		logger.Error("pipeline.run_failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Готово: %s\n", sum.OutputPath)
	fmt.Printf("Обработано файлов: %d, сопоставлено: %d, с ошибками: %d\n",
		sum.Processed, sum.Matched, sum.Failed)
	for _, r := range sum.Results {
		switch {
		case r.Err != nil:
			fmt.Printf("  ✗ %s: %v\n", r.File, r.Err)
		case r.Matched:
			fmt.Printf("  ✓ %s (%s) → строки %v\n", r.File, r.DocType, r.Rows)
		default:
			fmt.Printf("  - %s (%s): %s\n", r.File, r.DocType, r.Reason)
		}
	}
	if sum.Failed > 0 {
		os.Exit(1)
	}
}

// buildProvider wires the configured backend and verifies it is reachable.
// Gemini additionally provides vision OCR for images.
func buildProvider(ctx context.Context, cfg *common.Config, logger *slog.Logger) (llm.TextGenerator, llm.VisionOCR, error) {
	switch cfg.Provider {
	case common.ProviderOllama:
		client := ollama.NewClient(ollama.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.Model,
			Timeout: cfg.Ollama.Timeout,
		}, logger)
		if err := client.CheckHealth(ctx); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", common.ErrProviderUnavailable, err)
		}
		return client, nil, nil
	case common.ProviderGemini:
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := client.CheckHealth(ctx); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", common.ErrProviderUnavailable, err)
		}
		return client, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
