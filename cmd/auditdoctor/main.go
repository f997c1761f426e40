// auditdoctor verifies the installation: external binaries, the config file,
// and the reachability of the configured language model provider. It prints a
// per-item report and exits non-zero when a required piece is missing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/joho/godotenv"

	"github.com/auditkit/auditfill/internal/common"
	"github.com/auditkit/auditfill/internal/llm/ollama"
)

type check struct {
	name     string
	ok       bool
	detail   string
	required bool
}

func main() {
	configPath := flag.String("config", "config.json", "config file path")
	flag.Parse()

	_ = godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cfg, err := common.LoadConfig(*configPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "конфигурация не читается: %v\n", err)
		os.Exit(1)
	}

	var checks []check
	checks = append(checks, binaryCheck("pdftotext", cfg.Extract.Pdftotext, true))
	checks = append(checks, binaryCheck("pdftoppm", cfg.Extract.Pdftoppm, true))
	checks = append(checks, binaryCheck("tesseract", cfg.Extract.Tesseract, false))
	checks = append(checks, configCheck(*configPath))
	checks = append(checks, providerCheck(ctx, cfg))

	fmt.Println("Проверка установки auditfill")
	fmt.Println("============================")
	failed := 0
	for _, c := range checks {
		mark := "✓"
		if !c.ok {
			if c.required {
				mark = "✗"
				failed++
			} else {
				mark = "!"
			}
		}
		fmt.Printf("%s %-22s %s\n", mark, c.name, c.detail)
	}
	fmt.Println("============================")
	if failed > 0 {
		fmt.Printf("Проблем: %d. Обработка PDF/изображений будет неполной.\n", failed)
		os.Exit(1)
	}
	fmt.Println("Все обязательные компоненты на месте.")
}

func binaryCheck(name, configured string, required bool) check {
	if configured == "" {
		configured = name
	}
	path, err := exec.LookPath(configured)
	if err != nil {
		hint := "не найден в PATH"
		if name == "tesseract" {
			hint += " (локальный OCR недоступен, остается vision-провайдер)"
		}
		return check{name: name, ok: false, detail: hint, required: required}
	}
	return check{name: name, ok: true, detail: path, required: required}
}

func configCheck(path string) check {
	if _, err := os.Stat(path); err != nil {
		return check{name: "config", ok: false, detail: path + " отсутствует, используются значения по умолчанию"}
	}
	return check{name: "config", ok: true, detail: path}
}

func providerCheck(ctx context.Context, cfg *common.Config) check {
	switch cfg.Provider {
	case common.ProviderOllama:
		client := ollama.NewClient(ollama.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Ollama.Model,
			Timeout: cfg.Ollama.Timeout,
		}, slog.Default())
		if err := client.CheckHealth(ctx); err != nil {
			return check{name: "ollama", ok: false, detail: err.Error()}
		}
		return check{name: "ollama", ok: true, detail: cfg.Ollama.BaseURL + " (" + cfg.Ollama.Model + ")"}
	case common.ProviderGemini:
		if cfg.Gemini.APIKey == "" {
			return check{name: "gemini", ok: false, detail: "GEMINI_API_KEY не задан"}
		}
		return check{name: "gemini", ok: true, detail: "ключ задан (" + cfg.Gemini.Model + ")"}
	default:
		return check{name: "provider", ok: false, detail: "неизвестный провайдер: " + cfg.Provider}
	}
}
