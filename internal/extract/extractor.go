// Package extract turns input files into raw text: pdftotext for text PDFs
// with a rasterize-and-OCR fallback for scans, tesseract for images, docconv
// for word-processor documents. A vision-capable provider can replace local
// image OCR entirely.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"code.sajari.com/docconv/v2"

	"github.com/auditkit/auditfill/constants"
	"github.com/auditkit/auditfill/internal/common"
	"github.com/auditkit/auditfill/internal/llm"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "rus+eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	PSM int // tesseract page segmentation mode; 0 = default
	OEM int // 1 = LSTM; 0 = default

	// MinPDFTextLen is the text length below which a PDF is considered
	// scanned and re-extracted through OCR.
	MinPDFTextLen int
}

type Result struct {
	Text       string
	Pages      int
	SourceType constants.Format
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "image-vision" | "docconv" | "plain"
	Language   string
	Duration   time.Duration
	Warnings   []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	vision llm.VisionOCR // optional; replaces tesseract for images when set
	logger *slog.Logger
}

func NewExtractor(cfg Config, vision llm.VisionOCR, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "rus+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinPDFTextLen <= 0 {
		cfg.MinPDFTextLen = 80
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, vision: vision, logger: logger}
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("extract.start", "path", path, "ext", ext)

	var (
		res Result
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, path)
	case constants.DOCX:
		res, err = e.extractDoc(path)
	case constants.TXT:
		res, err = e.extractPlain(path)
	default:
		e.logger.Error("extract.unsupported_extension", "extension", ext, "path", path)
		return Result{}, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
	res.Duration = time.Since(start)
	if err == nil {
		e.logger.Info("extract.ok",
			"path", path,
			"method", res.Method,
			"pages", res.Pages,
			"text_len", len(res.Text),
			"elapsed_ms", res.Duration.Milliseconds(),
		)
	}
	return res, err
}

// extractDoc reads .docx/.doc through docconv.
func (e *Extractor) extractDoc(path string) (Result, error) {
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return Result{SourceType: constants.DOCX}, fmt.Errorf("docconv %s: %w", filepath.Base(path), err)
	}
	return Result{
		Text:       res.Body,
		Pages:      1,
		SourceType: constants.DOCX,
		Method:     "docconv",
	}, nil
}

func (e *Extractor) extractPlain(path string) (Result, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Result{SourceType: constants.TXT}, err
	}
	return Result{
		Text:       string(b),
		Pages:      1,
		SourceType: constants.TXT,
		Method:     "plain",
	}, nil
}
