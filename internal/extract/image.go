package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/auditkit/auditfill/constants"
)

var reBoxNoise = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)

// extractImage prefers the provider's vision OCR when available, otherwise
// runs tesseract locally.
func (e *Extractor) extractImage(ctx context.Context, path string) (Result, error) {
	if e.vision != nil {
		txt, err := e.vision.ExtractImageText(ctx, path)
		if err == nil {
			return Result{
				Text:       txt,
				Pages:      1,
				SourceType: constants.IMAGE,
				Method:     "image-vision",
			}, nil
		}
		e.logger.Warn("extract.image.vision_failed_falling_back", "path", path, "error", err)
	}

	txt, warn, err := e.tesseractOCR(ctx, path)
	if err != nil {
		return Result{SourceType: constants.IMAGE, Warnings: warn}, err
	}
	return Result{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warn,
	}, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}

	// minor cleanup of obvious line noise
	txt := reBoxNoise.ReplaceAllString(string(out), "")
	return txt, nil, nil
}
