// Package pipeline drives a processing run: extract text from each input
// file, normalize and classify it, build a fragment, ask the matcher which
// checklist rows it belongs to, and append the evidence into a timestamped
// copy of the template. Files are processed one at a time and a failing file
// never aborts the batch.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/auditkit/auditfill/constants"
	"github.com/auditkit/auditfill/internal/common"
	"github.com/auditkit/auditfill/internal/extract"
	"github.com/auditkit/auditfill/internal/matcher"
	"github.com/auditkit/auditfill/internal/sheet"
	"github.com/auditkit/auditfill/internal/textproc"
)

// Document is the per-file processing state, kept for reporting.
type Document struct {
	SourcePath     string
	SourceFilename string
	RawText        string
	NormalizedText string
	Meta           textproc.Metadata
	DocType        constants.DocType
	Fragment       string
}

// FileResult is the outcome for one input file.
type FileResult struct {
	File    string
	DocType constants.DocType
	Matched bool
	Rows    []int
	Reason  string
	Err     error
}

// RunSummary aggregates a whole run.
type RunSummary struct {
	OutputPath string
	Processed  int
	Matched    int
	Failed     int
	Demo       bool
	Elapsed    time.Duration
	Results    []FileResult
}

// Processor owns one template-plus-files run at a time.
type Processor struct {
	cfg       *common.Config
	extractor *extract.Extractor
	matcher   *matcher.Matcher // nil enables demo mode: no model, no writes
	logger    *slog.Logger

	running atomic.Bool
	now     func() time.Time
}

func NewProcessor(cfg *common.Config, ex *extract.Extractor, m *matcher.Matcher, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = common.Defaults()
	}
	return &Processor{
		cfg:       cfg,
		extractor: ex,
		matcher:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// Run processes files against the checklist template and saves the filled
// copy. outPath may be empty, in which case the timestamped default next to
// the template is used. Only one run may be active per Processor.
func (p *Processor) Run(ctx context.Context, templatePath string, files []string, outPath string) (*RunSummary, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, common.ErrRunInProgress
	}
	defer p.running.Store(false)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no input files", common.ErrInvalidInput)
	}
	start := p.now()

	wb, err := sheet.Open(templatePath, p.logger)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	demo := p.matcher == nil
	var writer *sheet.Writer
	if !demo {
		writer, err = sheet.NewWriter(wb, p.cfg.Sheet, p.logger)
		if err != nil {
			return nil, err
		}
	}

	rows := make([]matcher.Row, 0, len(wb.Rows))
	for _, r := range wb.Rows {
		rows = append(rows, matcher.Row{
			Number:     r.RowNumber,
			Text:       r.CombinedText(),
			HeaderLike: sheet.IsHeaderLike(r),
		})
	}

	summary := &RunSummary{Demo: demo}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := p.processFile(ctx, file, rows, writer)
		summary.Results = append(summary.Results, res)
		summary.Processed++
		switch {
		case res.Err != nil:
			summary.Failed++
		case res.Matched:
			summary.Matched++
		}
	}

	if outPath == "" {
		outPath = sheet.OutputPath(templatePath, p.now())
	}
	if err := wb.SaveAs(outPath); err != nil {
		return nil, err
	}
	summary.OutputPath = outPath
	summary.Elapsed = p.now().Sub(start)

	p.logger.Info("pipeline.run.done",
		"output", outPath,
		"processed", summary.Processed,
		"matched", summary.Matched,
		"failed", summary.Failed,
		"demo", demo,
		"elapsed_ms", summary.Elapsed.Milliseconds(),
	)
	return summary, nil
}

// processFile runs one file through the whole chain. Any error is captured in
// the FileResult; the batch continues.
func (p *Processor) processFile(ctx context.Context, path string, rows []matcher.Row, writer *sheet.Writer) FileResult {
	result := FileResult{File: path}

	doc, err := p.analyze(ctx, path)
	if err != nil {
		p.logger.Error("pipeline.file.failed", "file", path, "error", err)
		result.Err = err
		return result
	}
	result.DocType = doc.DocType

	if p.matcher == nil {
		p.logger.Info("pipeline.file.demo",
			"file", doc.SourceFilename,
			"doc_type", doc.DocType,
			"fragment", doc.Fragment,
		)
		result.Reason = "demo mode: matching skipped"
		return result
	}

	match, err := p.matcher.Match(ctx, matcher.Input{
		DocType:    doc.DocType,
		Fragment:   doc.Fragment,
		Excerpt:    doc.NormalizedText,
		Meta:       doc.Meta,
		SourceFile: doc.SourceFilename,
		Rows:       rows,
	})
	if err != nil {
		result.Err = err
		return result
	}
	if !match.Matched {
		result.Reason = match.Reason
		return result
	}

	for _, rowNum := range match.MatchedRows {
		if err := writer.AppendEvidence(rowNum, doc.Fragment, doc.SourceFilename); err != nil {
			p.logger.Warn("pipeline.append_failed", "file", doc.SourceFilename, "row", rowNum, "error", err)
			continue
		}
		result.Rows = append(result.Rows, rowNum)
	}
	result.Matched = len(result.Rows) > 0
	if !result.Matched {
		result.Reason = "matched rows could not be written"
	}
	return result
}

// analyze extracts, normalizes, and classifies one file.
func (p *Processor) analyze(ctx context.Context, path string) (*Document, error) {
	extracted, err := p.extractor.Extract(ctx, path)
	if err != nil {
		return nil, err
	}

	norm := textproc.Normalize(extracted.Text)
	if strings.TrimSpace(norm) == "" {
		return nil, fmt.Errorf("%w: no text extracted from %s", common.ErrInvalidInput, filepath.Base(path))
	}

	meta := textproc.ExtractMetadata(norm)
	docType := textproc.Classify(norm)
	doc := &Document{
		SourcePath:     path,
		SourceFilename: filepath.Base(path),
		RawText:        extracted.Text,
		NormalizedText: norm,
		Meta:           meta,
		DocType:        docType,
		Fragment:       textproc.BuildFragment(norm, docType, meta),
	}

	p.logger.Info("pipeline.file.analyzed",
		"file", doc.SourceFilename,
		"doc_type", docType,
		"method", extracted.Method,
		"text_len", len(norm),
		"organization", meta.Organization,
		"doc_number", meta.DocNumber,
	)
	return doc, nil
}
