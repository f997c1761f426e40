// Package matcher asks the language model which checklist rows a document
// belongs to. Candidate rows are pre-filtered by document type, the model
// answer is parsed leniently and re-validated, and anything the model invents
// (header rows, unknown row numbers, uncoercible values) is dropped with a
// log line rather than an error.
package matcher

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/auditkit/auditfill/constants"
	"github.com/auditkit/auditfill/internal/llm"
	"github.com/auditkit/auditfill/internal/textproc"
)

// Row is one checklist table row offered to the matcher.
type Row struct {
	Number     int    // 1-based spreadsheet row
	Text       string // combined cell text
	HeaderLike bool   // section banner or service row, never matchable
}

// Input is everything known about one processed document.
type Input struct {
	DocType    constants.DocType
	Fragment   string
	Excerpt    string // normalized document text, truncated for the prompt
	Meta       textproc.Metadata
	SourceFile string
	Rows       []Row
}

// Result is the matching outcome. Matched == false is a normal outcome, not
// an error; Reason says why.
type Result struct {
	Matched      bool
	MatchedRows  []int
	TargetColumn string
	Confidence   string
	Explanation  string
	Reason       string
}

type Config struct {
	MaxCandidates int // rows offered to the model, default 50
	RowTextBudget int // runes of row text per prompt line, default 160
	ExcerptBudget int // runes of document excerpt in the prompt, default 1500

	// EvidenceColumn is the default target when the response omits
	// target_column. RequireTargetColumn turns that omission into a no-match
	// instead.
	EvidenceColumn      string
	RequireTargetColumn bool
}

type Matcher struct {
	gen    llm.TextGenerator
	cfg    Config
	schema map[string]any
	logger *slog.Logger
}

func New(gen llm.TextGenerator, cfg Config, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxCandidates <= 0 {
		cfg.MaxCandidates = 50
	}
	if cfg.RowTextBudget <= 0 {
		cfg.RowTextBudget = 160
	}
	if cfg.ExcerptBudget <= 0 {
		cfg.ExcerptBudget = 1500
	}
	if cfg.EvidenceColumn == "" {
		cfg.EvidenceColumn = "Выявленные несоответствия"
	}
	return &Matcher{gen: gen, cfg: cfg, schema: llm.BuildMatchSchema(), logger: logger}
}

// Match runs one document against the checklist. Provider and parse failures
// yield an unmatched Result; err is reserved for context cancellation.
func (m *Matcher) Match(ctx context.Context, in Input) (Result, error) {
	candidates := m.selectCandidates(in.DocType, in.Rows)
	m.logger.Info("match.start",
		"source", in.SourceFile,
		"doc_type", in.DocType,
		"rows_total", len(in.Rows),
		"candidates", len(candidates),
	)
	if len(candidates) == 0 {
		return Result{Reason: "no candidate rows for document type"}, nil
	}

	raw, err := m.gen.GenerateText(ctx, m.buildPrompt(in, candidates))
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		m.logger.Error("match.provider_failed", "source", in.SourceFile, "error", err)
		return Result{Reason: "provider error: " + err.Error()}, nil
	}

	payload, reason := m.parseResponse(raw)
	if reason != "" {
		m.logger.Warn("match.response.unusable", "source", in.SourceFile, "reason", reason)
		return Result{Reason: reason}, nil
	}

	rowsAny, _ := payload["matched_rows"].([]any)
	nums := m.coerceRowNumbers(rowsAny)

	// drop anything that is not a known, matchable table row
	valid := make(map[int]bool, len(in.Rows))
	for _, r := range in.Rows {
		if !r.HeaderLike {
			valid[r.Number] = true
		}
	}
	kept := nums[:0]
	for _, n := range nums {
		if !valid[n] {
			m.logger.Warn("match.row.dropped", "row", n, "reason", "not a matchable table row")
			continue
		}
		kept = append(kept, n)
	}
	if len(kept) == 0 {
		return Result{Reason: "model returned no usable rows"}, nil
	}

	target, _ := payload["target_column"].(string)
	if target == "" {
		if m.cfg.RequireTargetColumn {
			return Result{Reason: "response lacks target_column"}, nil
		}
		target = m.cfg.EvidenceColumn
	}
	confidence, _ := payload["confidence"].(string)
	explanation, _ := payload["explanation"].(string)

	m.logger.Info("match.ok",
		"source", in.SourceFile,
		"rows", kept,
		"target_column", target,
		"confidence", confidence,
	)
	return Result{
		Matched:      true,
		MatchedRows:  kept,
		TargetColumn: target,
		Confidence:   confidence,
		Explanation:  explanation,
	}, nil
}

// parseResponse extracts the JSON object from raw model output and checks it
// against the match schema. The returned reason is empty on success.
func (m *Matcher) parseResponse(raw string) (map[string]any, string) {
	var payload map[string]any
	if err := llm.DecodeLenient(raw, &payload); err != nil {
		return nil, "unparseable response: " + err.Error()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, "re-marshal response: " + err.Error()
	}
	if err := llm.ValidateAgainstSchema(m.schema, b); err != nil {
		return nil, "response failed schema check: " + err.Error()
	}
	return payload, ""
}
