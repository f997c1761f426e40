package sheet

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/auditkit/auditfill/internal/common"
)

// Writer appends matched evidence into the workbook. It only ever adds text:
// existing cell content and all template rows and columns are preserved.
type Writer struct {
	wb          *Workbook
	evidenceCol int
	sourceCol   int
	logger      *slog.Logger
}

func NewWriter(wb *Workbook, cfg common.SheetConfig, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.EvidenceColumn == "" {
		cfg.EvidenceColumn = common.Defaults().Sheet.EvidenceColumn
	}
	if cfg.SourceColumn == "" {
		cfg.SourceColumn = common.Defaults().Sheet.SourceColumn
	}

	ev, err := wb.EnsureColumn(cfg.EvidenceColumn)
	if err != nil {
		return nil, fmt.Errorf("ensure column %q: %w", cfg.EvidenceColumn, err)
	}
	src, err := wb.EnsureColumn(cfg.SourceColumn)
	if err != nil {
		return nil, fmt.Errorf("ensure column %q: %w", cfg.SourceColumn, err)
	}
	return &Writer{wb: wb, evidenceCol: ev, sourceCol: src, logger: logger}, nil
}

// AppendEvidence writes the fragment and source filename into the given row.
// Header-like rows and rows outside the table are refused. Repeated writes to
// the same row accumulate: fragments are separated by a blank line, source
// filenames by a newline, and the same filename is recorded once.
func (w *Writer) AppendEvidence(rowNumber int, fragment, sourceFile string) error {
	row, ok := w.wb.RowByNumber(rowNumber)
	if !ok {
		w.logger.Warn("sheet.append.row_out_of_range", "row", rowNumber)
		return fmt.Errorf("%w: row %d is not a table row", common.ErrOutput, rowNumber)
	}
	if IsHeaderLike(row) {
		w.logger.Warn("sheet.append.header_row_skipped", "row", rowNumber)
		return fmt.Errorf("%w: row %d is a section header", common.ErrOutput, rowNumber)
	}
	if strings.TrimSpace(fragment) == "" {
		return fmt.Errorf("%w: empty fragment", common.ErrInvalidInput)
	}

	if err := w.wb.AppendCell(rowNumber, w.evidenceCol, fragment, "\n\n"); err != nil {
		return err
	}
	if sourceFile != "" {
		if err := w.appendSource(rowNumber, sourceFile); err != nil {
			return err
		}
	}
	w.logger.Info("sheet.append.ok", "row", rowNumber, "source", sourceFile)
	return nil
}

func (w *Writer) appendSource(rowNumber int, sourceFile string) error {
	cell, err := cellName(w.sourceCol, rowNumber)
	if err != nil {
		return err
	}
	existing, err := w.wb.f.GetCellValue(w.wb.Sheet, cell)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(existing, "\n") {
		if strings.TrimSpace(line) == sourceFile {
			return nil
		}
	}
	return w.wb.AppendCell(rowNumber, w.sourceCol, sourceFile, "\n")
}
