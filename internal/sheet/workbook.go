// Package sheet reads the checklist template and writes the filled output
// copy. The template file on disk is never modified: all writes go to a new
// timestamped workbook saved next to it.
package sheet

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/auditkit/auditfill/internal/common"
)

// TableRow is one pre-existing checklist row.
type TableRow struct {
	RowNumber int               // 1-based spreadsheet row
	Columns   map[string]string // header name -> cell text

	ordered []string // column headers in sheet order, for stable joins
}

// CombinedText joins the row's non-empty cells, used by the header-like
// predicate and candidate filtering.
func (r TableRow) CombinedText() string {
	parts := make([]string, 0, len(r.Columns))
	for _, h := range r.ordered {
		if v := strings.TrimSpace(r.Columns[h]); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// Workbook is an open checklist workbook: the template's first sheet with a
// detected header row and the data rows under it.
type Workbook struct {
	f         *excelize.File
	Path      string
	Sheet     string
	HeaderRow int // 1-based
	Headers   []string
	Rows      []TableRow

	byNumber map[int]TableRow
	logger   *slog.Logger
}

// headerScanDepth bounds the search for the header row: the first of the
// first 10 rows with at least 2 non-empty cells wins.
const headerScanDepth = 10

// Open reads the template at path.
func Open(path string, logger *slog.Logger) (*Workbook, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrTemplate, filepath.Base(path), err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", common.ErrTemplate)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: read rows: %v", common.ErrTemplate, err)
	}

	headerRow := -1
	for i, row := range rows {
		if i >= headerScanDepth {
			break
		}
		if countNonEmpty(row) >= 2 {
			headerRow = i + 1
			break
		}
	}
	if headerRow == -1 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: no header-like row in the first %d rows", common.ErrTemplate, headerScanDepth)
	}

	headers := make([]string, len(rows[headerRow-1]))
	for i, h := range rows[headerRow-1] {
		headers[i] = strings.TrimSpace(h)
	}

	wb := &Workbook{
		f:         f,
		Path:      path,
		Sheet:     sheet,
		HeaderRow: headerRow,
		Headers:   headers,
		byNumber:  make(map[int]TableRow),
		logger:    logger,
	}

	for i := headerRow; i < len(rows); i++ {
		if countNonEmpty(rows[i]) == 0 {
			continue
		}
		tr := TableRow{
			RowNumber: i + 1,
			Columns:   make(map[string]string, len(headers)),
		}
		for j, cell := range rows[i] {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			tr.Columns[headers[j]] = cell
			tr.ordered = append(tr.ordered, headers[j])
		}
		wb.Rows = append(wb.Rows, tr)
		wb.byNumber[tr.RowNumber] = tr
	}

	logger.Info("sheet.template.loaded",
		"path", path,
		"sheet", sheet,
		"header_row", headerRow,
		"columns", countNonEmptyHeaders(headers),
		"data_rows", len(wb.Rows),
	)
	return wb, nil
}

// RowByNumber returns the data row at the given spreadsheet row number.
func (w *Workbook) RowByNumber(n int) (TableRow, bool) {
	r, ok := w.byNumber[n]
	return r, ok
}

// EnsureColumn returns the 1-based index of the named column, appending it
// after the last template column (and updating the header row) when missing.
// Existing columns are never shrunk or reordered.
func (w *Workbook) EnsureColumn(name string) (int, error) {
	for i, h := range w.Headers {
		if strings.EqualFold(h, name) {
			return i + 1, nil
		}
	}
	col := len(w.Headers) + 1
	cell, err := excelize.CoordinatesToCellName(col, w.HeaderRow)
	if err != nil {
		return 0, err
	}
	if err := w.f.SetCellValue(w.Sheet, cell, name); err != nil {
		return 0, err
	}
	w.Headers = append(w.Headers, name)
	w.logger.Info("sheet.column.created", "name", name, "index", col)
	return col, nil
}

// AppendCell appends text to the cell at (col, rowNumber), concatenating with
// sep when the cell already has content. Prior content is never overwritten.
func (w *Workbook) AppendCell(rowNumber, col int, text, sep string) error {
	cell, err := excelize.CoordinatesToCellName(col, rowNumber)
	if err != nil {
		return err
	}
	existing, err := w.f.GetCellValue(w.Sheet, cell)
	if err != nil {
		return err
	}
	if strings.TrimSpace(existing) != "" {
		text = existing + sep + text
	}
	return w.f.SetCellValue(w.Sheet, cell, text)
}

// SaveAs writes the workbook to a new file.
func (w *Workbook) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: save %s: %v", common.ErrOutput, path, err)
	}
	w.logger.Info("sheet.write.ok", "path", path)
	return nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// OutputPath builds the timestamped output filename next to the template.
func OutputPath(templatePath string, ts time.Time) string {
	dir := filepath.Dir(templatePath)
	base := strings.TrimSuffix(filepath.Base(templatePath), filepath.Ext(templatePath))
	return filepath.Join(dir, fmt.Sprintf("%s_заполнен_%s.xlsx", base, ts.Format("20060102_150405")))
}

func cellName(col, row int) (string, error) {
	return excelize.CoordinatesToCellName(col, row)
}

func countNonEmpty(row []string) int {
	n := 0
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			n++
		}
	}
	return n
}

func countNonEmptyHeaders(headers []string) int {
	return countNonEmpty(headers)
}
