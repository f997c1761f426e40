package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/auditkit/auditfill/constants"
	"github.com/auditkit/auditfill/internal/common"
	"github.com/auditkit/auditfill/internal/extract"
	"github.com/auditkit/auditfill/internal/matcher"
)

const certificateText = `УДОСТОВЕРЕНИЕ № 123
ООО «СтройМонтаж»
Выдано о том, что пройдено обучение по программе: «Охрана труда для рабочих профессий»
в объеме 40 часов с 10.03.2024 по 12.03.2024`

type fakeGen struct {
	response string
	err      error
	calls    int
}

func (f *fakeGen) GenerateText(context.Context, string) (string, error) {
	f.calls++
	return f.response, f.err
}

func buildTemplate(t *testing.T, dir string) string {
	t.Helper()
	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	cells := map[string]string{
		"A1": "Чек-лист аудита охраны труда",
		"A2": "№ п/п", "B2": "Наименование требования", "C2": "Основание",
		"A3": "1", "B3": "Работники проходят обучение по охране труда и проверку знаний не реже одного раза в три года", "C3": "Постановление № 2464",
		"A4": "Раздел 2",
		"A5": "2", "B5": "Работодатель организует проведение обязательных периодических медицинских осмотров работников", "C5": "ТК РФ ст. 220",
	}
	for cell, v := range cells {
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(dir, "чек-лист.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeInput(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newProcessor(gen *fakeGen) *Processor {
	cfg := common.Defaults()
	ex := extract.NewExtractor(extract.Config{}, nil, nil)
	var m *matcher.Matcher
	if gen != nil {
		m = matcher.New(gen, matcher.Config{EvidenceColumn: cfg.Sheet.EvidenceColumn}, nil)
	}
	return NewProcessor(cfg, ex, m, nil)
}

func TestRunMatchesAndWritesEvidence(t *testing.T) {
	dir := t.TempDir()
	tpl := buildTemplate(t, dir)
	input := writeInput(t, dir, "удостоверение.txt", certificateText)

	gen := &fakeGen{response: `{"matched_rows": [3], "confidence": "high"}`}
	p := newProcessor(gen)

	out := filepath.Join(dir, "out.xlsx")
	sum, err := p.Run(context.Background(), tpl, []string{input}, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Processed != 1 || sum.Matched != 1 || sum.Failed != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Results[0].DocType != constants.DocCertificate {
		t.Errorf("doc type = %s", sum.Results[0].DocType)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	sheetName := f.GetSheetName(0)

	evidence, _ := f.GetCellValue(sheetName, "D3")
	if !strings.Contains(evidence, "Удостоверение № 123") {
		t.Errorf("evidence = %q", evidence)
	}
	if strings.Contains(evidence, "Иванов") {
		t.Errorf("evidence leaked a person name: %q", evidence)
	}
	source, _ := f.GetCellValue(sheetName, "E3")
	if source != "удостоверение.txt" {
		t.Errorf("source = %q", source)
	}
	// header cells for the two new columns
	if h, _ := f.GetCellValue(sheetName, "D2"); h != "Выявленные несоответствия" {
		t.Errorf("evidence header = %q", h)
	}
	if h, _ := f.GetCellValue(sheetName, "E2"); h != "Файл-источник" {
		t.Errorf("source header = %q", h)
	}
}

func TestRunDemoModeWritesNothing(t *testing.T) {
	dir := t.TempDir()
	tpl := buildTemplate(t, dir)
	input := writeInput(t, dir, "удостоверение.txt", certificateText)

	p := newProcessor(nil) // no matcher: demo

	out := filepath.Join(dir, "demo.xlsx")
	sum, err := p.Run(context.Background(), tpl, []string{input}, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sum.Demo || sum.Matched != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Results[0].DocType != constants.DocCertificate {
		t.Errorf("demo mode must still classify, got %s", sum.Results[0].DocType)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheetName := f.GetSheetName(0)
	if v, _ := f.GetCellValue(sheetName, "D2"); v != "" {
		t.Errorf("demo output grew a column: %q", v)
	}
	if v, _ := f.GetCellValue(sheetName, "D3"); v != "" {
		t.Errorf("demo output has evidence: %q", v)
	}
}

func TestRunIsolatesPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	tpl := buildTemplate(t, dir)
	good := writeInput(t, dir, "удостоверение.txt", certificateText)
	bad := filepath.Join(dir, "архив.zip") // unsupported extension

	gen := &fakeGen{response: `{"matched_rows": [3]}`}
	p := newProcessor(gen)

	sum, err := p.Run(context.Background(), tpl, []string{bad, good}, filepath.Join(dir, "out.xlsx"))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Processed != 2 || sum.Failed != 1 || sum.Matched != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.Results[0].Err == nil {
		t.Error("bad file should carry its error")
	}
	if !sum.Results[1].Matched {
		t.Errorf("good file should still match: %+v", sum.Results[1])
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	p := newProcessor(&fakeGen{response: `{"matched_rows": []}`})
	p.running.Store(true)

	_, err := p.Run(context.Background(), "х.xlsx", []string{"a.txt"}, "")
	if !errors.Is(err, common.ErrRunInProgress) {
		t.Errorf("want ErrRunInProgress, got %v", err)
	}
}

func TestRunRequiresFiles(t *testing.T) {
	p := newProcessor(&fakeGen{})
	_, err := p.Run(context.Background(), "х.xlsx", nil, "")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("want ErrInvalidInput, got %v", err)
	}
}

func TestSequentialRunsProduceDistinctOutputs(t *testing.T) {
	dir := t.TempDir()
	tpl := buildTemplate(t, dir)
	input := writeInput(t, dir, "удостоверение.txt", certificateText)
	before, err := os.ReadFile(tpl)
	if err != nil {
		t.Fatal(err)
	}

	gen := &fakeGen{response: `{"matched_rows": [3]}`}
	p := newProcessor(gen)

	p.now = func() time.Time { return time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC) }
	first, err := p.Run(context.Background(), tpl, []string{input}, "")
	if err != nil {
		t.Fatal(err)
	}
	p.now = func() time.Time { return time.Date(2024, 3, 12, 10, 0, 1, 0, time.UTC) }
	second, err := p.Run(context.Background(), tpl, []string{input}, "")
	if err != nil {
		t.Fatal(err)
	}

	if first.OutputPath == second.OutputPath {
		t.Errorf("runs share an output file: %s", first.OutputPath)
	}
	for _, out := range []string{first.OutputPath, second.OutputPath} {
		if _, err := os.Stat(out); err != nil {
			t.Errorf("missing output %s: %v", out, err)
		}
	}

	after, err := os.ReadFile(tpl)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("template file changed on disk")
	}
}

func TestRunProviderDownStillProducesOutput(t *testing.T) {
	dir := t.TempDir()
	tpl := buildTemplate(t, dir)
	input := writeInput(t, dir, "удостоверение.txt", certificateText)

	gen := &fakeGen{err: errors.New("connection refused")}
	p := newProcessor(gen)

	out := filepath.Join(dir, "out.xlsx")
	sum, err := p.Run(context.Background(), tpl, []string{input}, out)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Matched != 0 || sum.Failed != 0 {
		t.Errorf("summary = %+v", sum)
	}
	if !strings.Contains(sum.Results[0].Reason, "provider error") {
		t.Errorf("reason = %q", sum.Results[0].Reason)
	}
	if _, statErr := os.Stat(out); statErr != nil {
		t.Errorf("output copy must exist even without matches: %v", statErr)
	}
}
