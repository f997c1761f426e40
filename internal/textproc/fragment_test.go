package textproc

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/auditkit/auditfill/constants"
)

func TestBuildFragmentCertificate(t *testing.T) {
	text := Normalize(`УДОСТОВЕРЕНИЕ № 0457 выдано Иванову Ивану Ивановичу в том, что он прошел
обучение по программе: «Охрана труда для руководителей и специалистов» с 01.02.2024 по 15.02.2024.
Удостоверение № 0457 действительно до 15.02.2027.`)
	meta := ExtractMetadata(text)

	frag := BuildFragment(text, constants.DocCertificate, meta)

	if !strings.Contains(frag, "0457") {
		t.Errorf("fragment missing certificate number: %q", frag)
	}
	if !strings.Contains(frag, "Охрана труда для руководителей и специалистов") {
		t.Errorf("fragment missing topic: %q", frag)
	}
	if !strings.Contains(frag, "01.02.2024") || !strings.Contains(frag, "15.02.2024") {
		t.Errorf("fragment missing date range: %q", frag)
	}
	// personal names are deliberately excluded
	if strings.Contains(frag, "Иванов") {
		t.Errorf("fragment must not contain personal names: %q", frag)
	}
}

func TestBuildFragmentRegulation(t *testing.T) {
	text := Normalize(`ООО «Вектор» ПРИКАЗ № 12 от 05.03.2024 Об утверждении инструкции по охране труда. ПРИКАЗЫВАЮ: утвердить.`)
	meta := ExtractMetadata(text)

	frag := BuildFragment(text, constants.DocRegulation, meta)

	if !strings.Contains(frag, "Приказ № 12 от 05.03.2024") {
		t.Errorf("fragment missing requisites: %q", frag)
	}
	if !strings.Contains(frag, "Об утверждении инструкции") {
		t.Errorf("fragment missing title: %q", frag)
	}
}

func TestBuildFragmentSchedulePipeTable(t *testing.T) {
	// normalized like in the pipeline: table line breaks must survive Normalize
	text := Normalize("План: проверки знаний на 2024 год от 10.01.2024\n" +
		"| № | Подразделение |  Срок |\n" +
		"|---|---|---|\n" +
		"| 1 | Цех №1 | март |")
	meta := Metadata{DocDate: "10.01.2024"}

	frag := BuildFragment(text, constants.DocSchedule, meta)

	if !strings.Contains(frag, "проверки знаний") {
		t.Errorf("fragment missing title: %q", frag)
	}
	if !strings.Contains(frag, "Подразделение") {
		t.Errorf("fragment missing column headers: %q", frag)
	}
	if !strings.Contains(frag, "Цех №1") {
		t.Errorf("fragment missing example row: %q", frag)
	}
}

func TestBuildFragmentUnknownFallback(t *testing.T) {
	text := strings.Repeat("слово ", 200)
	frag := BuildFragment(text, constants.DocUnknown, Metadata{})
	if utf8.RuneCountInString(frag) > unknownBudget+1 { // +1 for the ellipsis
		t.Errorf("unknown fragment too long: %d runes", utf8.RuneCountInString(frag))
	}
}

func TestBuildFragmentBudgets(t *testing.T) {
	long := strings.Repeat("очень длинное предложение без точки ", 50)
	tests := []struct {
		docType constants.DocType
		budget  int
	}{
		{constants.DocCertificate, certificateBudget},
		{constants.DocRegulation, regulationBudget},
		{constants.DocSchedule, scheduleBudget},
		{constants.DocUnknown, unknownBudget},
	}
	for _, tt := range tests {
		frag := BuildFragment(long, tt.docType, Metadata{})
		if n := utf8.RuneCountInString(frag); n > tt.budget+1 {
			t.Errorf("%s fragment %d runes exceeds budget %d", tt.docType, n, tt.budget)
		}
	}
}

func TestTruncateSentence(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		budget int
		want   string
	}{
		{"short kept", "короткий текст", 300, "короткий текст"},
		{"sentence cut", "Первое предложение длинное. Хвост который не влезает в бюджет", 35, "Первое предложение длинное."},
		{"word cut with ellipsis", "слова без знаков препинания вообще нигде", 20, "слова без знаков…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateSentence(tt.in, tt.budget); got != tt.want {
				t.Errorf("TruncateSentence(%q, %d) = %q, want %q", tt.in, tt.budget, got, tt.want)
			}
		})
	}
}
