package matcher

import (
	"fmt"
	"strings"

	"github.com/auditkit/auditfill/constants"
	"github.com/auditkit/auditfill/internal/textproc"
)

// buildPrompt renders the Russian matching prompt: the candidate rows, the
// document fragment and a bounded excerpt, and strict output instructions.
func (m *Matcher) buildPrompt(in Input, candidates []Row) string {
	var b strings.Builder

	b.WriteString("Ты помощник аудитора по охране труда. ")
	b.WriteString("Ниже приведены строки чек-листа аудита и содержимое одного документа. ")
	b.WriteString("Определи, к каким строкам чек-листа относится документ.\n\n")

	b.WriteString("Строки чек-листа (номер строки — текст):\n")
	for _, r := range candidates {
		fmt.Fprintf(&b, "%d — %s\n", r.Number, textproc.TruncateSentence(r.Text, m.cfg.RowTextBudget))
	}

	b.WriteString("\nДокумент:\n")
	fmt.Fprintf(&b, "Тип: %s\n", constants.DocTypeLabel(in.DocType))
	if in.Meta.Organization != "" {
		fmt.Fprintf(&b, "Организация: %s\n", in.Meta.Organization)
	}
	if in.Meta.DocNumber != "" {
		fmt.Fprintf(&b, "Номер: %s\n", in.Meta.DocNumber)
	}
	if in.Meta.DocDate != "" {
		fmt.Fprintf(&b, "Дата: %s\n", in.Meta.DocDate)
	}
	if in.Fragment != "" {
		fmt.Fprintf(&b, "Краткое содержание: %s\n", in.Fragment)
	}
	if in.Excerpt != "" {
		fmt.Fprintf(&b, "Фрагмент текста:\n%s\n", textproc.TruncateSentence(in.Excerpt, m.cfg.ExcerptBudget))
	}

	b.WriteString("\nОтветь строго одним JSON-объектом без пояснений вне JSON:\n")
	b.WriteString(`{"matched_rows": [номера строк из списка выше], "target_column": "название колонки", "confidence": "low|medium|high", "explanation": "краткое обоснование"}`)
	b.WriteString("\nЕсли документ не относится ни к одной строке, верни {\"matched_rows\": []}.\n")
	return b.String()
}
