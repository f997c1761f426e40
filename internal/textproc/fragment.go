package textproc

import (
	"regexp"
	"strings"

	"github.com/auditkit/auditfill/constants"
)

// Truncation budgets per document type, in runes.
const (
	certificateBudget = 400
	regulationBudget  = 350
	scheduleBudget    = 400
	unknownBudget     = 300
)

var (
	reTopic      = regexp.MustCompile(`(?i)программе:?\s*«?([^«»\n.]{3,200})`)
	reCertNumber = regexp.MustCompile(`(?i)удостоверение\s*№?\s*([0-9][0-9/\-]*)`)
	// \b does not work for Cyrillic in Go regexp, hence the explicit left context
	reRegTitle = regexp.MustCompile(`(?:^|[\s«])(Об?\s[^.\n«»]{3,200})`)
	reSchedTitle = regexp.MustCompile(`(?i)(?:график|план)[а-яё]*\s*[:\-]\s*([^.\n|]{3,160})`)
	reSeparator  = regexp.MustCompile(`^[\s|:\-—+]+$`)
)

// BuildFragment extracts a short, type-specific summary fragment suitable for
// a single spreadsheet cell. Certificate fragments deliberately omit personal
// names. Falls back to a plain prefix of the text when no branch pattern
// matches anything.
func BuildFragment(text string, docType constants.DocType, meta Metadata) string {
	var frag string
	switch docType {
	case constants.DocCertificate:
		frag = certificateFragment(text, meta)
	case constants.DocRegulation:
		frag = regulationFragment(text, meta)
	case constants.DocSchedule:
		frag = scheduleFragment(text, meta)
	}
	if frag == "" {
		return TruncateSentence(text, unknownBudget)
	}
	return frag
}

// certificateFragment: topic, date range, certificate number. No persons.
func certificateFragment(text string, meta Metadata) string {
	var parts []string

	num := ""
	if sub := reCertNumber.FindStringSubmatch(text); len(sub) == 2 {
		num = sub[1]
	} else if meta.DocNumber != "" {
		num = meta.DocNumber
	}
	if num != "" {
		parts = append(parts, "Удостоверение № "+num)
	}

	if sub := reTopic.FindStringSubmatch(text); len(sub) == 2 {
		parts = append(parts, "Программа: «"+strings.TrimSpace(sub[1])+"»")
	}

	dates := reDocDate.FindAllString(text, 2)
	switch len(dates) {
	case 2:
		parts = append(parts, "Период обучения: "+dates[0]+" — "+dates[1])
	case 1:
		parts = append(parts, "Дата: "+dates[0])
	}

	if len(parts) == 0 {
		return ""
	}
	return TruncateSentence(strings.Join(parts, ". ")+".", certificateBudget)
}

// regulationFragment: document-type label, number, date, title.
func regulationFragment(text string, meta Metadata) string {
	var parts []string

	if meta.DocTypeLabel != "" {
		head := capitalizeFirst(meta.DocTypeLabel)
		if meta.DocNumber != "" {
			head += " № " + meta.DocNumber
		}
		if meta.DocDate != "" {
			head += " от " + meta.DocDate
		}
		parts = append(parts, head)
	}

	if sub := reRegTitle.FindStringSubmatch(text); len(sub) == 2 {
		parts = append(parts, "«"+strings.TrimSpace(sub[1])+"»")
	}

	if len(parts) == 0 {
		return ""
	}
	return TruncateSentence(strings.Join(parts, " "), regulationBudget)
}

// scheduleFragment: title, date, and one header line plus one example row when
// the text contains pipe-delimited table-like lines.
func scheduleFragment(text string, meta Metadata) string {
	var parts []string

	if sub := reSchedTitle.FindStringSubmatch(text); len(sub) == 2 {
		parts = append(parts, "График: "+strings.TrimSpace(sub[1]))
	}
	if meta.DocDate != "" {
		parts = append(parts, "Дата: "+meta.DocDate)
	}

	if header, example := pipeTableSample(text); header != "" {
		parts = append(parts, "Колонки: "+header)
		if example != "" {
			parts = append(parts, "Пример: "+example)
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return TruncateSentence(strings.Join(parts, ". ")+".", scheduleBudget)
}

// pipeTableSample returns the first pipe-delimited line (column headers) and
// the first subsequent non-separator line (one example row).
func pipeTableSample(text string) (header, example string) {
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, "|") < 2 {
			continue
		}
		if reSeparator.MatchString(line) {
			continue
		}
		line = strings.TrimSpace(line)
		if header == "" {
			header = line
			continue
		}
		example = line
		break
	}
	return header, example
}

// TruncateSentence cuts s to at most budget runes, preferring a sentence
// boundary when the cut point retains at least half the budget, else a word
// boundary with a trailing ellipsis.
func TruncateSentence(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	cut := runes[:budget]

	last := -1
	for i, r := range cut {
		if r == '.' || r == '!' || r == '?' {
			last = i
		}
	}
	if last+1 >= budget/2 {
		return strings.TrimSpace(string(cut[:last+1]))
	}

	// fall back to a word boundary
	space := -1
	for i, r := range cut {
		if r == ' ' {
			space = i
		}
	}
	if space > 0 {
		cut = cut[:space]
	}
	return strings.TrimSpace(string(cut)) + "…"
}

func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
