package textproc

import (
	"regexp"
	"strings"
)

var (
	rePercentEscape = regexp.MustCompile(`%[0-9A-Fa-f]{2}`)
	reSpacedDate    = regexp.MustCompile(`(\d{1,2})\s*\.\s*(\d{1,2})\s*\.\s*(\d{4})`)
	reWhitespace    = regexp.MustCompile(`\s+`)
	reHorizSpace    = regexp.MustCompile(`[ \t\r]+`)
	reSentenceBreak = regexp.MustCompile(`([.!?])\s+([А-ЯЁA-Z])`)
)

// punctRunChars are the characters OCR smears into long separator runs. RE2
// has no backreferences, so each character gets its own run-collapsing regexp.
const punctRunChars = ".-_=*~|"

var punctRunRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(punctRunChars))
	for _, r := range punctRunChars {
		res = append(res, regexp.MustCompile(regexp.QuoteMeta(string(r))+`{6,}`))
	}
	return res
}()

// Fixed garbage substrings OCR engines are known to emit on scanned Russian
// documents. Removed verbatim before any other cleanup.
var garbageSubstrings = []string{
	"�", // replacement character
	"(cid:",
	"[?]",
	"¦",
	"­", // soft hyphen
}

// Known abbreviations that OCR splits into letter-spaced form ("О О О" → "ООО").
var spacedWords = []string{"ООО", "ЗАО", "ОАО", "АО", "ИП", "СИЗ", "ГОСТ"}

// Both sides are anchored on non-letter context: the short entries ("АО",
// "ИП") would otherwise match a word-final А next to a word-initial О and
// glue unrelated words together.
type spacedWordRule struct {
	re   *regexp.Regexp
	repl string
}

var spacedWordRules = func() []spacedWordRule {
	rules := make([]spacedWordRule, len(spacedWords))
	for i, w := range spacedWords {
		letters := []rune(w)
		parts := make([]string, len(letters))
		for j, r := range letters {
			parts[j] = regexp.QuoteMeta(string(r))
		}
		rules[i] = spacedWordRule{
			re:   regexp.MustCompile(`(^|[^\pL])` + strings.Join(parts, `\s+`) + `([^\pL]|$)`),
			repl: "${1}" + w + "${2}",
		}
	}
	return rules
}()

// Normalize cleans raw extracted text. Rules are applied in a fixed order:
// percent-escapes, garbage substrings, punctuation runs, letter-spaced words,
// date punctuation, whitespace collapse, paragraph restore. The function is
// idempotent and always returns a string (possibly empty).
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = rePercentEscape.ReplaceAllString(s, "")
	for _, g := range garbageSubstrings {
		s = strings.ReplaceAll(s, g, "")
	}
	for i, re := range punctRunRes {
		s = re.ReplaceAllString(s, string(punctRunChars[i]))
	}
	for _, rule := range spacedWordRules {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	s = reSpacedDate.ReplaceAllString(s, "$1.$2.$3")
	s = collapseWhitespace(s)
	s = reSentenceBreak.ReplaceAllString(s, "$1\n$2")
	return s
}

// collapseWhitespace flattens runs of whitespace to single spaces. Text that
// carries a pipe-delimited table keeps its line breaks instead: the schedule
// fragment reads that table row by row, and a global collapse would merge the
// header and data rows into one line.
func collapseWhitespace(s string) string {
	if !hasPipeTable(s) {
		return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(reHorizSpace.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func hasPipeTable(s string) bool {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.Count(line, "|") >= 2 {
			n++
			if n >= 2 {
				return true
			}
		}
	}
	return false
}
