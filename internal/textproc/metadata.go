package textproc

import "regexp"

// Metadata holds structured fields pulled from normalized text. Every field
// is independently optional: a pattern that does not match leaves the field
// empty, never an error.
type Metadata struct {
	Organization string   `json:"organization,omitempty"`
	DocTypeLabel string   `json:"doc_type_label,omitempty"`
	DocNumber    string   `json:"doc_number,omitempty"`
	DocDate      string   `json:"doc_date,omitempty"`
	Persons      []string `json:"persons,omitempty"`
}

const maxPersons = 5

var (
	reOrganization = regexp.MustCompile(`(?:ООО|ЗАО|ОАО|АО)\s*«[^»]{1,120}»`)
	reDocNumber    = regexp.MustCompile(`№\s*([0-9][0-9/\-]*[0-9]|[0-9])`)
	reDocDate      = regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)
	// full-name heuristic: three consecutive capitalized Cyrillic words
	rePerson = regexp.MustCompile(`[А-ЯЁ][а-яё]+\s+[А-ЯЁ][а-яё]+\s+[А-ЯЁ][а-яё]+`)
)

// docTypeKeywords is the fixed keyword set probed case-insensitively, in
// order; the first hit becomes the label.
var docTypeKeywords = []string{
	"удостоверение",
	"приказ",
	"положение",
	"инструкция",
	"протокол",
	"график",
	"план",
	"акт",
	"договор",
}

var docTypeKeywordRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(docTypeKeywords))
	for i, kw := range docTypeKeywords {
		res[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(kw))
	}
	return res
}()

// ExtractMetadata pulls structured fields out of normalized text.
func ExtractMetadata(text string) Metadata {
	var m Metadata

	m.Organization = reOrganization.FindString(text)

	for i, re := range docTypeKeywordRes {
		if re.MatchString(text) {
			m.DocTypeLabel = docTypeKeywords[i]
			break
		}
	}

	if sub := reDocNumber.FindStringSubmatch(text); len(sub) == 2 {
		m.DocNumber = sub[1]
	}

	m.DocDate = reDocDate.FindString(text)

	for _, p := range rePerson.FindAllString(text, maxPersons) {
		m.Persons = append(m.Persons, p)
	}
	return m
}
