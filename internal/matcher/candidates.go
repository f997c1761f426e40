package matcher

import (
	"strings"

	"github.com/auditkit/auditfill/constants"
)

// candidateKeywords narrows the checklist to rows plausibly related to the
// document type. Lowercase stems, substring match. Unknown documents get the
// whole table.
var candidateKeywords = map[constants.DocType][]string{
	constants.DocCertificate: {"обучен", "квалифик", "аттестац", "инструктаж", "подготовк"},
	constants.DocRegulation:  {"приказ", "положен", "инструкц", "локальн", "докумен"},
	constants.DocSchedule:    {"график", "план", "период", "срок"},
}

// selectCandidates filters header-like rows out, applies the type keyword
// filter, and caps the result. An empty keyword result falls back to the full
// table so an unusual checklist wording never blanks the match.
func (m *Matcher) selectCandidates(docType constants.DocType, rows []Row) []Row {
	table := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !r.HeaderLike {
			table = append(table, r)
		}
	}

	candidates := table
	if stems, ok := candidateKeywords[docType]; ok {
		filtered := make([]Row, 0, len(table))
		for _, r := range table {
			lower := strings.ToLower(r.Text)
			for _, stem := range stems {
				if strings.Contains(lower, stem) {
					filtered = append(filtered, r)
					break
				}
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	if len(candidates) > m.cfg.MaxCandidates {
		candidates = candidates[:m.cfg.MaxCandidates]
	}
	return candidates
}
