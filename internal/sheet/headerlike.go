package sheet

import (
	"strings"
	"unicode/utf8"
)

// headerLikeRuneLimit: very short rows are section banners or numbering, not
// checklist requirements.
const headerLikeRuneLimit = 50

var headerLikeKeywords = []string{
	"РАЗДЕЛ",
	"ПОДРАЗДЕЛ",
	"№ П/П",
	"НАИМЕНОВАНИЕ РАЗДЕЛА",
	"ИТОГО",
}

// IsHeaderLike reports whether a row is a section header or service row that
// must never receive evidence text.
func IsHeaderLike(r TableRow) bool {
	combined := r.CombinedText()
	if utf8.RuneCountInString(combined) < headerLikeRuneLimit {
		return true
	}
	upper := strings.ToUpper(combined)
	for _, kw := range headerLikeKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
