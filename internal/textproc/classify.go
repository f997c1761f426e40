package textproc

import (
	"strings"

	"github.com/auditkit/auditfill/constants"
)

// Weighted keyword sets per category. Scoring is a literal substring check
// over the upper-cased text, not tokenized, so a keyword also scores inside
// longer words ("ПРИКАЗ" inside "ПРИКАЗЫВАЮ").
var certificateKeywords = map[string]int{
	"УДОСТОВЕРЕНИЕ":   4,
	"СВИДЕТЕЛЬСТВО":   3,
	"ПРОВЕРКИ ЗНАНИЙ": 3,
	"ОБУЧЕНИЕ":        2,
	"ПРОГРАММЕ":       2,
	"КВАЛИФИКАЦ":      2,
	"АТТЕСТАЦ":        2,
	"ОХРАНЕ ТРУДА":    1,
}

var regulationKeywords = map[string]int{
	"ПРИКАЗЫВАЮ":    4,
	"ПРИКАЗ":        3,
	"ПОЛОЖЕНИЕ":     3,
	"РАСПОРЯЖЕНИЕ":  3,
	"УТВЕРЖДАЮ":     2,
	"ИНСТРУКЦИЯ":    2,
	"В СООТВЕТСТВИИ": 1,
}

var scheduleKeywords = map[string]int{
	"ГРАФИК":          4,
	"РАСПИСАНИЕ":      3,
	"ПЛАН":            2,
	"ПЕРИОДИЧНОСТЬ":   2,
	"СРОК ПРОВЕДЕНИЯ": 2,
	"КВАРТАЛ":         1,
}

// categoryOrder fixes the scoring order so results never depend on map
// iteration.
var categoryOrder = []struct {
	docType  constants.DocType
	keywords map[string]int
}{
	{constants.DocCertificate, certificateKeywords},
	{constants.DocRegulation, regulationKeywords},
	{constants.DocSchedule, scheduleKeywords},
}

// Classify scores normalized text against the three weighted keyword sets and
// returns the category with the strictly highest total. A tie between top
// categories, or all zeros, yields DocUnknown: a document the keywords cannot
// separate is better left unfiltered than misfiled.
func Classify(text string) constants.DocType {
	upper := strings.ToUpper(text)

	best := constants.DocUnknown
	bestScore, runnerUp := 0, 0
	for _, cat := range categoryOrder {
		score := 0
		for kw, w := range cat.keywords {
			if strings.Contains(upper, kw) {
				score += w
			}
		}
		switch {
		case score > bestScore:
			runnerUp = bestScore
			bestScore = score
			best = cat.docType
		case score > runnerUp:
			runnerUp = score
		}
	}
	if bestScore == 0 || bestScore == runnerUp {
		return constants.DocUnknown
	}
	return best
}
