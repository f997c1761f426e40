package constants

// DocType is the classified kind of an input document.
type DocType string

// Stable values (they appear in logs and prompts).
const (
	DocCertificate DocType = "certificate" // удостоверение / протокол проверки знаний
	DocRegulation  DocType = "regulation"  // приказ / положение / инструкция
	DocSchedule    DocType = "schedule"    // график / план-график
	DocUnknown     DocType = "unknown"
)

// DocTypeLabel returns the Russian label used in prompts and the output workbook.
func DocTypeLabel(t DocType) string {
	switch t {
	case DocCertificate:
		return "Удостоверение об обучении"
	case DocRegulation:
		return "Локальный нормативный документ"
	case DocSchedule:
		return "График / план"
	default:
		return "Не определен"
	}
}
