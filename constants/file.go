package constants

import "strings"

// Format is the coarse input kind the extraction front end dispatches on.
type Format string

const (
	PDF     Format = "PDF"
	IMAGE   Format = "IMAGE"
	DOCX    Format = "DOCX"
	TXT     Format = "TXT"
	UNKNOWN Format = "UNKNOWN"
)

// AllowedExtensions holds the file extensions accepted for processing.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
	"doc":  {},
	"txt":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"bmp":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a (normalized or raw) extension to its Format.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "bmp":
		return IMAGE
	case "docx", "doc":
		return DOCX
	case "txt":
		return TXT
	default:
		return UNKNOWN
	}
}

// FileTypeLabel returns a human-readable Russian label for logs and the
// output workbook, mirroring the labels users saw in the desktop tool.
func FileTypeLabel(ext string) string {
	switch NormalizeExt(ext) {
	case "docx", "doc":
		return "Word документ"
	case "pdf":
		return "PDF документ"
	case "jpg", "jpeg":
		return "Изображение JPEG"
	case "png":
		return "Изображение PNG"
	case "bmp":
		return "Изображение BMP"
	case "txt":
		return "Текстовый файл"
	default:
		return "Неизвестный тип"
	}
}
