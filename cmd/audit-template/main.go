// audit-template generates a sample checklist workbook to start from: sheet
// "Аудит" with styled headers, preset column widths, and two example rows.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Аудит"

var headers = []string{
	"№",
	"Дата документа",
	"Номер документа",
	"Тип документа",
	"Название/Описание",
	"Сумма",
	"Контрагент",
	"Ответственное лицо",
	"Статус",
	"Выявленные несоответствия",
	"Рекомендации",
	"Примечания",
}

var columnWidths = []float64{5, 12, 15, 15, 30, 12, 20, 20, 12, 35, 35, 25}

var exampleRows = [][]string{
	{"", "01.11.2025", "ДОК-001", "Договор", "Договор поставки оборудования", "150000", "ООО «Поставщик»", "Иванов И.И.", "Проверен", "", "", ""},
	{"", "05.11.2025", "АКТ-015", "Акт приемки", "Акт приемки выполненных работ", "85000", "ООО «Подрядчик»", "Петров П.П.", "На проверке", "", "", ""},
}

func main() {
	out := flag.String("out", "audit_template.xlsx", "output file path")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := buildTemplate(*out); err != nil {
		logger.Error("template.create_failed", "path", *out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Шаблон создан: %s (%d колонок)\n", *out, len(headers))
}

func buildTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet(f.GetSheetName(0)); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: thinBorder(),
	})
	if err != nil {
		return err
	}
	cellStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    thinBorder(),
	})
	if err != nil {
		return err
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetRowHeight(sheetName, 1, 30); err != nil {
		return err
	}

	for r, row := range exampleRows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheetName, cell, cell, cellStyle); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Style: 1},
		{Type: "right", Style: 1},
		{Type: "top", Style: 1},
		{Type: "bottom", Style: 1},
	}
}
