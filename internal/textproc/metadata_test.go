package textproc

import (
	"reflect"
	"testing"
)

func TestExtractMetadata(t *testing.T) {
	text := Normalize(`ООО «СтройМонтаж» Приказ № 45/1-ОТ от 12.03.2024
Об утверждении инструкции по охране труда.
Ответственный: Иванов Иван Иванович. Согласовано: Петров Петр Петрович.`)

	m := ExtractMetadata(text)

	if m.Organization != "ООО «СтройМонтаж»" {
		t.Errorf("Organization = %q", m.Organization)
	}
	if m.DocTypeLabel != "приказ" {
		t.Errorf("DocTypeLabel = %q, want %q", m.DocTypeLabel, "приказ")
	}
	if m.DocNumber != "45/1" {
		t.Errorf("DocNumber = %q, want %q", m.DocNumber, "45/1")
	}
	if m.DocDate != "12.03.2024" {
		t.Errorf("DocDate = %q", m.DocDate)
	}
	want := []string{"Иванов Иван Иванович", "Петров Петр Петрович"}
	if !reflect.DeepEqual(m.Persons, want) {
		t.Errorf("Persons = %v, want %v", m.Persons, want)
	}
}

func TestExtractMetadataAllOptional(t *testing.T) {
	m := ExtractMetadata("короткий текст без реквизитов")
	if m.Organization != "" || m.DocTypeLabel != "" || m.DocNumber != "" || m.DocDate != "" || len(m.Persons) != 0 {
		t.Errorf("expected empty metadata, got %+v", m)
	}
}

func TestExtractMetadataPersonsCapped(t *testing.T) {
	text := ""
	names := []string{
		"Иванов Иван Иванович", "Петров Петр Петрович", "Сидоров Семен Семенович",
		"Козлов Кирилл Кириллович", "Орлов Олег Олегович", "Волков Василий Васильевич",
	}
	for _, n := range names {
		text += n + ", "
	}
	m := ExtractMetadata(text)
	if len(m.Persons) != maxPersons {
		t.Errorf("Persons capped at %d, got %d", maxPersons, len(m.Persons))
	}
}
