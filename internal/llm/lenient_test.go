package llm

import (
	"errors"
	"testing"
)

type matchPayload struct {
	MatchedRows []any  `json:"matched_rows"`
	Confidence  string `json:"confidence"`
	Explanation string `json:"explanation"`
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			"bare object",
			`{"matched_rows":[1]}`,
			`{"matched_rows":[1]}`,
			true,
		},
		{
			"wrapped in commentary",
			"Вот результат анализа:\n{\"matched_rows\": [5]}\nНадеюсь, это поможет!",
			`{"matched_rows": [5]}`,
			true,
		},
		{
			"braces inside strings ignored",
			`prefix {"explanation": "скобки } внутри { строки", "matched_rows": []} suffix`,
			`{"explanation": "скобки } внутри { строки", "matched_rows": []}`,
			true,
		},
		{
			"no object",
			"не могу сопоставить строки",
			"",
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractJSONObject(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDecodeLenientMalformations(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"valid", `{"matched_rows": [5, 7], "confidence": "high"}`},
		{"single quotes", `{'matched_rows': [5, 7], 'confidence': 'high'}`},
		{"literal newline in string", "{\"matched_rows\": [5, 7], \"explanation\": \"строка\nс переносом\", \"confidence\": \"high\"}"},
		{"stray escapes", `{"matched_rows": \[5, 7\], "confidence": "high"}`},
		{"invalid escape in string", `{"matched_rows": [5, 7], "explanation": "пункт \№5", "confidence": "high"}`},
		{"commentary around", "Ответ: {'matched_rows': [5, 7], 'confidence': 'high'} Конец."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p matchPayload
			if err := DecodeLenient(tt.in, &p); err != nil {
				t.Fatalf("DecodeLenient failed: %v", err)
			}
			if len(p.MatchedRows) != 2 {
				t.Errorf("matched_rows = %v, want 2 entries", p.MatchedRows)
			}
			if p.Confidence != "high" {
				t.Errorf("confidence = %q", p.Confidence)
			}
		})
	}
}

func TestDecodeLenientNoObject(t *testing.T) {
	var p matchPayload
	err := DecodeLenient("никакого JSON здесь нет", &p)
	if !errors.Is(err, ErrNoJSONObject) {
		t.Errorf("want ErrNoJSONObject, got %v", err)
	}
}

func TestRepairJSONUnchangedWhenValid(t *testing.T) {
	in := `{"matched_rows": [1], "explanation": "обычная \"строка\" с экранированием"}`
	if got := RepairJSON(in); got != in {
		t.Errorf("valid JSON must pass through unchanged:\n in:  %s\n got: %s", in, got)
	}
}
