package textproc

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	samples := []string{
		"",
		"ООО «Ромашка»   проводит  обучение.",
		"О О О «Вектор» . Приказ № 12 от 01 . 02 . 2023 г. Об утверждении положения.",
		"Текст%20с%0Aэкранированием......и мусором �",
		"Первое предложение. Второе предложение! Третье?",
		"ПРОГРАММА ОБУЧЕНИЯ ПО ОХРАНЕ ТРУДА",
		"План: проверки\n| № | Срок |\n|---|---|\n| 1 | март |",
	}
	for _, s := range samples {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent:\n in: %q\n 1x: %q\n 2x: %q", s, once, twice)
		}
	}
}

func TestNormalizeRules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"percent escapes", "текст%20документа", "текстдокумента"},
		{"garbage", "акт � проверки", "акт проверки"},
		{"punct run", "раздел......конец", "раздел.конец"},
		{"dash run", "подпись --------- расшифровка", "подпись - расшифровка"},
		{"equals run", "==========\nРАЗДЕЛ 1", "= РАЗДЕЛ 1"},
		{"letter-spaced org", "О О О «Строй»", "ООО «Строй»"},
		{"letter-spaced person prefix", "И П Сидоров А.Б.", "ИП Сидоров А.Б."},
		{
			"word boundary not glued",
			"ПРОГРАММА ОБУЧЕНИЯ ПО ОХРАНЕ ТРУДА",
			"ПРОГРАММА ОБУЧЕНИЯ ПО ОХРАНЕ ТРУДА",
		},
		{
			"conjunction not glued",
			"ОХРАНА ТРУДА И ПРОМЫШЛЕННАЯ БЕЗОПАСНОСТЬ",
			"ОХРАНА ТРУДА И ПРОМЫШЛЕННАЯ БЕЗОПАСНОСТЬ",
		},
		{"spaced date", "от 01 . 02 . 2023", "от 01.02.2023"},
		{"whitespace collapse", "много    пробелов\t\tи\nпереносов", "много пробелов и переносов"},
		{"paragraph break", "Конец раздела. Новый раздел", "Конец раздела.\nНовый раздел"},
		{
			"pipe table keeps line breaks",
			"График на год\n| № | Цех |\n\n| 1 |  Цех №1 |",
			"График на год\n| № | Цех |\n| 1 | Цех №1 |",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
