package tagger

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Ёж", "еж"},
		{"ёж", "еж"},
		{"еж", "еж"},
		{"ЁЖ", "еж"},
		{"ПЕЧЁТ", "печет"},
		{"\u0415\u0308ж", "еж"},
		{"мо\u0301локо", "молоко"},
		{"до\u0300ма", "дома"},
		{"\u0450", "е"},
		{"йод", "йод"},
		{"И\u0306", "й"},
		{"Hello", "hello"},
		{"ё\u0308", "е"},
		{"W\u030A", "\u1E98"},
		{"", ""},
	}

	for _, tt := range tests {
		result := Normalize(tt.input)
		if result != tt.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Ёж", "ПЕЧЁТ", "мо\u0301локо", "\u0415\u0308ЛКА", "Нью", "straße", "ЙОГУРТ"}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestStripStressMarks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"за\u0301мок", "замок"},
		{"\u0415\u0308", "Ё"},
		{"\u040D", "И"},
		{"чисто", "чисто"},
	}

	for _, tt := range tests {
		result := StripStressMarks(tt.input)
		if result != tt.expected {
			t.Errorf("StripStressMarks(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestLowercase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ПРИВЕТ", "привет"},
		{"Ёлка", "ёлка"},
		{"MiXeD", "mixed"},
	}

	for _, tt := range tests {
		result := Lowercase(tt.input)
		if result != tt.expected {
			t.Errorf("Lowercase(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestFoldYo(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ёлка", "елка"},
		{"ЁЛКА", "ЕЛКА"},
		{"всё", "все"},
		{"\u0415\u0308ж", "Еж"},
		{"е\u0323\u0308", "е\u0323"},
		{"нет", "нет"},
	}

	for _, tt := range tests {
		result := FoldYo(tt.input)
		if result != tt.expected {
			t.Errorf("FoldYo(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}

func TestStemRussian(t *testing.T) {
	words := []string{"пироги", "любить", "русскую"}

	for _, w := range words {
		stem := StemRussian(w)
		if stem == "" {
			t.Errorf("StemRussian(%q) returned empty stem", w)
		}
		if len([]rune(stem)) > len([]rune(w)) {
			t.Errorf("StemRussian(%q) = %q, longer than input", w, stem)
		}
	}
}
