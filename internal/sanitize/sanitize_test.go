package sanitize

import (
	"strings"
	"testing"
)

func TestSanitizeReplacements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"en dash", "BP 120–130", "BP 120-130"},
		{"em dash", "pain — severe", "pain - severe"},
		{"degrees", "temp 38°C", "temp 38 degrees C"},
		{"smart quotes", "“chest pain”", `"chest pain"`},
		{"apostrophe", "patient’s history", "patient's history"},
		{"multiply", "3×4 daily", "3x4 daily"},
		{"superscript", "10² organisms", "102 organisms"},
		{"bullet", "• fever", "- fever"},
		{"ellipsis", "ongoing…", "ongoing..."},
		{"trademark stripped", "Panadol™ given", "Panadol given"},
		{"nbsp", "a b", "a b"},
		{"plain ascii untouched", "chest pain, SOB", "chest pain, SOB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Sanitize(tt.input)
			if result != tt.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeStripsNonLatin(t *testing.T) {
	result := Sanitize("pain 中文 noted")
	if result != "pain    noted" {
		t.Errorf("Expected non-latin runs replaced by spaces, got %q", result)
	}
}

func TestPreviewSingleLine(t *testing.T) {
	input := "line one\nline two\ttabbed\r\nline three"
	result := Preview(input, 80)
	if strings.ContainsAny(result, "\n\r\t") {
		t.Errorf("Expected single-line preview, got %q", result)
	}
	if result != "line one line two tabbed line three" {
		t.Errorf("Unexpected preview: %q", result)
	}
}

func TestPreviewASCIIOnly(t *testing.T) {
	input := "café au lait spots, 中文, temp 38°"
	result := Preview(input, 200)
	for _, r := range result {
		if r < 32 || r > 126 {
			t.Errorf("Preview contains non-ASCII or control rune %q in %q", r, result)
		}
	}
}

func TestPreviewTruncation(t *testing.T) {
	input := strings.Repeat("chest pain ", 30)
	result := Preview(input, 80)
	if len(result) > 80 {
		t.Errorf("Expected at most 80 bytes, got %d", len(result))
	}
	if !strings.HasSuffix(result, "...") {
		t.Errorf("Expected ellipsis suffix, got %q", result)
	}
}

func TestPreviewShortInputUntruncated(t *testing.T) {
	result := Preview("brief note", 80)
	if result != "brief note" {
		t.Errorf("Expected untouched short input, got %q", result)
	}
}
