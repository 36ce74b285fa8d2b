package types

import (
	"strings"
	"testing"
)

func TestClampComplexity(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		expected int
	}{
		{"below range", -3, 1},
		{"zero", 0, 1},
		{"lower bound", 1, 1},
		{"mid range", 3, 3},
		{"upper bound", 6, 6},
		{"above range", 9, 6},
		{"far above range", 100, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClampComplexity(tt.level)
			if result != tt.expected {
				t.Errorf("ClampComplexity(%d) = %d, want %d", tt.level, result, tt.expected)
			}
		})
	}
}

func TestComplexityLabel(t *testing.T) {
	tests := []struct {
		level    int
		expected string
	}{
		{1, "Minor (1)"},
		{2, "Low (2)"},
		{3, "Moderate (3)"},
		{4, "Significant (4)"},
		{5, "High (5)"},
		{6, "Very High (6)"},
		{0, "Minor (1)"},
		{7, "Very High (6)"},
	}

	for _, tt := range tests {
		result := ComplexityLabel(tt.level)
		if result != tt.expected {
			t.Errorf("ComplexityLabel(%d) = %q, want %q", tt.level, result, tt.expected)
		}
	}
}

func TestFallbackComplexityLabel(t *testing.T) {
	if got := FallbackComplexityLabel(4); got != "Level 4" {
		t.Errorf("Expected 'Level 4', got %q", got)
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected string
	}{
		{0.92, "92.0%"},
		{0.925, "92.5%"},
		{1.0, "100.0%"},
		{0.0, "0.0%"},
		{0.333, "33.3%"},
	}

	for _, tt := range tests {
		result := FormatScore(tt.score)
		if result != tt.expected {
			t.Errorf("FormatScore(%v) = %q, want %q", tt.score, result, tt.expected)
		}
	}
}

func TestFileExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"plain txt", "note.txt", ".txt"},
		{"uppercase", "NOTE.TXT", ".txt"},
		{"mixed case", "Casenote.PdF", ".pdf"},
		{"multiple dots", "discharge.summary.docx", ".docx"},
		{"no extension", "README", ""},
		{"trailing dot", "weird.", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FileExtension(tt.filename)
			if result != tt.expected {
				t.Errorf("FileExtension(%q) = %q, want %q", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestIsSupportedFile(t *testing.T) {
	accepted := []string{"note.txt", "scan.pdf", "summary.docx", "UPPER.TXT", "a.b.pdf"}
	for _, name := range accepted {
		if !IsSupportedFile(name) {
			t.Errorf("Expected %q to be supported", name)
		}
	}

	rejected := []string{"image.png", "archive.zip", "note.doc", "noext", "txt", "note.txt.exe"}
	for _, name := range rejected {
		if IsSupportedFile(name) {
			t.Errorf("Expected %q to be rejected", name)
		}
	}
}

func TestValidateClinicalText(t *testing.T) {
	if err := ValidateClinicalText("chest pain with dyspnoea"); err != nil {
		t.Errorf("Expected valid text to pass, got %v", err)
	}

	// Exactly at the minimum after trimming
	if err := ValidateClinicalText("  abcdefghij  "); err != nil {
		t.Errorf("Expected 10-char trimmed text to pass, got %v", err)
	}

	tooShort := []string{"", "   ", "short", "  nine ch  "}
	for _, text := range tooShort {
		if err := ValidateClinicalText(text); err == nil {
			t.Errorf("Expected %q to fail validation", text)
		}
	}

	long := strings.Repeat("a", MaxClinicalTextLength+1)
	if err := ValidateClinicalText(long); err == nil {
		t.Error("Expected over-length text to fail validation")
	}
}

func TestIdentityDisplayName(t *testing.T) {
	withName := Identity{Name: "Dr Chen", Email: "chen@example.org"}
	if got := withName.DisplayName(); got != "Dr Chen" {
		t.Errorf("Expected 'Dr Chen', got %q", got)
	}

	nameless := Identity{Email: "chen@example.org"}
	if got := nameless.DisplayName(); got != "chen@example.org" {
		t.Errorf("Expected email fallback, got %q", got)
	}
}
