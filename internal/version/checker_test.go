package version

import "testing"

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		name     string
		latest   string
		current  string
		expected bool
	}{
		{"same version", "0.1.0", "0.1.0", false},
		{"patch upgrade", "0.1.1", "0.1.0", true},
		{"patch downgrade", "0.1.0", "0.1.1", false},
		{"minor upgrade", "0.2.0", "0.1.9", true},
		{"minor downgrade", "0.1.0", "0.2.0", false},
		{"major upgrade", "1.0.0", "0.9.9", true},
		{"major downgrade", "0.9.9", "1.0.0", false},
		{"multi-digit patch", "0.1.100", "0.1.99", true},
		{"multi-digit minor", "0.100.0", "0.99.0", true},
		{"different lengths newer", "1.0", "0.1.0", true},
		{"different lengths older", "0.1.0", "1.0", false},
		{"dev version ahead", "0.2.0-dev", "0.1.0", true},
		{"pre-release same base", "0.1.0-alpha", "0.1.0", false},
		{"build metadata", "0.2.0+build123", "0.1.0", true},
		{"both pre-release", "0.2.0-beta", "0.2.0-alpha", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := isNewerVersion(tt.latest, tt.current)
			if result != tt.expected {
				t.Errorf("isNewerVersion(%q, %q) = %v, want %v", tt.latest, tt.current, result, tt.expected)
			}
		})
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
	}{
		{"0.1.0", []int{0, 1, 0}},
		{"1.2", []int{1, 2}},
		{"0.2.0-dev", []int{0, 2, 0}},
		{"0.2.0+build5", []int{0, 2, 0}},
	}

	for _, tt := range tests {
		got := parseVersion(tt.input)
		if len(got) != len(tt.expected) {
			t.Errorf("parseVersion(%q) = %v, want %v", tt.input, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("parseVersion(%q)[%d] = %d, want %d", tt.input, i, got[i], tt.expected[i])
			}
		}
	}
}
