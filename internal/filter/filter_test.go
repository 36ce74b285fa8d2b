package filter

import (
	"strings"
	"testing"
)

const sampleResult = `{
	"suggested_code": "J18.9",
	"descriptor": "Pneumonia, unspecified",
	"candidates": [
		{"code": "J18.9", "descriptor": "Pneumonia, unspecified", "score": 0.92, "source": "both"},
		{"code": "J22", "descriptor": "Acute lower respiratory infection", "score": 0.55, "source": "tfidf"}
	]
}`

func TestApplyEmptyExpression(t *testing.T) {
	result, err := Apply(sampleResult, "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != sampleResult {
		t.Error("Expected input returned unchanged for empty expression")
	}
}

func TestApplyFieldSelection(t *testing.T) {
	result, err := Apply(sampleResult, "suggested_code")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != `"J18.9"` {
		t.Errorf("Expected \"J18.9\", got %s", result)
	}
}

func TestApplyProjection(t *testing.T) {
	result, err := Apply(sampleResult, "candidates[].code")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(result, "J18.9") || !strings.Contains(result, "J22") {
		t.Errorf("Expected both codes in projection, got %s", result)
	}
}

func TestApplyFilterExpression(t *testing.T) {
	result, err := Apply(sampleResult, "candidates[?score > `0.9`].code")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(result, "J18.9") || strings.Contains(result, "J22") {
		t.Errorf("Expected only the high-score code, got %s", result)
	}
}

func TestApplyMissingFieldYieldsNull(t *testing.T) {
	result, err := Apply(sampleResult, "no_such_field")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result != "null" {
		t.Errorf("Expected null, got %s", result)
	}
}

func TestApplyInvalidJSON(t *testing.T) {
	if _, err := Apply("not json", "field"); err == nil {
		t.Error("Expected an error for invalid JSON")
	}
}

func TestApplyInvalidExpression(t *testing.T) {
	if _, err := Apply(sampleResult, "candidates[?"); err == nil {
		t.Error("Expected an error for invalid expression")
	}
}

func TestIsValidJMESPath(t *testing.T) {
	if !IsValidJMESPath("candidates[].code") {
		t.Error("Expected valid expression to pass")
	}
	if IsValidJMESPath("candidates[?") {
		t.Error("Expected invalid expression to fail")
	}
}
