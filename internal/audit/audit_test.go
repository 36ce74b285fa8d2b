package audit

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/studiowebux/ekoder/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	mgr, err := NewManager(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("Failed to create audit manager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func sampleResult() *types.CodingResult {
	return &types.CodingResult{
		SuggestedCode: "J18.9",
		Descriptor:    "Pneumonia, unspecified",
		Confidence:    92.0,
		Complexity:    3,
		Candidates: []types.Candidate{
			{Code: "J18.9", Descriptor: "Pneumonia, unspecified", Score: 0.92, Source: "both"},
			{Code: "J22", Descriptor: "Acute lower respiratory infection", Score: 0.55, Source: "tfidf"},
		},
	}
}

func TestRecordAndRecent(t *testing.T) {
	mgr := newTestManager(t)

	entry := NewSubmissionEntry(types.ActionSubmitCase,
		"fever and productive cough for three days", "", sampleResult(), 1200*time.Millisecond, "")
	if err := mgr.Record(entry); err != nil {
		t.Fatalf("Failed to record entry: %v", err)
	}

	entries, err := mgr.Recent(10)
	if err != nil {
		t.Fatalf("Failed to load entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}

	got := entries[0]
	if got.Action != types.ActionSubmitCase {
		t.Errorf("Expected submit_case, got %s", got.Action)
	}
	if got.SuggestedCode != "J18.9" {
		t.Errorf("Expected J18.9, got %s", got.SuggestedCode)
	}
	if got.CandidateCount != 2 {
		t.Errorf("Expected candidate count 2, got %d", got.CandidateCount)
	}
	if got.DurationMs != 1200 {
		t.Errorf("Expected 1200ms, got %d", got.DurationMs)
	}
}

// TestNoRawTextStored verifies the trail holds hash and preview only.
func TestNoRawTextStored(t *testing.T) {
	text := "UNIQUE-MARKER fever and productive cough for three days with haemoptysis and rigors plus extra detail beyond the preview cutoff length"
	entry := NewSubmissionEntry(types.ActionSubmitCase, text, "", sampleResult(), time.Second, "")

	if entry.TextHash == "" {
		t.Error("Expected a text hash")
	}
	if len(entry.TextHash) != 64 {
		t.Errorf("Expected sha256 hex digest, got %d chars", len(entry.TextHash))
	}
	if entry.TextLength != len(text) {
		t.Errorf("Expected length %d, got %d", len(text), entry.TextLength)
	}
	if len(entry.Preview) > PreviewLength {
		t.Errorf("Expected preview at most %d bytes, got %d", PreviewLength, len(entry.Preview))
	}
	if strings.Contains(entry.Preview, "beyond the preview cutoff") {
		t.Error("Preview should not carry the full text")
	}
}

func TestNewSelectionEntry(t *testing.T) {
	candidate := types.Candidate{Code: "J22", Descriptor: "Acute lower respiratory infection", Score: 0.55, Complexity: 2}
	entry := NewSelectionEntry(candidate)

	if entry.Action != types.ActionSelectCode {
		t.Errorf("Expected select_code, got %s", entry.Action)
	}
	if entry.SuggestedCode != "J22" {
		t.Errorf("Expected J22, got %s", entry.SuggestedCode)
	}
	if entry.TextHash != "" {
		t.Error("Selection entries carry no text hash")
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	mgr := newTestManager(t)

	for i, code := range []string{"A01", "B02", "C03"} {
		entry := types.AuditEntry{
			Action:        types.ActionSubmitCase,
			SuggestedCode: code,
			// Spread timestamps so ordering is deterministic
			Timestamp: time.Now().Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
		}
		if err := mgr.Record(entry); err != nil {
			t.Fatalf("Failed to record: %v", err)
		}
	}

	entries, err := mgr.Recent(2)
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].SuggestedCode != "C03" || entries[1].SuggestedCode != "B02" {
		t.Errorf("Expected newest first (C03, B02), got (%s, %s)",
			entries[0].SuggestedCode, entries[1].SuggestedCode)
	}
}

// TestSearchKeepsRecencyOrder verifies fuzzy matching never reorders results.
func TestSearchKeepsRecencyOrder(t *testing.T) {
	mgr := newTestManager(t)

	rows := []struct {
		code       string
		descriptor string
	}{
		{"J18.9", "Pneumonia, unspecified"},
		{"I20.0", "Unstable angina"},
		{"J22", "Acute lower respiratory infection"},
	}
	for i, row := range rows {
		entry := types.AuditEntry{
			Action:        types.ActionSubmitCase,
			SuggestedCode: row.code,
			Descriptor:    row.descriptor,
			Timestamp:     time.Now().Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
		}
		if err := mgr.Record(entry); err != nil {
			t.Fatalf("Failed to record: %v", err)
		}
	}

	// Both J codes match; J22 is newer so it must come first regardless of
	// fuzzy match strength.
	matches, err := mgr.Search("J", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(matches))
	}
	if matches[0].SuggestedCode != "J22" || matches[1].SuggestedCode != "J18.9" {
		t.Errorf("Expected recency order (J22, J18.9), got (%s, %s)",
			matches[0].SuggestedCode, matches[1].SuggestedCode)
	}
}

func TestSearchEmptyQueryReturnsRecent(t *testing.T) {
	mgr := newTestManager(t)

	if err := mgr.Record(types.AuditEntry{Action: types.ActionSubmitCase, SuggestedCode: "A01"}); err != nil {
		t.Fatalf("Failed to record: %v", err)
	}

	matches, err := mgr.Search("   ", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected 1 entry for empty query, got %d", len(matches))
	}
}

func TestGetStats(t *testing.T) {
	mgr := newTestManager(t)

	ok := NewSubmissionEntry(types.ActionSubmitCase, "fever and productive cough", "", sampleResult(), time.Second, "")
	failed := NewSubmissionEntry(types.ActionUploadFile, "", "note.pdf", nil, 2*time.Second, "Error: upload failed. Please try again.")
	pick := NewSelectionEntry(types.Candidate{Code: "J22", Descriptor: "Acute lower respiratory infection"})

	for _, entry := range []types.AuditEntry{ok, failed, pick} {
		if err := mgr.Record(entry); err != nil {
			t.Fatalf("Failed to record: %v", err)
		}
	}

	stats, err := mgr.GetStats()
	if err != nil {
		t.Fatalf("Failed to compute stats: %v", err)
	}

	if stats.TotalCases != 2 {
		t.Errorf("Expected 2 coding cases, got %d", stats.TotalCases)
	}
	if stats.WithSuggestions != 1 {
		t.Errorf("Expected 1 case with suggestion, got %d", stats.WithSuggestions)
	}
	if stats.WithErrors != 1 {
		t.Errorf("Expected 1 case with error, got %d", stats.WithErrors)
	}
	if stats.ManualSelections != 1 {
		t.Errorf("Expected 1 manual selection, got %d", stats.ManualSelections)
	}
}

func TestGetStatsEmptyTrail(t *testing.T) {
	mgr := newTestManager(t)

	stats, err := mgr.GetStats()
	if err != nil {
		t.Fatalf("Expected stats on empty trail, got: %v", err)
	}
	if stats.TotalCases != 0 || stats.WithErrors != 0 {
		t.Errorf("Expected zeroed stats, got %+v", stats)
	}
}

func TestExportCSV(t *testing.T) {
	mgr := newTestManager(t)

	entry := NewSubmissionEntry(types.ActionSubmitCase, "fever and productive cough", "", sampleResult(), time.Second, "")
	if err := mgr.Record(entry); err != nil {
		t.Fatalf("Failed to record: %v", err)
	}

	var buf bytes.Buffer
	if err := mgr.ExportCSV(&buf); err != nil {
		t.Fatalf("Failed to export CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "timestamp,action,filename,suggested_code") {
		t.Errorf("Unexpected CSV header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "J18.9") {
		t.Errorf("Expected code in CSV row: %s", lines[1])
	}
}

func TestClearAndCount(t *testing.T) {
	mgr := newTestManager(t)

	if err := mgr.Record(types.AuditEntry{Action: types.ActionSubmitCase}); err != nil {
		t.Fatalf("Failed to record: %v", err)
	}

	count, err := mgr.GetCount()
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1, got %d", count)
	}

	if err := mgr.Clear(); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}
	count, err = mgr.GetCount()
	if err != nil {
		t.Fatalf("Failed to count after clear: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 after clear, got %d", count)
	}
}
