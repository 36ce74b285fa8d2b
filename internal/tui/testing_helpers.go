package tui

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/studiowebux/ekoder/internal/api"
	"github.com/studiowebux/ekoder/internal/audit"
	"github.com/studiowebux/ekoder/internal/config"
	"github.com/studiowebux/ekoder/internal/session"
)

// CreateTestModel creates a signed-in Model instance backed by a temporary
// audit database and session file
func CreateTestModel(t *testing.T) *Model {
	t.Helper()

	tempDir := t.TempDir()

	mgr := session.NewManager(filepath.Join(tempDir, "session.json"))
	if err := mgr.SaveToken("test-token"); err != nil {
		t.Fatalf("Failed to seed test session: %v", err)
	}

	auditMgr, err := audit.NewManager(filepath.Join(tempDir, "audit.db"))
	if err != nil {
		t.Fatalf("Failed to create test audit store: %v", err)
	}
	t.Cleanup(func() {
		_ = auditMgr.Close()
	})

	client := api.NewClient("http://localhost:8000", time.Second)
	client.Token = mgr.Token()

	settings := &config.Settings{
		BaseURL:        "http://localhost:8000",
		RequestTimeout: time.Second,
	}

	m, err := New(client, mgr, auditMgr, settings, "test-version")
	if err != nil {
		t.Fatalf("Failed to create test model: %v", err)
	}

	return &m
}

// CreateSignedOutTestModel creates a Model with no stored session token
func CreateSignedOutTestModel(t *testing.T) *Model {
	t.Helper()

	tempDir := t.TempDir()

	mgr := session.NewManager(filepath.Join(tempDir, "session.json"))

	auditMgr, err := audit.NewManager(filepath.Join(tempDir, "audit.db"))
	if err != nil {
		t.Fatalf("Failed to create test audit store: %v", err)
	}
	t.Cleanup(func() {
		_ = auditMgr.Close()
	})

	client := api.NewClient("http://localhost:8000", time.Second)

	settings := &config.Settings{
		BaseURL:        "http://localhost:8000",
		RequestTimeout: time.Second,
	}

	m, err := New(client, mgr, auditMgr, settings, "test-version")
	if err != nil {
		t.Fatalf("Failed to create signed-out test model: %v", err)
	}

	return &m
}

// AssertModelField is a generic helper for checking model field values
func AssertModelField[T comparable](t *testing.T, fieldName string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s = %v, want %v", fieldName, got, want)
	}
}

// AssertNoError verifies that an error is nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

// AssertError verifies that an error occurred
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Error("Expected error but got nil")
	}
}
