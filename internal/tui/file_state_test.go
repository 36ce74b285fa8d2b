package tui

import (
	"strings"
	"testing"
)

func TestNewFileState(t *testing.T) {
	state := NewFileState()

	if state == nil {
		t.Fatal("NewFileState returned nil")
	}

	if state.HasFile() {
		t.Error("Expected no file selected initially")
	}

	if state.GetPath() != "" {
		t.Errorf("Expected empty path, got '%s'", state.GetPath())
	}

	if state.GetValidationError() != "" {
		t.Errorf("Expected no validation error, got '%s'", state.GetValidationError())
	}
}

func TestFileState_AcceptSupportedFile(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"plain text", "/notes/casenote.txt"},
		{"pdf", "/notes/discharge.pdf"},
		{"word document", "/notes/referral.docx"},
		{"uppercase extension", "/notes/CASENOTE.TXT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewFileState()

			if !state.Accept(tt.path, 1024) {
				t.Fatalf("Expected %s to be accepted", tt.path)
			}
			if !state.HasFile() {
				t.Error("Expected a selected file")
			}
			if state.GetPath() != tt.path {
				t.Errorf("Expected path %s, got %s", tt.path, state.GetPath())
			}
			if state.GetSize() != 1024 {
				t.Errorf("Expected size 1024, got %d", state.GetSize())
			}
			if state.GetValidationError() != "" {
				t.Errorf("Expected no validation error, got '%s'", state.GetValidationError())
			}
		})
	}
}

func TestFileState_AcceptSetsBaseName(t *testing.T) {
	state := NewFileState()

	state.Accept("/home/user/notes/casenote.txt", 512)
	if state.GetName() != "casenote.txt" {
		t.Errorf("Expected base name casenote.txt, got %s", state.GetName())
	}
}

func TestFileState_RejectUnsupportedFile(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"image", "/notes/scan.png"},
		{"no extension", "/notes/casenote"},
		{"double extension trick", "/notes/casenote.txt.exe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := NewFileState()

			if state.Accept(tt.path, 100) {
				t.Fatalf("Expected %s to be rejected", tt.path)
			}
			if state.HasFile() {
				t.Error("Expected no selection after rejection")
			}

			errMsg := state.GetValidationError()
			if errMsg == "" {
				t.Fatal("Expected a validation error")
			}
			// The message must name the accepted extensions
			for _, ext := range []string{".txt", ".pdf", ".docx"} {
				if !strings.Contains(errMsg, ext) {
					t.Errorf("Expected error to mention %s, got '%s'", ext, errMsg)
				}
			}
		})
	}
}

func TestFileState_RejectionKeepsPriorSelection(t *testing.T) {
	state := NewFileState()

	if !state.Accept("/notes/casenote.txt", 512) {
		t.Fatal("Expected first pick to be accepted")
	}

	if state.Accept("/notes/scan.png", 100) {
		t.Fatal("Expected second pick to be rejected")
	}

	// The valid selection survives the rejected pick
	if state.GetPath() != "/notes/casenote.txt" {
		t.Errorf("Expected prior selection kept, got '%s'", state.GetPath())
	}
	if state.GetSize() != 512 {
		t.Errorf("Expected prior size kept, got %d", state.GetSize())
	}
	if state.GetValidationError() == "" {
		t.Error("Expected validation error alongside the kept selection")
	}
}

func TestFileState_AcceptReplacesSelection(t *testing.T) {
	state := NewFileState()

	state.Accept("/notes/first.txt", 100)
	state.Accept("/notes/second.pdf", 200)

	if state.GetName() != "second.pdf" {
		t.Errorf("Expected second.pdf, got %s", state.GetName())
	}
	if state.GetSize() != 200 {
		t.Errorf("Expected size 200, got %d", state.GetSize())
	}
}

func TestFileState_AcceptClearsStaleError(t *testing.T) {
	state := NewFileState()

	state.Accept("/notes/scan.png", 100)
	if state.GetValidationError() == "" {
		t.Fatal("Expected a validation error")
	}

	state.Accept("/notes/casenote.txt", 512)
	if state.GetValidationError() != "" {
		t.Errorf("Expected error cleared by valid pick, got '%s'", state.GetValidationError())
	}
}

func TestFileState_ClearError(t *testing.T) {
	state := NewFileState()

	state.Accept("/notes/casenote.txt", 512)
	state.Accept("/notes/scan.png", 100)

	state.ClearError()

	if state.GetValidationError() != "" {
		t.Errorf("Expected error cleared, got '%s'", state.GetValidationError())
	}
	// The selection is untouched
	if state.GetPath() != "/notes/casenote.txt" {
		t.Errorf("Expected selection kept, got '%s'", state.GetPath())
	}
}

func TestFileState_Clear(t *testing.T) {
	state := NewFileState()

	state.Accept("/notes/casenote.txt", 512)
	state.Clear()

	if state.HasFile() {
		t.Error("Expected no selection after clear")
	}
	if state.GetPath() != "" || state.GetName() != "" || state.GetSize() != 0 {
		t.Error("Expected all selection fields reset")
	}
}
