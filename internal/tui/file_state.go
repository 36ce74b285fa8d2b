package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/studiowebux/ekoder/internal/types"
)

// FileState encapsulates all file-selection UI state
// A selection survives a rejected pick so the clinician never loses a valid
// file by browsing onto an unsupported one
type FileState struct {
	mu sync.RWMutex

	// Accepted selection ("" means none)
	path string
	name string
	size int64

	// Last validation failure, shown until cleared or replaced
	validationErr string
}

// NewFileState creates a new file-selection state manager
func NewFileState() *FileState {
	return &FileState{
		path:          "",
		name:          "",
		size:          0,
		validationErr: "",
	}
}

// Accept validates a picked file and records it when the extension is
// supported. A rejected pick keeps the previous selection and returns false.
func (s *FileState) Accept(path string, size int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !types.IsSupportedFile(path) {
		s.validationErr = fmt.Sprintf("Unsupported file type. Allowed: %s",
			strings.Join(types.SupportedFileExtensions, ", "))
		return false
	}

	s.path = path
	s.name = filepath.Base(path)
	s.size = size
	s.validationErr = ""
	return true
}

// GetPath returns the accepted file path, "" when none
func (s *FileState) GetPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

// GetName returns the accepted file's base name
func (s *FileState) GetName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// GetSize returns the accepted file's size in bytes
func (s *FileState) GetSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// HasFile reports whether a file is selected and ready to submit
func (s *FileState) HasFile() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path != ""
}

// GetValidationError returns the last rejection message, "" when none
func (s *FileState) GetValidationError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validationErr
}

// ClearError clears the rejection message without touching the selection
func (s *FileState) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validationErr = ""
}

// Clear drops the selection and any rejection message
func (s *FileState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = ""
	s.name = ""
	s.size = 0
	s.validationErr = ""
}
