package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/studiowebux/ekoder/internal/config"
)

// State is the persisted session file contents.
type State struct {
	Token string `json:"token,omitempty"`
}

// Manager handles the persisted session credential. The workflow is gated on
// this token: absent means unauthenticated, present means the identity check
// decides.
type Manager struct {
	path string

	mu    sync.RWMutex
	state State
}

// NewManager creates a session manager backed by the given file path.
// An empty path falls back to the global session file.
func NewManager(path string) *Manager {
	if path == "" {
		path = config.SessionFile
	}
	return &Manager{path: path}
}

// Load reads the session file. A missing file is not an error; it just means
// no one is logged in.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = State{}
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	m.state = state
	return nil
}

// Token returns the persisted token, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Token
}

// HasToken reports whether a credential is persisted.
func (m *Manager) HasToken() bool {
	return m.Token() != ""
}

// SaveToken persists a new credential. The file is written owner-only.
func (m *Manager) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.Token = token

	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(m.path, data, config.TokenPermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear removes the persisted credential. Called on logout and on a rejected
// identity check; clearing an already-empty session is fine.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = State{}

	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}
