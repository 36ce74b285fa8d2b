package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// TokenPermissions is the permission mode for the credential file (owner only)
	TokenPermissions = 0600
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// DefaultBaseURL is the coding service endpoint used when nothing else is configured
	DefaultBaseURL = "http://localhost:8000"
	// DefaultRequestTimeout bounds a single HTTP round trip
	DefaultRequestTimeout = 30 * time.Second
)

var (
	// ConfigDir is the global configuration directory (~/.ekoder)
	ConfigDir string

	// SessionFile holds the persisted session credential
	SessionFile string

	// SettingsFile is the YAML settings file
	SettingsFile string

	// AuditDBPath is the SQLite database file for the local audit trail
	AuditDBPath string
)

// Settings are the user-tunable values read from SettingsFile.
type Settings struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MessageTimeout clears TUI status and error messages after this many
	// seconds. Nil keeps messages until the next event replaces them.
	MessageTimeout *int `yaml:"message_timeout,omitempty"`
}

// Initialize sets up the configuration directory and files
// It creates ~/.ekoder/ if it doesn't exist
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	// Set global paths
	ConfigDir = filepath.Join(homeDir, ".ekoder")
	SessionFile = filepath.Join(ConfigDir, "session.json")
	SettingsFile = filepath.Join(ConfigDir, "settings.yaml")
	AuditDBPath = filepath.Join(ConfigDir, "audit.db")

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	// Create a default settings file if it doesn't exist
	if _, err := os.Stat(SettingsFile); os.IsNotExist(err) {
		defaults := Settings{
			BaseURL:        DefaultBaseURL,
			RequestTimeout: DefaultRequestTimeout,
		}
		data, err := yaml.Marshal(defaults)
		if err != nil {
			return fmt.Errorf("failed to marshal default settings: %w", err)
		}
		if err := os.WriteFile(SettingsFile, data, FilePermissions); err != nil {
			return fmt.Errorf("failed to create settings file: %w", err)
		}
	}

	return nil
}

// LoadSettings reads the settings file and applies defaults and any
// EKODER_BASE_URL environment override.
func LoadSettings() (Settings, error) {
	settings := Settings{
		BaseURL:        DefaultBaseURL,
		RequestTimeout: DefaultRequestTimeout,
	}

	data, err := os.ReadFile(SettingsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return applyEnvOverrides(settings), nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file: %w", err)
	}

	if settings.BaseURL == "" {
		settings.BaseURL = DefaultBaseURL
	}
	if settings.RequestTimeout <= 0 {
		settings.RequestTimeout = DefaultRequestTimeout
	}

	return applyEnvOverrides(settings), nil
}

// SaveSettings writes the settings file.
func SaveSettings(settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(SettingsFile, data, FilePermissions); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

func applyEnvOverrides(settings Settings) Settings {
	if url := os.Getenv("EKODER_BASE_URL"); url != "" {
		settings.BaseURL = url
	}
	return settings
}
