package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/ekoder/internal/api"
	"github.com/studiowebux/ekoder/internal/audit"
	"github.com/studiowebux/ekoder/internal/config"
	"github.com/studiowebux/ekoder/internal/session"
	"github.com/studiowebux/ekoder/internal/types"
)

// New creates a new TUI model
func New(client *api.Client, sessionMgr *session.Manager, auditMgr *audit.Manager, settings *config.Settings, version string) (Model, error) {
	ta := textarea.New()
	ta.Placeholder = "Paste or type the clinical case note..."
	ta.CharLimit = types.MaxClinicalTextLength
	ta.ShowLineNumbers = false

	fp := filepicker.New()
	fp.AllowedTypes = types.SupportedFileExtensions
	fp.AutoHeight = false
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	search := textinput.New()
	search.Placeholder = "code, descriptor or filename"
	search.CharLimit = 64

	textSpin := spinner.New()
	textSpin.Spinner = spinner.Dot
	textSpin.Style = styleWarning

	fileSpin := spinner.New()
	fileSpin.Spinner = spinner.Dot
	fileSpin.Style = styleWarning

	m := Model{
		client:        client,
		sessionMgr:    sessionMgr,
		auditMgr:      auditMgr,
		settings:      settings,
		mode:          ModeNormal,
		version:       version,
		codeState:     NewCodeState(),
		fileState:     NewFileState(),
		textInput:     ta,
		filePicker:    fp,
		textSpinner:   textSpin,
		fileSpinner:   fileSpin,
		inputMode:     inputModeText,
		focusedPanel:  panelInput,
		extractedView: viewport.New(80, 20),
		historySearch: search,
	}

	// Gate the workflow when no credential is stored
	if !sessionMgr.HasToken() {
		m.mode = ModeLocked
	} else {
		m.textInput.Focus()
	}

	return m, nil
}

// Run starts the TUI
func Run(version string) error {
	// Initialize config
	if err := config.Initialize(); err != nil {
		return err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	// Load session
	sessionMgr := session.NewManager(config.SessionFile)
	if err := sessionMgr.Load(); err != nil {
		return err
	}

	auditMgr, err := audit.NewManager(config.AuditDBPath)
	if err != nil {
		return err
	}

	client := api.NewClient(settings.BaseURL, settings.RequestTimeout)
	client.Token = sessionMgr.Token()

	// Create model
	m, err := New(client, sessionMgr, auditMgr, &settings, version)
	if err != nil {
		_ = auditMgr.Close()
		return err
	}
	defer m.Cleanup()

	// Start TUI (pass pointer since Update uses pointer receiver)
	// Note: Mouse is disabled by default in bubbletea
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	return nil
}
