package tui

import (
	"fmt"
	"os"
	"time"

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

// Mode represents the current TUI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeExtracted
	ModeHistory
	ModeHistoryClearConfirm
	ModeHelp
	ModeLocked
	ModeErrorDetail
)

// Input panel selection and panel focus
const (
	inputModeText = "text"
	inputModeFile = "file"

	panelInput  = "input"
	panelResult = "result"
)

// submissionFlow tags which path produced an async message so completion
// clears the right loading flag
type submissionFlow int

const (
	flowText submissionFlow = iota
	flowFile
)

// Model represents the TUI state
type Model struct {
	// Core state
	client     *api.Client
	sessionMgr *session.Manager
	auditMgr   *audit.Manager
	settings   *config.Settings
	mode       Mode
	version    string

	// Workflow state objects
	codeState *CodeState
	fileState *FileState

	// Identity and service health, both best-effort
	identity *types.Identity
	health   *types.HealthStatus

	// Input components
	textInput  textarea.Model
	filePicker filepicker.Model

	// Per-flow loading. The two submission paths are independent, so each
	// flag guards only its own control.
	textLoading bool
	fileLoading bool
	textSpinner spinner.Model
	fileSpinner spinner.Model

	// Which input panel is shown and which panel has focus
	inputMode    string
	focusedPanel string

	// Extracted text viewer
	extractedView viewport.Model

	// History modal state
	historyEntries   []types.AuditEntry
	historyIndex     int
	historyStats     *audit.Stats
	historySearch    textinput.Model
	historySearching bool

	// UI state
	width        int
	height       int
	statusMsg    string
	errorMsg     string // Truncated error for footer
	fullErrorMsg string // Full error message for detail modal
	copied       bool   // Transient clipboard confirmation glyph
}

// Init starts the identity, health and update checks and the input cursor
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.filePicker.Init(),
		m.checkIdentity(),
		m.checkHealth(),
		m.checkUpdate(),
	)
}

// Cleanup closes database connections and cleans up resources
func (m *Model) Cleanup() {
	if m.auditMgr != nil {
		if err := m.auditMgr.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing audit database: %v\n", err)
		}
	}
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	// Mouse events are captured and discarded to keep the app "on top"
	// when scrolling. Navigation stays keyboard only.
	case tea.MouseMsg:

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.textLoading {
			var c tea.Cmd
			m.textSpinner, c = m.textSpinner.Update(msg)
			cmds = append(cmds, c)
		}
		if m.fileLoading {
			var c tea.Cmd
			m.fileSpinner, c = m.fileSpinner.Update(msg)
			cmds = append(cmds, c)
		}
		cmd = tea.Batch(cmds...)

	case codingResultMsg:
		m.clearLoading(msg.flow)
		m.codeState.ApplyResult(msg.result)
		m.errorMsg = ""
		m.fullErrorMsg = ""
		m.focusResult()
		cmd = m.setStatusMessage(fmt.Sprintf("Coded in %s", api.FormatDuration(msg.duration.Milliseconds())))

	case submissionFailedMsg:
		m.clearLoading(msg.flow)
		cmd = m.setErrorMessage(fmt.Sprintf("Error: %s. Please try again.", msg.message))

	case identityCheckedMsg:
		if msg.rejected {
			// The stored credential was rejected: purge it and gate the
			// workflow until the user signs in again
			if err := m.sessionMgr.Clear(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to clear session: %v\n", err)
			}
			m.identity = nil
			m.mode = ModeLocked
		} else if msg.err != "" {
			// Transport failure: keep the session and carry on unverified
			cmd = m.setStatusMessage(fmt.Sprintf("Could not verify session: %s", msg.err))
		} else {
			m.identity = msg.identity
			cmd = m.setStatusMessage(fmt.Sprintf("Signed in as %s", msg.identity.DisplayName()))
		}

	case healthCheckedMsg:
		if msg.err == "" {
			m.health = msg.health
		}

	case versionCheckedMsg:
		if msg.available {
			cmd = m.setStatusMessage(fmt.Sprintf("Update available: v%s", msg.latest))
		}

	case historyLoadedMsg:
		if msg.err != "" {
			cmd = m.setErrorMessage(fmt.Sprintf("Failed to load history: %s", msg.err))
			break
		}
		m.historyEntries = msg.entries
		m.historyStats = msg.stats
		if m.historyIndex >= len(msg.entries) {
			m.historyIndex = 0
		}

	case auditExportedMsg:
		if msg.err != "" {
			cmd = m.setErrorMessage(fmt.Sprintf("Export failed: %s", msg.err))
		} else {
			cmd = m.setStatusMessage(fmt.Sprintf("Audit trail exported to %s", msg.path))
		}

	case auditClearedMsg:
		if msg.err != "" {
			cmd = m.setErrorMessage(fmt.Sprintf("Failed to clear audit trail: %s", msg.err))
		} else {
			m.historyIndex = 0
			cmd = tea.Batch(m.loadHistory(), m.setStatusMessage("Audit trail cleared"))
		}

	case copyFeedbackExpiredMsg:
		m.copied = false

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""

	case errorMsg:
		cmd = m.setErrorMessage(string(msg))

	default:
		cmd = m.updateComponents(msg)
	}

	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeLocked:
		return m.renderLocked()
	case ModeHelp:
		return m.renderHelp()
	case ModeHistory:
		return m.renderHistory()
	case ModeHistoryClearConfirm:
		return m.renderHistoryClearConfirmation()
	case ModeExtracted:
		return m.renderExtracted()
	case ModeErrorDetail:
		return m.renderErrorDetailModal()
	default:
		return m.renderMain()
	}
}

// updateComponents routes messages the model does not handle itself to the
// embedded components that drive themselves with private messages, such as
// directory reads and cursor blinks
func (m *Model) updateComponents(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if m.mode == ModeNormal {
		if m.focusedPanel == panelInput && m.inputMode == inputModeText {
			var c tea.Cmd
			m.textInput, c = m.textInput.Update(msg)
			cmds = append(cmds, c)
		}
		if m.inputMode == inputModeFile {
			cmds = append(cmds, m.updateFilePicker(msg))
		}
	}

	if m.mode == ModeHistory && m.historySearching {
		var c tea.Cmd
		m.historySearch, c = m.historySearch.Update(msg)
		cmds = append(cmds, c)
	}

	return tea.Batch(cmds...)
}

// updateFilePicker advances the file picker and reconciles any pick it
// reports into the file selection state
func (m *Model) updateFilePicker(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		var size int64
		if info, err := os.Stat(path); err == nil {
			size = info.Size()
		}
		if m.fileState.Accept(path, size) {
			m.errorMsg = ""
			m.fullErrorMsg = ""
			return tea.Batch(cmd, m.setStatusMessage(fmt.Sprintf("Selected %s", m.fileState.GetName())))
		}
		return tea.Batch(cmd, m.setErrorMessage(m.fileState.GetValidationError()))
	}

	if didSelect, path := m.filePicker.DidSelectDisabledFile(msg); didSelect {
		// Run the pick through the same validation so the message names
		// the accepted extensions
		m.fileState.Accept(path, 0)
		return tea.Batch(cmd, m.setErrorMessage(m.fileState.GetValidationError()))
	}

	return cmd
}

// clearLoading drops the loading flag for the flow that completed
func (m *Model) clearLoading(flow submissionFlow) {
	switch flow {
	case flowText:
		m.textLoading = false
	case flowFile:
		m.fileLoading = false
	}
}

// focusInput moves focus to the input panel and wakes its component
func (m *Model) focusInput() tea.Cmd {
	m.focusedPanel = panelInput
	if m.inputMode == inputModeText {
		return m.textInput.Focus()
	}
	return nil
}

// focusResult moves focus to the result panel
func (m *Model) focusResult() {
	m.focusedPanel = panelResult
	m.textInput.Blur()
}

// Custom message types
type codingResultMsg struct {
	flow     submissionFlow
	result   *types.CodingResult
	duration time.Duration
}

type submissionFailedMsg struct {
	flow    submissionFlow
	message string
}

type identityCheckedMsg struct {
	identity *types.Identity
	rejected bool
	err      string
}

type healthCheckedMsg struct {
	health *types.HealthStatus
	err    string
}

type versionCheckedMsg struct {
	available bool
	latest    string
}

type historyLoadedMsg struct {
	entries []types.AuditEntry
	stats   *audit.Stats
	err     string
}

type auditExportedMsg struct {
	path string
	err  string
}

type auditClearedMsg struct {
	err string
}

type copyFeedbackExpiredMsg struct{}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

type errorMsg string

// Helper methods for setting messages with optional timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	// Truncate for footer display (max 100 chars)
	if len(msg) > 100 {
		m.statusMsg = msg[:97] + "..."
	} else {
		m.statusMsg = msg
	}

	if m.settings != nil && m.settings.MessageTimeout != nil && *m.settings.MessageTimeout > 0 {
		timeout := time.Duration(*m.settings.MessageTimeout) * time.Second
		return tea.Tick(timeout, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}
	return nil
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	// Truncate for footer display (max 100 chars)
	if len(msg) > 100 {
		m.errorMsg = msg[:97] + "..."
	} else {
		m.errorMsg = msg
	}

	if m.settings != nil && m.settings.MessageTimeout != nil && *m.settings.MessageTimeout > 0 {
		timeout := time.Duration(*m.settings.MessageTimeout) * time.Second
		return tea.Tick(timeout, func(time.Time) tea.Msg {
			return clearErrorMsg{}
		})
	}
	return nil
}
