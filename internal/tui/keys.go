package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyPress dispatches a key press according to the current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	// Ctrl+C always quits
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch m.mode {
	case ModeLocked:
		return m.handleLockedKeys(msg)
	case ModeHelp:
		return m.handleHelpKeys(msg)
	case ModeHistory:
		return m.handleHistoryKeys(msg)
	case ModeHistoryClearConfirm:
		return m.handleHistoryClearConfirmKeys(msg)
	case ModeExtracted:
		return m.handleExtractedKeys(msg)
	case ModeErrorDetail:
		return m.handleErrorDetailKeys(msg)
	default:
		return m.handleMainKeys(msg)
	}
}

// handleMainKeys routes main-screen keys to the focused panel
func (m *Model) handleMainKeys(msg tea.KeyMsg) tea.Cmd {
	if m.focusedPanel == panelInput {
		if m.inputMode == inputModeText {
			return m.handleTextEntryKeys(msg)
		}
		return m.handleFilePickerKeys(msg)
	}
	return m.handleResultKeys(msg)
}

// handleTextEntryKeys handles keys while the textarea is focused. Only a few
// chords are reserved; everything else is typing.
func (m *Model) handleTextEntryKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "tab":
		m.focusResult()
		return nil
	case "ctrl+f":
		return m.switchInputMode()
	case "ctrl+s":
		return m.submitText()
	case "ctrl+n":
		return m.startNewCase()
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return cmd
}

// handleFilePickerKeys handles keys while the file picker is focused
func (m *Model) handleFilePickerKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "tab":
		m.focusResult()
		return nil
	case "ctrl+f":
		return m.switchInputMode()
	case "s", "ctrl+s":
		return m.submitFile()
	case "x":
		m.fileState.Clear()
		return m.setStatusMessage("File selection cleared")
	case "ctrl+n":
		return m.startNewCase()
	}

	return m.updateFilePicker(msg)
}

// handleResultKeys handles keys while the result panel is focused
func (m *Model) handleResultKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "tab", "i":
		return m.focusInput()
	case "ctrl+f":
		cmd := m.switchInputMode()
		m.focusedPanel = panelInput
		return cmd
	case "j", "down":
		m.codeState.Navigate(1)
	case "k", "up":
		m.codeState.Navigate(-1)
	case "enter":
		return m.selectCandidate()
	case "c":
		return m.copyCurrentCode()
	case "e":
		return m.openExtractedView()
	case "h":
		return m.openHistory()
	case "ctrl+n":
		return m.startNewCase()
	case "E":
		if m.fullErrorMsg != "" {
			m.mode = ModeErrorDetail
		}
	case "?":
		m.mode = ModeHelp
	}
	return nil
}

// switchInputMode toggles between free-text entry and the file picker.
// Both flows keep their state across the toggle.
func (m *Model) switchInputMode() tea.Cmd {
	if m.inputMode == inputModeText {
		m.inputMode = inputModeFile
		m.textInput.Blur()
		return nil
	}
	m.inputMode = inputModeText
	if m.focusedPanel == panelInput {
		return m.textInput.Focus()
	}
	return nil
}

// openExtractedView shows the text extracted from the uploaded document
func (m *Model) openExtractedView() tea.Cmd {
	text := m.codeState.GetExtractedText()
	if text == "" {
		return func() tea.Msg {
			return errorMsg("No extracted text to show")
		}
	}
	m.extractedView.SetContent(wrapToWidth(text, m.extractedView.Width))
	m.extractedView.GotoTop()
	m.mode = ModeExtracted
	return nil
}

// openHistory opens the audit trail modal
func (m *Model) openHistory() tea.Cmd {
	m.mode = ModeHistory
	m.historyIndex = 0
	m.historySearching = false
	m.historySearch.Reset()
	return m.loadHistory()
}

func (m *Model) handleLockedKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "enter":
		return tea.Quit
	}
	return nil
}

func (m *Model) handleHelpKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "?":
		m.mode = ModeNormal
	}
	return nil
}

func (m *Model) handleErrorDetailKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "enter":
		m.mode = ModeNormal
	}
	return nil
}

func (m *Model) handleExtractedKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "e":
		m.mode = ModeNormal
	case "j", "down":
		m.extractedView.ScrollDown(1)
	case "k", "up":
		m.extractedView.ScrollUp(1)
	case "g":
		m.extractedView.GotoTop()
	case "G":
		m.extractedView.GotoBottom()
	}
	return nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) tea.Cmd {
	if m.historySearching {
		switch msg.String() {
		case "esc":
			m.historySearching = false
			m.historySearch.Blur()
			m.historySearch.Reset()
			return m.loadHistory()
		case "enter":
			m.historySearching = false
			m.historySearch.Blur()
			return m.loadHistory()
		default:
			var cmd tea.Cmd
			m.historySearch, cmd = m.historySearch.Update(msg)
			// Narrow live on every keystroke
			return tea.Batch(cmd, m.loadHistory())
		}
	}

	switch msg.String() {
	case "q", "esc", "h":
		m.mode = ModeNormal
	case "j", "down":
		m.navigateHistory(1)
	case "k", "up":
		m.navigateHistory(-1)
	case "/":
		m.historySearching = true
		return m.historySearch.Focus()
	case "e":
		return m.exportAudit()
	case "x":
		m.mode = ModeHistoryClearConfirm
	}
	return nil
}

// navigateHistory moves the history cursor with wrap around
func (m *Model) navigateHistory(delta int) {
	if len(m.historyEntries) == 0 {
		return
	}

	m.historyIndex += delta
	if m.historyIndex < 0 {
		m.historyIndex = len(m.historyEntries) - 1
	} else if m.historyIndex >= len(m.historyEntries) {
		m.historyIndex = 0
	}
}

func (m *Model) handleHistoryClearConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeHistory
		return m.clearAudit()
	case "n", "N", "esc", "q":
		m.mode = ModeHistory
	}
	return nil
}
