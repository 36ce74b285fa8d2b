package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/ekoder/internal/api"
	"github.com/studiowebux/ekoder/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"} // Dark green / Bright green
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"} // Dark red / Bright red
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"} // Dark goldenrod / Yellow
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"} // Dark gray / Light gray
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"} // Dark cyan / Cyan
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// renderMain renders the main view (input panel + result panel)
func (m Model) renderMain() string {
	if m.width == 0 {
		return ""
	}

	titleBar := m.renderTitleBar()

	inputWidth := m.inputPanelWidth()
	resultWidth := m.width - inputWidth - ViewportPaddingHorizontal
	panelHeight := m.height - 3 // title bar, status bar, border

	// Highlight the focused panel
	inputBorderColor := colorGray
	resultBorderColor := colorGray
	if m.focusedPanel == panelInput {
		inputBorderColor = colorGreen
	} else {
		resultBorderColor = colorGreen
	}

	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(inputBorderColor).
		Width(inputWidth).
		Height(panelHeight).
		Render(m.renderInputPanel(inputWidth - MinimalBorderMargin))

	resultBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(resultBorderColor).
		Width(resultWidth).
		Height(panelHeight).
		Render(m.renderResult(resultWidth - MinimalBorderMargin))

	mainView := lipgloss.JoinHorizontal(
		lipgloss.Top,
		inputBox,
		resultBox,
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		mainView,
		m.renderStatusBar(),
	)
}

// inputPanelWidth sizes the input panel (45% of width, min 40 chars)
func (m Model) inputPanelWidth() int {
	w := max(40, m.width*45/100)
	if m.width < 100 {
		w = m.width / 2
	}
	return w
}

// renderTitleBar shows the app name with identity and health on the right
func (m Model) renderTitleBar() string {
	left := styleTitle.Render(fmt.Sprintf("EKoder %s", m.version))

	var parts []string
	if m.identity != nil {
		parts = append(parts, m.identity.DisplayName())
	}
	if m.health != nil {
		if m.health.Status == "healthy" {
			parts = append(parts, styleSuccess.Render(fmt.Sprintf("%d codes loaded", m.health.CodesLoaded)))
		} else {
			parts = append(parts, styleWarning.Render(m.health.Status))
		}
	}
	right := strings.Join(parts, styleSubtle.Render(" | "))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderInputPanel renders whichever input flow is active
func (m Model) renderInputPanel(width int) string {
	if m.inputMode == inputModeFile {
		return m.renderFileInput(width)
	}
	return m.renderTextInput(width)
}

// renderTextInput renders the free-text entry panel
func (m Model) renderTextInput(width int) string {
	var lines []string

	title := "Case Note"
	if m.textLoading {
		title = fmt.Sprintf("Case Note %s", m.textSpinner.View())
	}
	lines = append(lines, styleTitle.Render(title))
	lines = append(lines, "")
	lines = append(lines, m.textInput.View())
	lines = append(lines, "")

	counter := fmt.Sprintf("%d / %d characters", m.textInput.Length(), types.MaxClinicalTextLength)
	lines = append(lines, styleSubtle.Render(counter))

	return strings.Join(lines, "\n")
}

// renderFileInput renders the file picker panel with the current selection
func (m Model) renderFileInput(width int) string {
	var lines []string

	title := "Upload Casenote"
	if m.fileLoading {
		title = fmt.Sprintf("Upload Casenote %s", m.fileSpinner.View())
	}
	lines = append(lines, styleTitle.Render(title))
	lines = append(lines, "")

	if m.fileState.HasFile() {
		selected := fmt.Sprintf("Selected: %s (%s)",
			m.fileState.GetName(), api.FormatSize(int(m.fileState.GetSize())))
		lines = append(lines, styleSuccess.Render(truncate(selected, width)))
	} else {
		lines = append(lines, styleSubtle.Render("Pick a .txt, .pdf or .docx file"))
	}

	if vErr := m.fileState.GetValidationError(); vErr != "" {
		lines = append(lines, styleError.Render(truncate(vErr, width)))
	}

	lines = append(lines, "")
	lines = append(lines, m.filePicker.View())

	return strings.Join(lines, "\n")
}

// renderResult renders the result panel: error banner, placeholder, or the
// reconciled result with its candidate table
func (m Model) renderResult(width int) string {
	var lines []string

	lines = append(lines, styleTitle.Render("Result"))
	lines = append(lines, "")

	if banner := m.codeState.GetErrorBanner(); banner != "" {
		lines = append(lines, styleError.Render(wrapToWidth(banner, width)))
		lines = append(lines, "")
	}

	if !m.codeState.IsResultVisible() {
		switch {
		case m.textLoading || m.fileLoading:
			lines = append(lines, styleSubtle.Render("Waiting for the coding service..."))
		case m.codeState.GetErrorBanner() == "":
			lines = append(lines, styleSubtle.Render("Submit a case note to begin."))
		}
		return strings.Join(lines, "\n")
	}

	current := m.codeState.GetCurrent()
	if current.Code != "" {
		codeLine := styleSuccess.Bold(true).Render(current.Code)
		if m.copied {
			codeLine += " " + styleSuccess.Render("(copied)")
		}
		codeLine += " " + styleSubtle.Render("["+current.Provenance+"]")
		lines = append(lines, codeLine)
		if current.Descriptor != "" {
			lines = append(lines, wrapToWidth(current.Descriptor, width))
		}
	} else {
		lines = append(lines, styleSubtle.Render("No code suggested"))
	}

	if conf := m.codeState.GetConfidence(); conf > 0 {
		lines = append(lines, styleSubtle.Render("Confidence: "+types.FormatScore(conf)))
	}

	if level := m.codeState.GetComplexity(); level > 0 {
		bar := complexityStyle(level).Render(complexityBar(level))
		lines = append(lines, fmt.Sprintf("%s %s", bar, m.codeState.GetComplexityLabel()))
	}

	if m.codeState.RequiresReview() {
		lines = append(lines, styleWarning.Render("Requires human review"))
	}

	if reasoning := m.codeState.GetReasoning(); reasoning != "" {
		lines = append(lines, "")
		lines = append(lines, wrapToWidth(reasoning, width))
	}

	if table := m.renderCandidateTable(width); table != "" {
		lines = append(lines, "")
		lines = append(lines, table)
	}

	if m.codeState.GetExtractedText() != "" {
		lines = append(lines, "")
		lines = append(lines, styleSubtle.Render("press e to view extracted text"))
	}

	return strings.Join(lines, "\n")
}

// renderCandidateTable renders candidates in the order received. The cursor
// row is highlighted; enter promotes it to the current code.
func (m Model) renderCandidateTable(width int) string {
	candidates := m.codeState.GetCandidates()
	if len(candidates) == 0 {
		return ""
	}

	var lines []string
	lines = append(lines, styleTitle.Render(fmt.Sprintf("Candidates (%d)", len(candidates))))

	header := fmt.Sprintf("  %-10s %-7s %-10s %s", "CODE", "SCORE", "SOURCE", "DESCRIPTOR")
	lines = append(lines, styleSubtle.Render(truncate(header, width)))

	cursor := m.codeState.GetCandidateIndex()
	focused := m.focusedPanel == panelResult
	for i, c := range candidates {
		marker := "  "
		if i == cursor && focused {
			marker = "> "
		}
		row := fmt.Sprintf("%s%-10s %-7s %-10s %s",
			marker, c.Code, types.FormatScore(c.Score), c.Source, c.Descriptor)
		row = truncate(row, width)
		if i == cursor && focused {
			row = styleSelected.Render(row)
		}
		lines = append(lines, row)
	}

	return strings.Join(lines, "\n")
}

// complexityBar renders the six-segment bar for a complexity level. Any
// integer is accepted; out-of-range levels clamp into the scale.
func complexityBar(level int) string {
	clamped := types.ClampComplexity(level)
	return strings.Repeat("█", clamped) + strings.Repeat("░", types.MaxComplexity-clamped)
}

// complexityStyle picks the severity color for a complexity level
func complexityStyle(level int) lipgloss.Style {
	switch {
	case level <= 2:
		return styleSuccess
	case level <= 4:
		return styleWarning
	default:
		return styleError
	}
}

// renderStatusBar shows the current message on the left, key hints on the
// right
func (m Model) renderStatusBar() string {
	var left string
	if m.errorMsg != "" {
		left = styleError.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		left = styleSuccess.Render(m.statusMsg)
	}

	right := styleSubtle.Render(m.keyHints())

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// keyHints lists the bindings for the focused panel
func (m Model) keyHints() string {
	if m.focusedPanel == panelInput {
		if m.inputMode == inputModeText {
			return "ctrl+s submit | ctrl+f file | tab result | ctrl+c quit"
		}
		return "enter pick | s submit | x clear | ctrl+f text | tab result"
	}
	return "j/k move | enter select | c copy | e text | h history | ? help | q quit"
}

// renderLocked renders the gate screen shown without a valid session
func (m Model) renderLocked() string {
	content := strings.Join([]string{
		styleTitle.Render("Session required"),
		"",
		"No valid session found.",
		"Run 'ekoder login' in a terminal to sign in,",
		"then start the app again.",
		"",
		styleSubtle.Render("press q to quit"),
	}, "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorYellow).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderHelp renders the key binding reference
func (m Model) renderHelp() string {
	sections := []struct {
		title string
		keys  [][2]string
	}{
		{"Case note entry", [][2]string{
			{"ctrl+s", "submit the entered text for coding"},
			{"ctrl+f", "switch between text entry and file upload"},
			{"ctrl+n", "start a new case"},
			{"tab / esc", "focus the result panel"},
		}},
		{"File upload", [][2]string{
			{"j/k, enter", "browse and pick a file"},
			{"s", "submit the selected file"},
			{"x", "clear the selection"},
		}},
		{"Result", [][2]string{
			{"j/k", "move through candidates"},
			{"enter", "select the highlighted candidate"},
			{"c", "copy the current code to the clipboard"},
			{"e", "view text extracted from an upload"},
			{"h", "open the audit history"},
			{"E", "show the full error message"},
		}},
		{"History", [][2]string{
			{"/", "search the trail"},
			{"e", "export to CSV"},
			{"x", "clear the trail"},
		}},
	}

	var lines []string
	lines = append(lines, styleTitle.Render("EKoder key bindings"))
	lines = append(lines, "")
	for _, section := range sections {
		lines = append(lines, styleTitle.Render(section.title))
		for _, k := range section.keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", styleSuccess.Render(k[0]), k[1]))
		}
		lines = append(lines, "")
	}
	lines = append(lines, styleSubtle.Render("press esc to close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderHistory renders the audit trail modal
func (m Model) renderHistory() string {
	width := m.width - ModalWidthMargin
	var lines []string

	lines = append(lines, styleTitle.Render("Audit History"))

	if m.historyStats != nil {
		s := m.historyStats
		stats := fmt.Sprintf("%d cases | %d suggested | %d errors | %d manual picks | %d distinct codes | avg %.0fms",
			s.TotalCases, s.WithSuggestions, s.WithErrors, s.ManualSelections, s.DistinctCodes, s.AvgDurationMs)
		lines = append(lines, styleSubtle.Render(truncate(stats, width)))
	}
	lines = append(lines, "")

	if m.historySearching {
		lines = append(lines, "Search: "+m.historySearch.View())
	} else if q := m.historySearch.Value(); q != "" {
		lines = append(lines, styleSubtle.Render("Filter: "+q))
	}
	lines = append(lines, "")

	if len(m.historyEntries) == 0 {
		lines = append(lines, styleSubtle.Render("No audit entries"))
	}

	pageSize := m.height - ContentOffsetHelp
	if pageSize < 1 {
		pageSize = 1
	}
	start := 0
	if m.historyIndex >= pageSize {
		start = m.historyIndex - pageSize + 1
	}
	end := start + pageSize
	if end > len(m.historyEntries) {
		end = len(m.historyEntries)
	}

	for i := start; i < end; i++ {
		line := formatAuditLine(m.historyEntries[i], width)
		if i == m.historyIndex {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}

	if entry := m.currentHistoryEntry(); entry != nil {
		lines = append(lines, "")
		detail := fmt.Sprintf("%s | %d candidates", api.FormatDuration(entry.DurationMs), entry.CandidateCount)
		if entry.Confidence > 0 {
			detail += " | confidence " + types.FormatScore(entry.Confidence)
		}
		if entry.Preview != "" {
			detail += " | " + entry.Preview
		}
		lines = append(lines, styleSubtle.Render(truncate(detail, width)))
	}

	lines = append(lines, "")
	lines = append(lines, styleSubtle.Render("j/k move | / search | e export CSV | x clear | esc close"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(width).
		Height(m.height - ModalHeightMargin).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// currentHistoryEntry returns the entry under the cursor, nil when none
func (m Model) currentHistoryEntry() *types.AuditEntry {
	if m.historyIndex < 0 || m.historyIndex >= len(m.historyEntries) {
		return nil
	}
	entry := m.historyEntries[m.historyIndex]
	return &entry
}

// formatAuditLine renders one audit entry as a list row
func formatAuditLine(e types.AuditEntry, width int) string {
	ts := e.Timestamp
	if t, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
		ts = t.Local().Format("2006-01-02 15:04")
	}

	var desc string
	switch {
	case e.Error != "":
		desc = "error: " + e.Error
	case e.SuggestedCode != "":
		desc = e.SuggestedCode
		if e.Descriptor != "" {
			desc += "  " + e.Descriptor
		}
	default:
		desc = "no suggestion"
	}

	line := fmt.Sprintf("%s  %-12s %s", ts, e.Action, desc)
	if e.Filename != "" {
		line += "  [" + e.Filename + "]"
	}
	return truncate(line, width)
}

// renderHistoryClearConfirmation asks before deleting the trail
func (m Model) renderHistoryClearConfirmation() string {
	content := strings.Join([]string{
		styleTitle.Render("Clear audit trail"),
		"",
		"Delete all audit entries? This cannot be undone.",
		"",
		styleError.Render("y") + " confirm    " + styleSubtle.Render("n") + " cancel",
	}, "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorRed).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// renderExtracted shows the document text the service extracted
func (m Model) renderExtracted() string {
	title := styleTitle.Render("Extracted Text")
	footer := styleSubtle.Render("j/k scroll | g/G top/bottom | esc close")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(m.width - MinimalBorderMargin).
		Padding(0, 1).
		Render(title + "\n\n" + m.extractedView.View() + "\n\n" + footer)

	return box
}

// renderErrorDetailModal shows the untruncated error message
func (m Model) renderErrorDetailModal() string {
	content := strings.Join([]string{
		styleTitle.Render("Error detail"),
		"",
		styleError.Render(wrapToWidth(m.fullErrorMsg, m.width-ModalWidthMarginNarrow)),
		"",
		styleSubtle.Render("press esc to close"),
	}, "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorRed).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// resize recomputes component dimensions after a window size change
func (m *Model) resize() {
	inputInner := m.inputPanelWidth() - ViewportPaddingHorizontal
	if inputInner < 20 {
		inputInner = 20
	}

	contentHeight := m.height - ContentOffsetStandard
	if contentHeight < 5 {
		contentHeight = 5
	}

	m.textInput.SetWidth(inputInner)
	m.textInput.SetHeight(contentHeight - 4)
	m.filePicker.Height = contentHeight - 4
	m.extractedView.Width = m.width - ModalWidthMargin
	m.extractedView.Height = m.height - ContentOffsetStandard
}

// truncate shortens a line to fit the given width. Apply before styling so
// escape sequences are never cut.
func truncate(s string, width int) string {
	if width <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// wrapToWidth word-wraps text to the given width
func wrapToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}
