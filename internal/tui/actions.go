package tui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/ekoder/internal/api"
	"github.com/studiowebux/ekoder/internal/audit"
	"github.com/studiowebux/ekoder/internal/types"
	"github.com/studiowebux/ekoder/internal/version"
)

// copyFeedbackDuration is how long the clipboard glyph stays up. The revert
// timer is never cancelled: a second copy in the interim still sees the
// first timer clear the glyph.
const copyFeedbackDuration = 2 * time.Second

// historyPageSize bounds how many audit entries the history modal loads
const historyPageSize = 50

// submitText validates the entered text and submits it for coding
func (m *Model) submitText() tea.Cmd {
	// Each flow guards only itself; a file upload may still be in flight
	if m.textLoading {
		return func() tea.Msg {
			return errorMsg("Text submission already in progress")
		}
	}

	text := strings.TrimSpace(m.textInput.Value())
	if err := types.ValidateClinicalText(text); err != nil {
		return func() tea.Msg {
			return errorMsg(err.Error())
		}
	}

	m.textLoading = true
	m.errorMsg = ""
	m.fullErrorMsg = ""
	m.statusMsg = "Coding case note..."
	m.codeState.BeginSubmission()

	client := m.client
	auditMgr := m.auditMgr
	start := time.Now()

	return tea.Batch(m.textSpinner.Tick, func() tea.Msg {
		result, err := client.CodeText(context.Background(), text)
		duration := time.Since(start)

		if err != nil {
			message := api.Message(err)
			recordSubmission(auditMgr, types.ActionSubmitCase, text, "", nil, duration, message)
			return submissionFailedMsg{flow: flowText, message: message}
		}

		recordSubmission(auditMgr, types.ActionSubmitCase, text, "", result, duration, "")
		return codingResultMsg{flow: flowText, result: result, duration: duration}
	})
}

// submitFile uploads the selected casenote file for coding
func (m *Model) submitFile() tea.Cmd {
	if m.fileLoading {
		return func() tea.Msg {
			return errorMsg("File submission already in progress")
		}
	}

	if !m.fileState.HasFile() {
		return func() tea.Msg {
			return errorMsg("No file selected")
		}
	}

	m.fileLoading = true
	m.errorMsg = ""
	m.fullErrorMsg = ""
	m.statusMsg = fmt.Sprintf("Uploading %s...", m.fileState.GetName())
	m.codeState.BeginSubmission()

	client := m.client
	auditMgr := m.auditMgr
	path := m.fileState.GetPath()
	name := m.fileState.GetName()
	start := time.Now()

	return tea.Batch(m.fileSpinner.Tick, func() tea.Msg {
		result, err := client.CodeFile(context.Background(), path)
		duration := time.Since(start)

		if err != nil {
			message := api.Message(err)
			recordSubmission(auditMgr, types.ActionUploadFile, "", name, nil, duration, message)
			return submissionFailedMsg{flow: flowFile, message: message}
		}

		// Hash and preview the extracted text, never the raw document
		recordSubmission(auditMgr, types.ActionUploadFile, result.ExtractedText, name, result, duration, "")
		return codingResultMsg{flow: flowFile, result: result, duration: duration}
	})
}

// recordSubmission writes an audit row. Auditing is best-effort and never
// interrupts the coding flow.
func recordSubmission(mgr *audit.Manager, action, text, filename string, result *types.CodingResult, duration time.Duration, errMsg string) {
	if mgr == nil {
		return
	}
	_ = mgr.Record(audit.NewSubmissionEntry(action, text, filename, result, duration, errMsg))
}

// checkIdentity verifies the stored credential against the identity
// endpoint. A rejected credential purges the session; a transport failure
// leaves it in place.
func (m *Model) checkIdentity() tea.Cmd {
	if !m.sessionMgr.HasToken() {
		return nil
	}

	client := m.client
	return func() tea.Msg {
		identity, err := client.Me(context.Background())
		if err != nil {
			var statusErr *api.StatusError
			if errors.As(err, &statusErr) &&
				(statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden) {
				return identityCheckedMsg{rejected: true}
			}
			return identityCheckedMsg{err: api.Message(err)}
		}
		return identityCheckedMsg{identity: identity}
	}
}

// checkHealth fetches the service health snapshot shown in the title bar
func (m *Model) checkHealth() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		health, err := client.Health(context.Background())
		if err != nil {
			return healthCheckedMsg{err: api.Message(err)}
		}
		return healthCheckedMsg{health: health}
	}
}

// checkUpdate looks for a newer client release. Failures are silent.
func (m *Model) checkUpdate() tea.Cmd {
	current := m.version
	return func() tea.Msg {
		available, latest, _, err := version.CheckForUpdate(current)
		if err != nil {
			return nil
		}
		return versionCheckedMsg{available: available, latest: latest}
	}
}

// selectCandidate promotes the candidate under the cursor to the current
// code and records the manual selection
func (m *Model) selectCandidate() tea.Cmd {
	picked := m.codeState.SelectCandidate(m.codeState.GetCandidateIndex())
	if picked == nil {
		return func() tea.Msg {
			return errorMsg("No candidate selected")
		}
	}

	auditMgr := m.auditMgr
	candidate := *picked
	statusCmd := m.setStatusMessage(fmt.Sprintf("Selected %s", candidate.Code))
	return tea.Batch(statusCmd, func() tea.Msg {
		if auditMgr != nil {
			_ = auditMgr.Record(audit.NewSelectionEntry(candidate))
		}
		return nil
	})
}

// copyCurrentCode copies the current code to the system clipboard
func (m *Model) copyCurrentCode() tea.Cmd {
	if !m.codeState.HasCode() {
		return func() tea.Msg {
			return errorMsg("No code to copy")
		}
	}

	code := m.codeState.GetCurrent().Code
	if err := clipboard.WriteAll(code); err != nil {
		return func() tea.Msg {
			return errorMsg(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
	}

	m.copied = true
	statusCmd := m.setStatusMessage(fmt.Sprintf("Code %s copied to clipboard", code))
	return tea.Batch(statusCmd, tea.Tick(copyFeedbackDuration, func(time.Time) tea.Msg {
		return copyFeedbackExpiredMsg{}
	}))
}

// loadHistory fetches audit entries and stats for the history modal.
// Search narrows membership only; entries stay in recency order.
func (m *Model) loadHistory() tea.Cmd {
	auditMgr := m.auditMgr
	query := strings.TrimSpace(m.historySearch.Value())
	return func() tea.Msg {
		entries, err := auditMgr.Search(query, historyPageSize)
		if err != nil {
			return historyLoadedMsg{err: err.Error()}
		}
		stats, err := auditMgr.GetStats()
		if err != nil {
			return historyLoadedMsg{err: err.Error()}
		}
		return historyLoadedMsg{entries: entries, stats: &stats}
	}
}

// exportAudit writes the audit trail to a timestamped CSV in the working
// directory
func (m *Model) exportAudit() tea.Cmd {
	auditMgr := m.auditMgr
	return func() tea.Msg {
		path := fmt.Sprintf("ekoder-audit-%s.csv", time.Now().Format("20060102-150405"))
		f, err := os.Create(path)
		if err != nil {
			return auditExportedMsg{err: err.Error()}
		}
		defer f.Close()

		if err := auditMgr.ExportCSV(f); err != nil {
			return auditExportedMsg{err: err.Error()}
		}
		return auditExportedMsg{path: path}
	}
}

// clearAudit deletes every audit entry
func (m *Model) clearAudit() tea.Cmd {
	auditMgr := m.auditMgr
	return func() tea.Msg {
		if err := auditMgr.Clear(); err != nil {
			return auditClearedMsg{err: err.Error()}
		}
		return auditClearedMsg{}
	}
}

// startNewCase resets both input flows and the result panel
func (m *Model) startNewCase() tea.Cmd {
	m.textInput.Reset()
	m.fileState.Clear()
	m.codeState.Clear()
	m.errorMsg = ""
	m.fullErrorMsg = ""
	return m.setStatusMessage("New case")
}
