package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/ekoder/internal/audit"
	"github.com/studiowebux/ekoder/internal/types"
)

func TestNew_InitializesStateCorrectly(t *testing.T) {
	m := CreateTestModel(t)

	// Verify state objects are initialized
	if m.codeState == nil {
		t.Error("codeState should be initialized")
	}
	if m.fileState == nil {
		t.Error("fileState should be initialized")
	}

	AssertModelField(t, "codeState.IsResultVisible()", m.codeState.IsResultVisible(), false)
	AssertModelField(t, "fileState.HasFile()", m.fileState.HasFile(), false)
	AssertModelField(t, "textLoading", m.textLoading, false)
	AssertModelField(t, "fileLoading", m.fileLoading, false)
}

func TestNew_InitializesDefaultMode(t *testing.T) {
	m := CreateTestModel(t)

	AssertModelField(t, "mode", m.mode, ModeNormal)
	AssertModelField(t, "inputMode", m.inputMode, inputModeText)
	AssertModelField(t, "focusedPanel", m.focusedPanel, panelInput)
}

func TestNew_WithoutTokenStartsLocked(t *testing.T) {
	m := CreateSignedOutTestModel(t)

	AssertModelField(t, "mode", m.mode, ModeLocked)
}

func TestNew_VersionSet(t *testing.T) {
	m := CreateTestModel(t)

	AssertModelField(t, "version", m.version, "test-version")
}

func TestUpdate_CodingResultAppliesAndFocusesResult(t *testing.T) {
	m := CreateTestModel(t)
	m.textLoading = true
	m.errorMsg = "stale error"
	m.fullErrorMsg = "stale error"

	result := &types.CodingResult{
		SuggestedCode: "I21.3",
		Descriptor:    "ST elevation myocardial infarction",
		Confidence:    0.91,
		Complexity:    4,
	}
	m.Update(codingResultMsg{flow: flowText, result: result, duration: 1500 * time.Millisecond})

	AssertModelField(t, "textLoading", m.textLoading, false)
	AssertModelField(t, "focusedPanel", m.focusedPanel, panelResult)
	AssertModelField(t, "errorMsg", m.errorMsg, "")
	AssertModelField(t, "statusMsg", m.statusMsg, "Coded in 1.50s")
	AssertModelField(t, "HasCode", m.codeState.HasCode(), true)
	AssertModelField(t, "code", m.codeState.GetCurrent().Code, "I21.3")
}

func TestUpdate_CodingResultClearsOnlyItsFlow(t *testing.T) {
	m := CreateTestModel(t)
	m.textLoading = true
	m.fileLoading = true

	m.Update(codingResultMsg{flow: flowText, result: &types.CodingResult{SuggestedCode: "E11.9", Complexity: 2}, duration: time.Second})

	AssertModelField(t, "textLoading", m.textLoading, false)
	AssertModelField(t, "fileLoading", m.fileLoading, true)
}

func TestUpdate_LaterResultWins(t *testing.T) {
	m := CreateTestModel(t)

	first := &types.CodingResult{
		SuggestedCode: "I21.3",
		Complexity:    4,
		Candidates:    []types.Candidate{{Code: "I21.3"}},
	}
	second := &types.CodingResult{
		Reasoning:  "No single code reached the confidence threshold.",
		Candidates: []types.Candidate{{Code: "E11.9"}, {Code: "E11.2"}},
	}

	m.Update(codingResultMsg{flow: flowText, result: first, duration: time.Second})
	m.Update(codingResultMsg{flow: flowFile, result: second, duration: time.Second})

	AssertModelField(t, "HasCode", m.codeState.HasCode(), false)
	AssertModelField(t, "complexity", m.codeState.GetComplexity(), 0)
	AssertModelField(t, "candidates", len(m.codeState.GetCandidates()), 2)
}

func TestUpdate_SubmissionFailedSetsError(t *testing.T) {
	m := CreateTestModel(t)
	m.fileLoading = true
	m.codeState.BeginSubmission()

	m.Update(submissionFailedMsg{flow: flowFile, message: "service unavailable"})

	AssertModelField(t, "fileLoading", m.fileLoading, false)
	AssertModelField(t, "errorMsg", m.errorMsg, "Error: service unavailable. Please try again.")
	AssertModelField(t, "IsResultVisible", m.codeState.IsResultVisible(), false)
}

func TestUpdate_SubmissionFailedKeepsPriorCode(t *testing.T) {
	m := CreateTestModel(t)
	m.Update(codingResultMsg{flow: flowText, result: &types.CodingResult{SuggestedCode: "I21.3", Complexity: 4}, duration: time.Second})

	m.textLoading = true
	m.codeState.BeginSubmission()
	m.Update(submissionFailedMsg{flow: flowText, message: "timeout"})

	// The prior code survives a failed resubmission and stays copyable
	AssertModelField(t, "HasCode", m.codeState.HasCode(), true)
	AssertModelField(t, "code", m.codeState.GetCurrent().Code, "I21.3")
}

func TestUpdate_IdentityRejectedLocksWorkflow(t *testing.T) {
	m := CreateTestModel(t)

	m.Update(identityCheckedMsg{rejected: true})

	AssertModelField(t, "mode", m.mode, ModeLocked)
	AssertModelField(t, "HasToken", m.sessionMgr.HasToken(), false)
	if m.identity != nil {
		t.Error("identity should be cleared when the credential is rejected")
	}
}

func TestUpdate_IdentityTransportFailureFailsOpen(t *testing.T) {
	m := CreateTestModel(t)

	m.Update(identityCheckedMsg{err: "connection refused"})

	AssertModelField(t, "mode", m.mode, ModeNormal)
	AssertModelField(t, "HasToken", m.sessionMgr.HasToken(), true)
	if !strings.Contains(m.statusMsg, "Could not verify session") {
		t.Errorf("statusMsg = %q, want verification warning", m.statusMsg)
	}
}

func TestUpdate_IdentityVerified(t *testing.T) {
	m := CreateTestModel(t)

	m.Update(identityCheckedMsg{identity: &types.Identity{Name: "Dana Reyes", Role: "coder"}})

	if m.identity == nil {
		t.Fatal("identity should be set")
	}
	AssertModelField(t, "identity.Name", m.identity.Name, "Dana Reyes")
	AssertModelField(t, "statusMsg", m.statusMsg, "Signed in as Dana Reyes")
}

func TestUpdate_HealthChecked(t *testing.T) {
	m := CreateTestModel(t)

	m.Update(healthCheckedMsg{health: &types.HealthStatus{Status: "healthy", CodesLoaded: 12345}})

	if m.health == nil {
		t.Fatal("health should be set")
	}
	AssertModelField(t, "health.CodesLoaded", m.health.CodesLoaded, 12345)

	// A failed probe keeps the last known state rather than wiping it
	m.Update(healthCheckedMsg{err: "connection refused"})
	if m.health == nil {
		t.Error("health should survive a failed probe")
	}
}

func TestUpdate_HistoryLoaded(t *testing.T) {
	m := CreateTestModel(t)
	m.historyIndex = 5

	entries := []types.AuditEntry{{ID: "a"}, {ID: "b"}}
	stats := &audit.Stats{TotalCases: 2, WithSuggestions: 1}
	m.Update(historyLoadedMsg{entries: entries, stats: stats})

	AssertModelField(t, "entries", len(m.historyEntries), 2)
	AssertModelField(t, "historyIndex", m.historyIndex, 0)
	AssertModelField(t, "stats.TotalCases", m.historyStats.TotalCases, 2)
}

func TestUpdate_CopyFeedbackExpires(t *testing.T) {
	m := CreateTestModel(t)
	m.copied = true

	m.Update(copyFeedbackExpiredMsg{})

	AssertModelField(t, "copied", m.copied, false)
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m := CreateTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("ctrl+c should return a quit command")
	}
}

func TestUpdate_TabTogglesPanelFocus(t *testing.T) {
	m := CreateTestModel(t)

	AssertModelField(t, "initial focus", m.focusedPanel, panelInput)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	AssertModelField(t, "result focus", m.focusedPanel, panelResult)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	AssertModelField(t, "input focus", m.focusedPanel, panelInput)
}

func TestSubmitText_RejectsShortText(t *testing.T) {
	m := CreateTestModel(t)
	m.textInput.SetValue("too short")

	cmd := m.submitText()
	if cmd == nil {
		t.Fatal("expected a command carrying the validation error")
	}
	m.Update(cmd())

	AssertModelField(t, "textLoading", m.textLoading, false)
	AssertModelField(t, "errorMsg", m.errorMsg, fmt.Sprintf("please enter at least %d characters of clinical text", types.MinClinicalTextLength))
}

func TestSubmitText_GuardsInFlightSubmission(t *testing.T) {
	m := CreateTestModel(t)
	m.textLoading = true
	m.textInput.SetValue("Patient presents with chest pain radiating to the left arm.")

	cmd := m.submitText()
	if cmd == nil {
		t.Fatal("expected a command carrying the guard error")
	}
	if got := cmd(); got != errorMsg("Text submission already in progress") {
		t.Errorf("msg = %v, want in-progress guard", got)
	}
}

func TestSubmitText_StartsSubmission(t *testing.T) {
	m := CreateTestModel(t)
	m.errorMsg = "stale"
	m.textInput.SetValue("Patient presents with chest pain radiating to the left arm.")

	cmd := m.submitText()
	if cmd == nil {
		t.Fatal("expected submission command")
	}

	AssertModelField(t, "textLoading", m.textLoading, true)
	AssertModelField(t, "statusMsg", m.statusMsg, "Coding case note...")
	AssertModelField(t, "errorMsg", m.errorMsg, "")
	AssertModelField(t, "IsResultVisible", m.codeState.IsResultVisible(), false)
}

func TestSubmitFile_RequiresSelection(t *testing.T) {
	m := CreateTestModel(t)

	cmd := m.submitFile()
	if cmd == nil {
		t.Fatal("expected a command carrying the selection error")
	}
	if got := cmd(); got != errorMsg("No file selected") {
		t.Errorf("msg = %v, want selection guard", got)
	}
}

func TestSubmitFile_GuardsInFlightUpload(t *testing.T) {
	m := CreateTestModel(t)
	m.fileLoading = true
	m.fileState.Accept("/tmp/casenote.txt", 42)

	cmd := m.submitFile()
	if cmd == nil {
		t.Fatal("expected a command carrying the guard error")
	}
	if got := cmd(); got != errorMsg("File submission already in progress") {
		t.Errorf("msg = %v, want in-progress guard", got)
	}
}

func TestSetErrorMessage_TruncatesLongMessages(t *testing.T) {
	m := CreateTestModel(t)

	long := strings.Repeat("x", 150)
	m.setErrorMessage(long)

	AssertModelField(t, "len(errorMsg)", len(m.errorMsg), 100)
	if !strings.HasSuffix(m.errorMsg, "...") {
		t.Errorf("errorMsg should end with ellipsis, got %q", m.errorMsg[90:])
	}
	AssertModelField(t, "fullErrorMsg", m.fullErrorMsg, long)
}

func TestSwitchInputMode_PreservesDraft(t *testing.T) {
	m := CreateTestModel(t)
	m.textInput.SetValue("Draft clinical note about an ongoing admission.")

	m.switchInputMode()
	AssertModelField(t, "inputMode", m.inputMode, inputModeFile)

	m.switchInputMode()
	AssertModelField(t, "inputMode", m.inputMode, inputModeText)
	AssertModelField(t, "draft", m.textInput.Value(), "Draft clinical note about an ongoing admission.")
}

func TestStartNewCase_ResetsWorkflow(t *testing.T) {
	m := CreateTestModel(t)
	m.textInput.SetValue("Some clinical text that is long enough.")
	m.fileState.Accept("/tmp/casenote.txt", 42)
	m.Update(codingResultMsg{flow: flowText, result: &types.CodingResult{SuggestedCode: "I21.3", Complexity: 4}, duration: time.Second})

	m.startNewCase()

	AssertModelField(t, "textInput", m.textInput.Value(), "")
	AssertModelField(t, "HasFile", m.fileState.HasFile(), false)
	AssertModelField(t, "HasCode", m.codeState.HasCode(), false)
	AssertModelField(t, "IsResultVisible", m.codeState.IsResultVisible(), false)
	AssertModelField(t, "statusMsg", m.statusMsg, "New case")
}

func TestComplexityBar_SegmentCounts(t *testing.T) {
	tests := []struct {
		name   string
		level  int
		filled int
	}{
		{"minimum", 1, 1},
		{"middle", 3, 3},
		{"maximum", 6, 6},
		{"below range clamps up", -2, 1},
		{"zero clamps up", 0, 1},
		{"above range clamps down", 9, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := complexityBar(tt.level)
			if got := strings.Count(bar, "█"); got != tt.filled {
				t.Errorf("Expected %d filled segments for level %d, got %d", tt.filled, tt.level, got)
			}
			if got := strings.Count(bar, "░"); got != types.MaxComplexity-tt.filled {
				t.Errorf("Expected %d empty segments for level %d, got %d", types.MaxComplexity-tt.filled, tt.level, got)
			}
		})
	}
}
