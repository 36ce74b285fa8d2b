package tui

import (
	"sync"

	"github.com/studiowebux/ekoder/internal/types"
)

// manualSelectionNote replaces the model reasoning after a manual pick so the
// display never attributes generated reasoning to a human decision.
const manualSelectionNote = "Manually selected from candidate list."

// CurrentCode is the single code the workflow currently intends to keep.
// An empty Code means no code has been chosen yet.
type CurrentCode struct {
	Code       string
	Descriptor string
	Provenance string
}

// CodeState encapsulates all coding-result UI state
// This includes the last result, the reconciled current code, the candidate
// table cursor, and the error banner
type CodeState struct {
	mu sync.RWMutex

	// Last applied result and its candidate list
	result     *types.CodingResult
	candidates []types.Candidate

	// Reconciled current code (auto-suggested or manually selected)
	current CurrentCode

	// Display fields derived from the result or a manual pick
	reasoning       string
	confidence      float64
	complexity      int // 0 hides the complexity widget
	complexityLabel string
	extractedText   string

	// Banner and panel visibility
	errorBanner   string
	resultVisible bool
	candidateIdx  int
}

// NewCodeState creates a new coding-result state manager
func NewCodeState() *CodeState {
	return &CodeState{
		result:          nil,
		candidates:      []types.Candidate{},
		current:         CurrentCode{},
		reasoning:       "",
		confidence:      0,
		complexity:      0,
		complexityLabel: "",
		extractedText:   "",
		errorBanner:     "",
		resultVisible:   false,
		candidateIdx:    0,
	}
}

// BeginSubmission hides the result panel and clears the error banner so a
// new submission starts from a clean slate. Result fields are kept, not
// cleared: an error-only response must leave them untouched.
func (s *CodeState) BeginSubmission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resultVisible = false
	s.errorBanner = ""
}

// ApplyResult reconciles a service response into the display state:
//
//   - error with candidates: show the banner and still rebuild the candidate
//     table so the clinician can pick manually (degraded mode)
//   - error without candidates: show only the banner, leave everything else
//     untouched
//   - suggested code present: it becomes the current code with auto
//     provenance, and the complexity widget shows when the level is in range
//   - suggested code absent: current code resets to none and the widget hides
//
// Each applied result replaces the prior one wholesale. When two in-flight
// submissions race, whichever response lands last wins.
func (s *CodeState) ApplyResult(result *types.CodingResult) {
	if result == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if result.Error != "" && len(result.Candidates) == 0 {
		s.errorBanner = result.Error
		return
	}

	s.errorBanner = result.Error
	s.result = result
	s.candidates = make([]types.Candidate, len(result.Candidates))
	copy(s.candidates, result.Candidates)
	// The service caps candidates at ten. Trim anything longer.
	if len(s.candidates) > types.MaxCandidates {
		s.candidates = s.candidates[:types.MaxCandidates]
	}
	s.candidateIdx = 0
	s.extractedText = result.ExtractedText
	s.confidence = result.Confidence

	if result.SuggestedCode != "" {
		s.current = CurrentCode{
			Code:       result.SuggestedCode,
			Descriptor: result.Descriptor,
			Provenance: types.ProvenanceAuto,
		}
		s.reasoning = result.Reasoning
		s.setComplexity(result.Complexity, result.ComplexityLabel)
	} else {
		s.current = CurrentCode{}
		s.reasoning = ""
		s.setComplexity(0, "")
	}

	s.resultVisible = true
}

// SelectCandidate promotes the candidate at index to the current code with
// manual provenance. The reasoning display is replaced with a fixed note and
// the confidence figure is cleared since it described the auto suggestion.
// Returns a copy of the picked candidate, or nil when index is out of bounds.
func (s *CodeState) SelectCandidate(index int) *types.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.candidates) {
		return nil
	}

	candidate := s.candidates[index]
	s.current = CurrentCode{
		Code:       candidate.Code,
		Descriptor: candidate.Descriptor,
		Provenance: types.ProvenanceManual,
	}
	s.reasoning = manualSelectionNote
	s.confidence = 0
	s.setComplexity(candidate.Complexity, types.ComplexityLabel(candidate.Complexity))
	return &candidate
}

// setComplexity stores a complexity level for display. Levels outside the
// documented range hide the widget. Caller must hold the lock.
func (s *CodeState) setComplexity(level int, label string) {
	if level < types.MinComplexity || level > types.MaxComplexity {
		s.complexity = 0
		s.complexityLabel = ""
		return
	}
	s.complexity = level
	if label == "" {
		label = types.FallbackComplexityLabel(level)
	}
	s.complexityLabel = label
}

// Navigate moves the candidate cursor up or down with wrap around
func (s *CodeState) Navigate(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.candidates) == 0 {
		return
	}

	s.candidateIdx += delta
	if s.candidateIdx < 0 {
		s.candidateIdx = len(s.candidates) - 1
	} else if s.candidateIdx >= len(s.candidates) {
		s.candidateIdx = 0
	}
}

// GetCandidateIndex returns the candidate cursor position
func (s *CodeState) GetCandidateIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidateIdx
}

// GetCurrentCandidate returns the candidate under the cursor, or nil if the
// table is empty or the cursor is out of bounds
func (s *CodeState) GetCurrentCandidate() *types.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.candidateIdx < 0 || s.candidateIdx >= len(s.candidates) {
		return nil
	}

	candidate := s.candidates[s.candidateIdx]
	return &candidate
}

// GetCandidates returns a copy of the candidate table
func (s *CodeState) GetCandidates() []types.Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]types.Candidate, len(s.candidates))
	copy(candidates, s.candidates)
	return candidates
}

// GetCurrent returns the reconciled current code
func (s *CodeState) GetCurrent() CurrentCode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// HasCode reports whether a current code exists to copy or record
func (s *CodeState) HasCode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Code != ""
}

// GetErrorBanner returns the result-level error message, empty when none
func (s *CodeState) GetErrorBanner() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errorBanner
}

// GetReasoning returns the reasoning text for the current code
func (s *CodeState) GetReasoning() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reasoning
}

// GetConfidence returns the model confidence for the auto suggestion,
// 0 when absent or after a manual pick
func (s *CodeState) GetConfidence() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.confidence
}

// GetComplexity returns the displayed complexity level, 0 when hidden
func (s *CodeState) GetComplexity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.complexity
}

// GetComplexityLabel returns the label shown beside the complexity bar
func (s *CodeState) GetComplexityLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.complexityLabel
}

// GetExtractedText returns the text extracted from an uploaded document
func (s *CodeState) GetExtractedText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.extractedText
}

// RequiresReview reports whether the service flagged the result for human
// review
func (s *CodeState) RequiresReview() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result != nil && s.result.RequiresHumanReview
}

// HasResult reports whether any result has been applied
func (s *CodeState) HasResult() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result != nil
}

// IsResultVisible reports whether the result panel should render
func (s *CodeState) IsResultVisible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resultVisible
}

// Clear resets the state for a new case
func (s *CodeState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = nil
	s.candidates = []types.Candidate{}
	s.current = CurrentCode{}
	s.reasoning = ""
	s.confidence = 0
	s.complexity = 0
	s.complexityLabel = ""
	s.extractedText = ""
	s.errorBanner = ""
	s.resultVisible = false
	s.candidateIdx = 0
}
