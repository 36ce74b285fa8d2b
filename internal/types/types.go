package types

import (
	"fmt"
	"strings"
)

// Clinical text bounds enforced by the coding service. Violations are caught
// locally so no request is made for input the service would reject anyway.
const (
	MinClinicalTextLength = 10
	MaxClinicalTextLength = 10000
)

// MaxCandidates is the most alternatives the service returns per request.
const MaxCandidates = 10

// Bounds of the six-level complexity scale.
const (
	MinComplexity = 1
	MaxComplexity = 6
)

// Provenance records how the current code was chosen.
const (
	ProvenanceAuto   = "auto-suggested"
	ProvenanceManual = "manually selected"
)

// Audit trail action names, matching the service's own audit vocabulary.
const (
	ActionSubmitCase = "submit_case"
	ActionUploadFile = "upload_file"
	ActionSelectCode = "select_code"
)

// CodingRequest is the JSON body for POST /api/v1/code
type CodingRequest struct {
	ClinicalText string `json:"clinical_text"`
}

// CodingResult is the service response for both submission endpoints.
// A new result always replaces the previous one wholesale.
type CodingResult struct {
	RequestID           string      `json:"request_id,omitempty" yaml:"request_id,omitempty"`
	SuggestedCode       string      `json:"suggested_code,omitempty" yaml:"suggested_code,omitempty"`
	Descriptor          string      `json:"descriptor,omitempty" yaml:"descriptor,omitempty"`
	Reasoning           string      `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
	Confidence          float64     `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Complexity          int         `json:"complexity,omitempty" yaml:"complexity,omitempty"`
	ComplexityLabel     string      `json:"complexity_label,omitempty" yaml:"complexity_label,omitempty"`
	Candidates          []Candidate `json:"candidates" yaml:"candidates"`
	RequiresHumanReview bool        `json:"requires_human_review,omitempty" yaml:"requires_human_review,omitempty"`
	ExtractedText       string      `json:"extracted_text,omitempty" yaml:"extracted_text,omitempty"`
	Error               string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// Candidate is one ranked alternative code. Candidates are pre-ranked by the
// service; display order is always the order received.
type Candidate struct {
	Code       string  `json:"code" yaml:"code"`
	Descriptor string  `json:"descriptor" yaml:"descriptor"`
	Score      float64 `json:"score" yaml:"score"`
	Source     string  `json:"source" yaml:"source"`
	Complexity int     `json:"complexity,omitempty" yaml:"complexity,omitempty"`
}

// Identity is the authenticated user returned by GET /api/v1/auth/me
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at,omitempty"`
	LastLogin string `json:"last_login,omitempty"`
}

// DisplayName returns the name to show for this user, falling back to email.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// LoginRequest is the JSON body for POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued at login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// HealthStatus is the service health payload, displayed best-effort
type HealthStatus struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	CodesLoaded      int    `json:"codes_loaded"`
	EmbeddingsLoaded bool   `json:"embeddings_loaded"`
}

// AuditEntry is one row of the local audit trail. Clinical text is never
// stored raw: hash, length, and a sanitized preview only.
type AuditEntry struct {
	ID             string  `json:"id"`
	Timestamp      string  `json:"timestamp"`
	Action         string  `json:"action"`
	TextHash       string  `json:"textHash,omitempty"`
	TextLength     int     `json:"textLength,omitempty"`
	Filename       string  `json:"filename,omitempty"`
	Preview        string  `json:"preview,omitempty"`
	SuggestedCode  string  `json:"suggestedCode,omitempty"`
	Descriptor     string  `json:"descriptor,omitempty"`
	Confidence     float64 `json:"confidence,omitempty"`
	Complexity     int     `json:"complexity,omitempty"`
	CandidateCount int     `json:"candidateCount"`
	DurationMs     int64   `json:"durationMs,omitempty"`
	Error          string  `json:"error,omitempty"`
}

// complexityLabels are the fixed display labels for each complexity level,
// used for manual picks regardless of any server-supplied label.
var complexityLabels = map[int]string{
	1: "Minor (1)",
	2: "Low (2)",
	3: "Moderate (3)",
	4: "Significant (4)",
	5: "High (5)",
	6: "Very High (6)",
}

// ClampComplexity bounds a complexity level to the valid range [1,6].
func ClampComplexity(level int) int {
	if level < MinComplexity {
		return MinComplexity
	}
	if level > MaxComplexity {
		return MaxComplexity
	}
	return level
}

// ComplexityLabel returns the fixed label for a level, clamping out-of-range
// values first.
func ComplexityLabel(level int) string {
	return complexityLabels[ClampComplexity(level)]
}

// FallbackComplexityLabel is used when the service supplies a complexity
// level without a label.
func FallbackComplexityLabel(level int) string {
	return fmt.Sprintf("Level %d", level)
}

// FormatScore renders a candidate score as a percentage with one decimal,
// e.g. 0.92 -> "92.0%".
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}

// SupportedFileExtensions are the casenote formats the upload endpoint accepts.
var SupportedFileExtensions = []string{".txt", ".pdf", ".docx"}

// FileExtension extracts the lowercased extension (substring after the last
// dot) from a filename. Returns "" when there is no dot.
func FileExtension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx:])
}

// IsSupportedFile reports whether a filename has an accepted extension.
func IsSupportedFile(name string) bool {
	ext := FileExtension(name)
	for _, allowed := range SupportedFileExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ValidateClinicalText checks the local submission preconditions on free-text
// input. The returned error message is suitable for direct display.
func ValidateClinicalText(text string) error {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinClinicalTextLength {
		return fmt.Errorf("please enter at least %d characters of clinical text", MinClinicalTextLength)
	}
	if len(trimmed) > MaxClinicalTextLength {
		return fmt.Errorf("clinical text exceeds %d characters", MaxClinicalTextLength)
	}
	return nil
}
