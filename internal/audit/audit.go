// Package audit keeps a local, text-free record of coding activity. Every
// submission and manual code selection lands here; raw clinical text never
// does. The trail backs the TUI history modal and the history subcommand.
package audit

import (
	"crypto/sha256"
	"database/sql"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/ekoder/internal/migrations"
	"github.com/studiowebux/ekoder/internal/sanitize"
	"github.com/studiowebux/ekoder/internal/types"
)

// PreviewLength bounds the sanitized excerpt stored per entry.
const PreviewLength = 80

// searchWindow caps how many recent entries a fuzzy search scans.
const searchWindow = 500

type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to audit database: %w", err)
	}

	// Run database migrations (also creates the schema)
	if err := migrations.Run(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// HashText returns the sha256 hex digest of clinical text. The hash lets two
// submissions of the same note be correlated without storing the note.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// NewSubmissionEntry builds the audit row for a completed text or file
// submission. result may be nil when the submission failed outright.
func NewSubmissionEntry(action, clinicalText, filename string, result *types.CodingResult, duration time.Duration, errMsg string) types.AuditEntry {
	entry := types.AuditEntry{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().Format(time.RFC3339),
		Action:     action,
		Filename:   filename,
		DurationMs: duration.Milliseconds(),
		Error:      errMsg,
	}

	if clinicalText != "" {
		entry.TextHash = HashText(clinicalText)
		entry.TextLength = len(clinicalText)
		entry.Preview = sanitize.Preview(clinicalText, PreviewLength)
	}

	if result != nil {
		entry.SuggestedCode = result.SuggestedCode
		entry.Descriptor = result.Descriptor
		entry.Confidence = result.Confidence
		entry.Complexity = result.Complexity
		entry.CandidateCount = len(result.Candidates)
		if entry.Error == "" {
			entry.Error = result.Error
		}
	}

	return entry
}

// NewSelectionEntry builds the audit row for a manual candidate pick.
func NewSelectionEntry(candidate types.Candidate) types.AuditEntry {
	return types.AuditEntry{
		ID:            uuid.New().String(),
		Timestamp:     time.Now().Format(time.RFC3339),
		Action:        types.ActionSelectCode,
		SuggestedCode: candidate.Code,
		Descriptor:    candidate.Descriptor,
		Confidence:    candidate.Score,
		Complexity:    candidate.Complexity,
	}
}

// Record inserts an entry into the trail.
func (m *Manager) Record(entry types.AuditEntry) error {
	query := `
		INSERT INTO audit_log (
			id, timestamp, action, text_hash, text_length, filename, preview,
			suggested_code, descriptor, confidence, complexity, candidate_count,
			duration_ms, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	// Format timestamp for SQLite in local time
	timestampStr := time.Now().Local().Format("2006-01-02 15:04:05")
	if entry.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
			timestampStr = parsed.Local().Format("2006-01-02 15:04:05")
		}
	}

	id := entry.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err := m.db.Exec(query,
		id,
		timestampStr,
		entry.Action,
		entry.TextHash,
		entry.TextLength,
		entry.Filename,
		entry.Preview,
		entry.SuggestedCode,
		entry.Descriptor,
		entry.Confidence,
		entry.Complexity,
		entry.CandidateCount,
		entry.DurationMs,
		entry.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}

	return nil
}

// Recent returns the newest entries, newest first.
func (m *Manager) Recent(limit int) ([]types.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, timestamp, action, text_hash, text_length, filename, preview,
		       suggested_code, descriptor, confidence, complexity, candidate_count,
		       duration_ms, error
		FROM audit_log
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`

	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit entries: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

// Search fuzzy-matches query against code, descriptor, filename and preview.
// Matching decides membership only; results stay in recency order.
func (m *Manager) Search(query string, limit int) ([]types.AuditEntry, error) {
	entries, err := m.Recent(searchWindow)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}
		return entries, nil
	}

	targets := make([]string, len(entries))
	for i, entry := range entries {
		targets[i] = strings.Join([]string{
			entry.SuggestedCode,
			entry.Descriptor,
			entry.Filename,
			entry.Preview,
		}, " ")
	}

	matchedIdx := make(map[int]bool)
	for _, match := range fuzzy.Find(query, targets) {
		matchedIdx[match.Index] = true
	}

	var matched []types.AuditEntry
	for i, entry := range entries {
		if matchedIdx[i] {
			matched = append(matched, entry)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}

	return matched, nil
}

// Stats are aggregate figures over the trail, mirroring the service's own
// per-user statistics.
type Stats struct {
	TotalCases       int
	WithSuggestions  int
	WithErrors       int
	ManualSelections int
	AvgDurationMs    float64
	DistinctCodes    int
}

// GetStats computes aggregates over coding actions.
func (m *Manager) GetStats() (Stats, error) {
	var stats Stats

	err := m.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN suggested_code != '' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN error != '' THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG(CASE WHEN duration_ms > 0 THEN duration_ms END), 0)
		FROM audit_log
		WHERE action IN (?, ?)
	`, types.ActionSubmitCase, types.ActionUploadFile).Scan(
		&stats.TotalCases,
		&stats.WithSuggestions,
		&stats.WithErrors,
		&stats.AvgDurationMs,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to compute audit stats: %w", err)
	}

	err = m.db.QueryRow(`
		SELECT COUNT(*) FROM audit_log WHERE action = ?
	`, types.ActionSelectCode).Scan(&stats.ManualSelections)
	if err != nil {
		return stats, fmt.Errorf("failed to count selections: %w", err)
	}

	err = m.db.QueryRow(`
		SELECT COUNT(DISTINCT suggested_code) FROM audit_log WHERE suggested_code != ''
	`).Scan(&stats.DistinctCodes)
	if err != nil {
		return stats, fmt.Errorf("failed to count distinct codes: %w", err)
	}

	return stats, nil
}

// ExportCSV writes the whole trail, newest first.
func (m *Manager) ExportCSV(w io.Writer) error {
	entries, err := m.Recent(1000000)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	header := []string{
		"timestamp", "action", "filename", "suggested_code", "descriptor",
		"complexity", "candidate_count", "duration_ms", "error",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		complexity := ""
		if entry.Complexity > 0 {
			complexity = strconv.Itoa(entry.Complexity)
		}
		row := []string{
			entry.Timestamp,
			entry.Action,
			entry.Filename,
			entry.SuggestedCode,
			entry.Descriptor,
			complexity,
			strconv.Itoa(entry.CandidateCount),
			strconv.FormatInt(entry.DurationMs, 10),
			entry.Error,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]types.AuditEntry, error) {
	var entries []types.AuditEntry

	for rows.Next() {
		var id string
		var timestamp string
		var action string
		var textHash sql.NullString
		var textLength sql.NullInt64
		var filename sql.NullString
		var preview sql.NullString
		var suggestedCode sql.NullString
		var descriptor sql.NullString
		var confidence sql.NullFloat64
		var complexity sql.NullInt64
		var candidateCount sql.NullInt64
		var durationMs sql.NullInt64
		var errorMsg sql.NullString

		err := rows.Scan(
			&id,
			&timestamp,
			&action,
			&textHash,
			&textLength,
			&filename,
			&preview,
			&suggestedCode,
			&descriptor,
			&confidence,
			&complexity,
			&candidateCount,
			&durationMs,
			&errorMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		// Parse timestamp as local time
		parsedTime, err := time.ParseInLocation("2006-01-02 15:04:05", timestamp, time.Local)
		if err != nil {
			// Try RFC3339 format as fallback
			parsedTime, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsedTime = time.Now()
			}
		}

		entries = append(entries, types.AuditEntry{
			ID:             id,
			Timestamp:      parsedTime.Format(time.RFC3339),
			Action:         action,
			TextHash:       textHash.String,
			TextLength:     int(textLength.Int64),
			Filename:       filename.String,
			Preview:        preview.String,
			SuggestedCode:  suggestedCode.String,
			Descriptor:     descriptor.String,
			Confidence:     confidence.Float64,
			Complexity:     int(complexity.Int64),
			CandidateCount: int(candidateCount.Int64),
			DurationMs:     durationMs.Int64,
			Error:          errorMsg.String,
		})
	}

	return entries, rows.Err()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM audit_log")
	if err != nil {
		return fmt.Errorf("failed to clear audit trail: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM audit_log").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get audit count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
