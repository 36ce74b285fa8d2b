package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studiowebux/ekoder/internal/api"
	"github.com/studiowebux/ekoder/internal/audit"
	"github.com/studiowebux/ekoder/internal/config"
	"github.com/studiowebux/ekoder/internal/filter"
	"github.com/studiowebux/ekoder/internal/session"
	"github.com/studiowebux/ekoder/internal/types"
	"gopkg.in/yaml.v3"
)

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// CodeOptions contains options for a one-shot coding submission
type CodeOptions struct {
	Text         string // clinical text from --text
	FilePath     string // casenote document from --file or the upload command
	OutputFormat string // text, json, yaml
	Filter       string // JMESPath expression applied to the JSON form
}

// RunCode submits one case note and prints the result
func RunCode(opts CodeOptions) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	mgr := session.NewManager(config.SessionFile)
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !mgr.HasToken() {
		return fmt.Errorf("not logged in. Run 'ekoder login' first")
	}

	client := api.NewClient(settings.BaseURL, settings.RequestTimeout)
	client.Token = mgr.Token()

	// Resolve the text source: flag first, then piped stdin
	text := strings.TrimSpace(opts.Text)
	if text == "" && opts.FilePath == "" && !isInteractive() {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
		text = strings.TrimSpace(string(data))
	}

	var result *types.CodingResult
	var action, filename string
	start := time.Now()

	switch {
	case opts.FilePath != "":
		if !types.IsSupportedFile(opts.FilePath) {
			return fmt.Errorf("unsupported file type. Allowed: %s", strings.Join(types.SupportedFileExtensions, ", "))
		}
		action = types.ActionUploadFile
		filename = filepath.Base(opts.FilePath)
		result, err = client.CodeFile(context.Background(), opts.FilePath)

	case text != "":
		if err := types.ValidateClinicalText(text); err != nil {
			return err
		}
		action = types.ActionSubmitCase
		result, err = client.CodeText(context.Background(), text)

	default:
		return fmt.Errorf("no input provided (use --text, --file, or pipe the note on stdin)")
	}
	duration := time.Since(start)

	// The file flow audits the extracted text, never the raw document
	auditText := text
	if action == types.ActionUploadFile && result != nil {
		auditText = result.ExtractedText
	}
	errMsg := ""
	if err != nil {
		errMsg = api.Message(err)
	}
	recordEntry(action, auditText, filename, result, duration, errMsg)

	if err != nil {
		return fmt.Errorf("coding request failed: %s", api.Message(err))
	}

	output, err := formatResult(result, opts.OutputFormat, opts.Filter)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(output)

	// An error with no candidates means the service produced nothing usable.
	// A degraded result (error plus candidates) still exits zero.
	if result.Error != "" && len(result.Candidates) == 0 {
		os.Exit(1)
	}

	return nil
}

// recordEntry appends a submission to the local audit trail. Best-effort: a
// failure warns on stderr and never fails the command.
func recordEntry(action, text, filename string, result *types.CodingResult, duration time.Duration, errMsg string) {
	mgr, err := audit.NewManager(config.AuditDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: audit trail unavailable: %v\n", err)
		return
	}
	defer mgr.Close()

	if err := mgr.Record(audit.NewSubmissionEntry(action, text, filename, result, duration, errMsg)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to record audit entry: %v\n", err)
	}
}

// formatResult renders a coding result in the requested output format
func formatResult(result *types.CodingResult, format, filterExpr string) (string, error) {
	if filterExpr != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		filtered, err := filter.Apply(string(data), filterExpr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: filter error: %v\n", err)
			return string(data) + "\n", nil
		}
		return filtered + "\n", nil
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil

	case "yaml":
		data, err := yaml.Marshal(result)
		if err != nil {
			return "", err
		}
		return string(data), nil

	case "text":
		fallthrough
	default:
		var sb strings.Builder

		if result.Error != "" {
			sb.WriteString(fmt.Sprintf("%sError: %s%s\n", colorRed, result.Error, colorReset))
		}

		if result.SuggestedCode != "" {
			sb.WriteString(fmt.Sprintf("%s%s%s  %s\n", colorGreen, result.SuggestedCode, colorReset, result.Descriptor))
			if result.Confidence > 0 {
				sb.WriteString(fmt.Sprintf("Confidence: %s\n", types.FormatScore(result.Confidence)))
			}
			if result.Complexity >= types.MinComplexity && result.Complexity <= types.MaxComplexity {
				label := result.ComplexityLabel
				if label == "" {
					label = types.FallbackComplexityLabel(result.Complexity)
				}
				sb.WriteString(fmt.Sprintf("Complexity: %s\n", label))
			}
			if result.Reasoning != "" {
				sb.WriteString(fmt.Sprintf("Reasoning: %s\n", result.Reasoning))
			}
			if result.RequiresHumanReview {
				sb.WriteString(fmt.Sprintf("%sRequires human review%s\n", colorYellow, colorReset))
			}
		} else if result.Error == "" {
			sb.WriteString("No code suggested. Pick from the candidates below.\n")
		}

		if len(result.Candidates) > 0 {
			sb.WriteString(fmt.Sprintf("\nCandidates (%d):\n", len(result.Candidates)))
			for i, c := range result.Candidates {
				sb.WriteString(fmt.Sprintf("  %2d. %-10s %6s  %-10s %s\n",
					i+1, c.Code, types.FormatScore(c.Score), c.Source, c.Descriptor))
			}
		}

		return sb.String(), nil
	}
}

// RunLogin obtains a token from the login endpoint and persists it
func RunLogin(email string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	email, password, err := PromptCredentials(email)
	if err != nil {
		return err
	}

	client := api.NewClient(settings.BaseURL, settings.RequestTimeout)
	resp, err := client.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %s", api.Message(err))
	}

	mgr := session.NewManager(config.SessionFile)
	if err := mgr.SaveToken(resp.AccessToken); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	// Best-effort identity echo; the token is already saved
	client.Token = resp.AccessToken
	if identity, err := client.Me(context.Background()); err == nil {
		fmt.Printf("Logged in as %s\n", identity.DisplayName())
	} else {
		fmt.Println("Logged in")
	}

	return nil
}

// RunLogout clears the persisted session unconditionally
func RunLogout() error {
	mgr := session.NewManager(config.SessionFile)
	if err := mgr.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Logged out")
	return nil
}

// RunWhoami verifies the stored credential and prints the identity
func RunWhoami() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	mgr := session.NewManager(config.SessionFile)
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if !mgr.HasToken() {
		return fmt.Errorf("not logged in. Run 'ekoder login' first")
	}

	client := api.NewClient(settings.BaseURL, settings.RequestTimeout)
	client.Token = mgr.Token()

	identity, err := client.Me(context.Background())
	if err != nil {
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden) {
			// Rejected credential: purge it so the next command prompts a login
			if clearErr := mgr.Clear(); clearErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to clear session: %v\n", clearErr)
			}
			return fmt.Errorf("session rejected. Run 'ekoder login' again")
		}
		return fmt.Errorf("could not verify session: %s", api.Message(err))
	}

	fmt.Printf("ID:    %s\n", identity.ID)
	fmt.Printf("Email: %s\n", identity.Email)
	fmt.Printf("Name:  %s\n", identity.Name)
	fmt.Printf("Role:  %s\n", identity.Role)
	return nil
}

// RunHealth prints the service health status
func RunHealth() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	client := api.NewClient(settings.BaseURL, settings.RequestTimeout)
	health, err := client.Health(context.Background())
	if err != nil {
		return fmt.Errorf("service unreachable: %s", api.Message(err))
	}

	statusColor := colorYellow
	if health.Status == "healthy" {
		statusColor = colorGreen
	}

	embeddings := "no"
	if health.EmbeddingsLoaded {
		embeddings = "yes"
	}

	fmt.Printf("Status:     %s%s%s\n", statusColor, health.Status, colorReset)
	fmt.Printf("Version:    %s\n", health.Version)
	fmt.Printf("Codes:      %d loaded\n", health.CodesLoaded)
	fmt.Printf("Embeddings: %s\n", embeddings)
	return nil
}

// HistoryOptions contains options for the history subcommand
type HistoryOptions struct {
	Limit  int    // newest-first entry cap
	Search string // fuzzy query over code/descriptor/filename/preview
	CSV    bool   // dump the whole trail as CSV to stdout
	Stats  bool   // print aggregates instead of entries
}

// RunHistory reads the local audit trail
func RunHistory(opts HistoryOptions) error {
	mgr, err := audit.NewManager(config.AuditDBPath)
	if err != nil {
		return fmt.Errorf("failed to open audit trail: %w", err)
	}
	defer mgr.Close()

	if opts.CSV {
		return mgr.ExportCSV(os.Stdout)
	}

	if opts.Stats {
		stats, err := mgr.GetStats()
		if err != nil {
			return err
		}
		fmt.Printf("Cases submitted:   %d\n", stats.TotalCases)
		fmt.Printf("With suggestions:  %d\n", stats.WithSuggestions)
		fmt.Printf("With errors:       %d\n", stats.WithErrors)
		fmt.Printf("Manual selections: %d\n", stats.ManualSelections)
		fmt.Printf("Distinct codes:    %d\n", stats.DistinctCodes)
		fmt.Printf("Avg duration:      %s\n", api.FormatDuration(int64(stats.AvgDurationMs)))
		return nil
	}

	entries, err := mgr.Search(opts.Search, opts.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No audit entries")
		return nil
	}

	for _, entry := range entries {
		fmt.Println(formatHistoryLine(entry))
	}
	return nil
}

// formatHistoryLine renders one audit entry on a single line
func formatHistoryLine(entry types.AuditEntry) string {
	timestamp := entry.Timestamp
	if parsed, err := time.Parse(time.RFC3339, entry.Timestamp); err == nil {
		timestamp = parsed.Local().Format("2006-01-02 15:04")
	}

	var detail string
	switch {
	case entry.Error != "":
		detail = fmt.Sprintf("%serror: %s%s", colorRed, entry.Error, colorReset)
	case entry.SuggestedCode != "":
		detail = fmt.Sprintf("%s%s%s %s", colorGreen, entry.SuggestedCode, colorReset, entry.Descriptor)
	default:
		detail = "no suggestion"
	}

	line := fmt.Sprintf("%s  %-12s %s", timestamp, entry.Action, detail)
	if entry.Filename != "" {
		line += fmt.Sprintf(" [%s]", entry.Filename)
	}
	return line
}

// ANSI color codes
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
)
