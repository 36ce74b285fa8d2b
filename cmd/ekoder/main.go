package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/studiowebux/ekoder/internal/cli"
	"github.com/studiowebux/ekoder/internal/config"
	"github.com/studiowebux/ekoder/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ekoder",
	Short: "EKoder - clinical coding assistant client",
	Long: `EKoder is a terminal client for the EKoder clinical-coding service.

Run without arguments to start the interactive TUI. Subcommands provide
one-shot equivalents for scripting.

Examples:
  ekoder                               # Start interactive TUI
  ekoder login                         # Sign in and persist the session
  ekoder code --text "..."             # Code a pasted case note
  cat note.txt | ekoder code           # Code a piped case note
  ekoder upload discharge-summary.pdf  # Code a casenote document
  ekoder code --text "..." -o json --filter suggested_code
  ekoder history --stats               # Local audit statistics
  ekoder --help                        # Show help`,
	Version: version,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// tui.Run initializes config itself
		return tui.Run(version)
	},
}

var codeCmd = &cobra.Command{
	Use:   "code",
	Short: "Submit a case note for coding",
	Long: `Submit clinical text for coding and print the result.

The note comes from --text, from --file, or from stdin when piped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return runCode(flagText, flagFile)
	},
}

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Submit a casenote document for coding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return runCode("", args[0])
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the coding service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunLogin(flagEmail)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunLogout()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Print the signed-in identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunWhoami()
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Print coding service health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunHealth()
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Read the local audit trail",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		return cli.RunHistory(cli.HistoryOptions{
			Limit:  historyLimit,
			Search: historySearch,
			CSV:    historyCSV,
			Stats:  historyStats,
		})
	},
}

// Flags for code/upload commands
var (
	flagText   string
	flagFile   string
	flagOutput string
	flagFilter string
)

// Flags for login
var (
	flagEmail string
)

// Flags for history
var (
	historyLimit  int
	historySearch string
	historyCSV    bool
	historyStats  bool
)

func init() {
	// code command flags
	codeCmd.Flags().StringVarP(&flagText, "text", "t", "", "Clinical text to code")
	codeCmd.Flags().StringVarP(&flagFile, "file", "f", "", "Casenote document to code (.txt/.pdf/.docx)")
	codeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (text/json/yaml)")
	codeCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath filter over the JSON output")

	// upload command flags (same output surface as code)
	uploadCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output format (text/json/yaml)")
	uploadCmd.Flags().StringVar(&flagFilter, "filter", "", "JMESPath filter over the JSON output")

	// login flags
	loginCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "Email to sign in with (prompts when omitted)")

	// history flags
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to print")
	historyCmd.Flags().StringVarP(&historySearch, "search", "s", "", "Fuzzy search over code/descriptor/filename")
	historyCmd.Flags().BoolVar(&historyCSV, "csv", false, "Dump the whole trail as CSV")
	historyCmd.Flags().BoolVar(&historyStats, "stats", false, "Print aggregate statistics")

	// Add subcommands
	rootCmd.AddCommand(codeCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(historyCmd)
}

// runCode submits one case note in CLI mode
func runCode(text, file string) error {
	opts := cli.CodeOptions{
		Text:         text,
		FilePath:     file,
		OutputFormat: flagOutput,
		Filter:       flagFilter,
	}
	return cli.RunCode(opts)
}
