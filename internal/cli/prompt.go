package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle = lipgloss.NewStyle().MarginLeft(2).Bold(true)
	promptHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1).MarginLeft(2)
)

// loginModel is a minimal two-field form for the login subcommand
type loginModel struct {
	inputs    []textinput.Model
	focused   int
	done      bool
	cancelled bool
}

func newLoginModel(defaultEmail string) loginModel {
	email := textinput.New()
	email.Placeholder = "coder@hospital.org"
	email.Prompt = "Email:    "
	email.CharLimit = 128
	email.SetValue(defaultEmail)

	password := textinput.New()
	password.Prompt = "Password: "
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m := loginModel{inputs: []textinput.Model{email, password}}

	// Skip straight to the password when the email came from a flag
	if defaultEmail != "" {
		m.focused = 1
	}
	m.inputs[m.focused].Focus()

	return m
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m loginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "enter":
			if m.focused == 0 {
				m.inputs[0].Blur()
				m.focused = 1
				return m, m.inputs[1].Focus()
			}
			m.done = true
			return m, tea.Quit

		case "tab", "shift+tab":
			m.inputs[m.focused].Blur()
			m.focused = (m.focused + 1) % len(m.inputs)
			return m, m.inputs[m.focused].Focus()
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m loginModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(promptTitleStyle.Render("Sign in to EKoder"))
	sb.WriteString("\n\n")
	for i := range m.inputs {
		sb.WriteString("  " + m.inputs[i].View() + "\n")
	}
	sb.WriteString(promptHelpStyle.Render("enter: next/submit • tab: switch field • esc: cancel"))
	return sb.String()
}

// PromptCredentials collects an email and masked password interactively
func PromptCredentials(defaultEmail string) (string, string, error) {
	if !isInteractive() {
		return "", "", fmt.Errorf("login requires an interactive terminal")
	}

	p := tea.NewProgram(newLoginModel(defaultEmail))
	finalModel, err := p.Run()
	if err != nil {
		return "", "", fmt.Errorf("error running login prompt: %w", err)
	}

	result := finalModel.(loginModel)
	if result.cancelled {
		return "", "", fmt.Errorf("login cancelled")
	}

	email := strings.TrimSpace(result.inputs[0].Value())
	password := result.inputs[1].Value()
	if email == "" || password == "" {
		return "", "", fmt.Errorf("email and password are required")
	}

	return email, password, nil
}
