/*
Package tui implements the terminal user interface for EKoder.

# Architecture

The TUI follows the Bubble Tea framework's Model-Update-View pattern:
  - Model: Maintains all application state
  - Update: Processes messages and returns commands
  - View: Renders the current state to the terminal

# Key Components

  - model.go: Core state, message handling, defines the Model struct
  - keys.go: Keyboard input handling per mode and focused panel
  - render.go: View rendering for the two-panel layout and modals
  - actions.go: Side effects (coding submissions, clipboard, audit writes)

# State Management

The coding workflow is decomposed into focused state objects:
  - CodeState: The current result, candidate list, and chosen code
  - FileState: The selected casenote file and its validation status

All state objects use sync.RWMutex for thread safety.

# Submission Flows

Text entry and file upload are independent flows with separate loading
flags. Each flow guards only itself, responses are applied in arrival
order, and a later result replaces the previous one wholesale.

# Modal System

The application uses a mode-based system (ModeNormal, ModeHistory,
ModeExtracted, ModeLocked, and so on). Each mode has an associated
handler in keys.go and a render function in render.go.

# Threading Model

The TUI runs in a single goroutine (Bubble Tea's event loop), but spawns
goroutines via tea.Cmd for:
  - Coding service requests
  - Session and health probes
  - Audit trail reads and exports

Results come back as typed messages handled in Update.

# Example Usage

	if err := tui.Run(version); err != nil {
		log.Fatal(err)
	}
*/
package tui
