package tui

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin       = 6  // Standard horizontal margin (m.width - 6)
	ModalHeightMargin      = 3  // Standard vertical margin (m.height - 3)
	ModalWidthMarginNarrow = 10 // Narrow horizontal margin for focused modals (m.width - 10)

	// Viewport Padding and Borders
	ViewportPaddingHorizontal = 4 // Horizontal padding (left + right)

	// Content Area Offsets
	// These are calculated offsets used in viewport and panel sizing
	ContentOffsetStandard = 7  // m.height - 7 for standard viewports
	ContentOffsetHelp     = 10 // m.height - 10 for list paging inside modals

	// Layout Margins
	MinimalBorderMargin = 2 // m.width - 2 or m.height - 2 for minimal borders
)
