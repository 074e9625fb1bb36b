package ui

// Screen layout
const (
	HeaderHeight = 1
	FooterHeight = 1

	// BorderSize is the border width of a panel, both sides together
	BorderSize = 2

	// SidebarWidthRatio makes the conversation list a third of the screen
	SidebarWidthRatio = 3
	SidebarMinWidth   = 28
	SidebarMaxWidth   = 56

	// ContentMinWidth keeps room for a transcript next to the list
	ContentMinWidth = 20

	// DefaultWrapWidth is used before the first resize arrives
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight bound the layout from below
	MinTerminalWidth  = 40
	MinTerminalHeight = 10
)

// Sidebar limits
const (
	// SidebarSearchCharLimit is the character limit of the title filter
	SidebarSearchCharLimit = 100
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 256

	// ModalInputWidth is the width of modal text inputs
	ModalInputWidth = 50

	// HelpModalMaxVisible is the number of shortcut rows the help modal shows
	HelpModalMaxVisible = 16
)
