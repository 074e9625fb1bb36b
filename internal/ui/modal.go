package ui

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatlog/internal/ui/modals"
)

const (
	// modalOverhead is the horizontal space taken by the modal border and padding
	modalOverhead = 6
	// modalMinWidth is the narrowest content width a modal is squeezed to
	modalMinWidth = 30
	// modalVerticalOverhead is the vertical space taken by the modal border and padding
	modalVerticalOverhead = 4
)

// Modal represents a popup dialog with type-safe state management.
// The State field is nil when no modal is visible.
type Modal struct {
	State modals.ModalState
	error string
}

// NewModal creates a new modal
func NewModal() *Modal {
	return &Modal{}
}

// Show displays a modal with the given state
func (m *Modal) Show(state modals.ModalState) {
	m.State = state
	m.error = ""
}

// Hide hides the modal
func (m *Modal) Hide() {
	m.State = nil
	m.error = ""
}

// IsVisible returns whether the modal is visible
func (m *Modal) IsVisible() bool {
	return m.State != nil
}

// SetError sets an error message
func (m *Modal) SetError(err string) {
	m.error = err
}

// GetError returns the current error message
func (m *Modal) GetError() string {
	return m.error
}

// Update handles messages by delegating to the current state
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.State == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.State, cmd = m.State.Update(msg)
	return m, cmd
}

// View renders the modal centered on a screen of the given size
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.State == nil {
		return ""
	}

	width := ModalWidth
	if pw, ok := m.State.(modals.ModalWithPreferredWidth); ok {
		width = pw.PreferredWidth()
	}
	if maxWidth := screenWidth - modalOverhead; width > maxWidth {
		width = maxWidth
	}
	if width < modalMinWidth {
		width = modalMinWidth
	}

	if sized, ok := m.State.(modals.ModalWithSize); ok {
		sized.SetSize(width, screenHeight-modalVerticalOverhead)
	}

	content := m.State.Render()

	if m.error != "" {
		content += "\n" + StatusErrorStyle.Render(m.error)
	}

	modal := ModalStyle.Width(width + modalOverhead).Render(content)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}

// RefreshModalStyles hands the current theme's styles to the modals package
func RefreshModalStyles() {
	modals.SetStyles(modals.Styles{
		Title:          ModalTitleStyle,
		Help:           ModalHelpStyle,
		Item:           SidebarItemStyle,
		SelectedItem:   SidebarSelectedStyle,
		Primary:        ColorPrimary,
		Secondary:      ColorSecondary,
		Text:           ColorText,
		TextMuted:      ColorTextMuted,
		TextInverse:    ColorTextInverse,
		Warning:        ColorWarning,
		InputWidth:     ModalInputWidth,
		InputCharLimit: ModalInputCharLimit,
		Width:          ModalWidth,
		ListHeight:     HelpModalMaxVisible,
	})
}
