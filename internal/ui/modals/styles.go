package modals

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette and sizes shared by every modal. The ui package owns the theme
// and pushes its values here with SetStyles whenever the theme changes.
var (
	ModalTitleStyle      lipgloss.Style
	ModalHelpStyle       lipgloss.Style
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style

	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorWarning     color.Color

	ModalInputWidth     int
	ModalInputCharLimit int
	ModalWidth          int
	HelpModalMaxVisible int
)

// Styles is one theme's worth of modal styling.
type Styles struct {
	Title, Help, Item, SelectedItem lipgloss.Style

	Primary, Secondary, Text, TextMuted, TextInverse, Warning color.Color

	InputWidth, InputCharLimit, Width, ListHeight int
}

// SetStyles replaces the modal styling. Modals built afterwards pick it up;
// forms already open keep the theme they were built with.
func SetStyles(s Styles) {
	ModalTitleStyle, ModalHelpStyle = s.Title, s.Help
	SidebarItemStyle, SidebarSelectedStyle = s.Item, s.SelectedItem

	ColorPrimary, ColorSecondary = s.Primary, s.Secondary
	ColorText, ColorTextMuted, ColorTextInverse = s.Text, s.TextMuted, s.TextInverse
	ColorWarning = s.Warning

	ModalInputWidth, ModalInputCharLimit = s.InputWidth, s.InputCharLimit
	ModalWidth, HelpModalMaxVisible = s.Width, s.ListHeight
}
