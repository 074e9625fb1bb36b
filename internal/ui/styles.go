package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Colors of the active theme, set by regenerateStyles
var (
	ColorPrimary     color.Color
	ColorSecondary   color.Color
	ColorMuted       color.Color
	ColorBorder      color.Color
	ColorBorderFocus color.Color
	ColorBg          color.Color
	ColorText        color.Color
	ColorTextMuted   color.Color
	ColorTextInverse color.Color
	ColorUser        color.Color
	ColorAssistant   color.Color
	ColorFavorite    color.Color
	ColorWarning     color.Color
	ColorInfo        color.Color
	ColorError       color.Color
	ColorSuccess     color.Color
	ColorLink        color.Color
)

// Header styles
var (
	HeaderStyle lipgloss.Style
)

// Footer styles
var (
	FooterStyle     lipgloss.Style
	FooterKeyStyle  lipgloss.Style
	FooterDescStyle lipgloss.Style
)

// Panel styles
var (
	PanelStyle        lipgloss.Style
	PanelFocusedStyle lipgloss.Style
	PanelTitleStyle   lipgloss.Style
)

// Sidebar styles
var (
	SidebarItemStyle     lipgloss.Style
	SidebarSelectedStyle lipgloss.Style
	SidebarGroupStyle    lipgloss.Style
	SidebarMetaStyle     lipgloss.Style
	FavoriteStyle        lipgloss.Style
)

// Content panel styles
var (
	ContentUserStyle      lipgloss.Style
	ContentAssistantStyle lipgloss.Style
	ContentTimestampStyle lipgloss.Style
	ContentShadedStyle    lipgloss.Style
	ContentLinkStyle      lipgloss.Style
	ContentNoticeStyle    lipgloss.Style
	ContentStatKeyStyle   lipgloss.Style
)

// Modal styles
var (
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalHelpStyle  lipgloss.Style
)

// Status styles, one per upload.Kind
var (
	StatusInfoStyle    lipgloss.Style
	StatusLoadingStyle lipgloss.Style
	StatusSuccessStyle lipgloss.Style
	StatusErrorStyle   lipgloss.Style
)

// Drop overlay style
var (
	OverlayStyle lipgloss.Style
)
