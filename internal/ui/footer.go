package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/chatlog/internal/markup"
	"github.com/zhubert/chatlog/internal/upload"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings and the status line
type Footer struct {
	width          int
	bindings       []KeyBinding
	sidebarFocused bool
	filtering      bool
	status         upload.Status
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		sidebarFocused: true,
		bindings: []KeyBinding{
			{Key: "enter", Desc: "open"},
			{Key: "f", Desc: "favorite"},
			{Key: "/", Desc: "filter"},
			{Key: "g", Desc: "group"},
			{Key: "s", Desc: "search"},
			{Key: "u", Desc: "upload"},
			{Key: "?", Desc: "help"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(sidebarFocused, filtering bool) {
	f.sidebarFocused = sidebarFocused
	f.filtering = filtering
}

// SetStatus sets the status shown before the bindings
func (f *Footer) SetStatus(status upload.Status) {
	f.status = status
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings allows custom keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// activeBindings returns the bindings for the current focus state
func (f *Footer) activeBindings() []KeyBinding {
	switch {
	case f.filtering:
		return []KeyBinding{
			{Key: "enter", Desc: "keep filter"},
			{Key: "esc", Desc: "clear"},
			{Key: "↑/↓", Desc: "navigate"},
		}
	case !f.sidebarFocused:
		return []KeyBinding{
			{Key: "tab", Desc: "conversations"},
			{Key: "↑/↓/pgup/dn", Desc: "scroll"},
			{Key: "y", Desc: "copy link"},
			{Key: "q", Desc: "quit"},
		}
	default:
		return f.bindings
	}
}

// View renders the footer
func (f *Footer) View() string {
	separator := "  " + lipgloss.NewStyle().Foreground(ColorBorder).Render("|") + "  "

	var parts []string
	// Failure details can be whole response bodies
	if msg := markup.Line(f.status.Message); msg != "" {
		parts = append(parts, StatusStyle(f.status.Kind).Render(msg))
	}
	for _, b := range f.activeBindings() {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, separator)

	// FooterStyle pads one column on each side
	if inner := f.width - 2; inner > 0 {
		content = ansi.Truncate(content, inner, "…")
	}

	return FooterStyle.Width(f.width).Render(content)
}

// StatusStyle returns the style for a status of the given kind
func StatusStyle(kind upload.Kind) lipgloss.Style {
	switch kind {
	case upload.KindLoading:
		return StatusLoadingStyle
	case upload.KindSuccess:
		return StatusSuccessStyle
	case upload.KindError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}
