package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/chatlog/internal/markup"
)

// headerTitle is drawn bold at the left of the header
const headerTitle = " chatlog"

// Header represents the top header bar
type Header struct {
	width  int
	filter string
	server string
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetFilter sets the active group filter label; empty means all groups
func (h *Header) SetFilter(label string) {
	h.filter = markup.Line(label)
}

// SetServer sets the backend address shown muted at the right
func (h *Header) SetServer(server string) {
	h.server = server
}

// View renders the header
func (h *Header) View() string {
	var rightText string
	if h.filter != "" {
		rightText = h.filter
	}
	if h.server != "" {
		if rightText != "" {
			rightText += " "
		}
		rightText += "(" + h.server + ")"
	}
	if rightText != "" {
		rightText += " "
	}

	paddingLen := h.width - runewidth.StringWidth(headerTitle) - runewidth.StringWidth(rightText)
	if paddingLen < 0 {
		paddingLen = 0
	}

	fullContent := headerTitle + strings.Repeat(" ", paddingLen) + rightText

	mutedFrom := -1
	if h.server != "" {
		mutedFrom = strings.LastIndex(fullContent, "("+h.server+")")
	}
	return h.renderGradient(fullContent, mutedFrom)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background.
// Bytes from mutedFrom on are drawn in the muted text color; -1 mutes nothing.
func (h *Header) renderGradient(content string, mutedFrom int) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	endR, endG, endB := parseHexColor(theme.Bg)

	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	width := runewidth.StringWidth(content)
	titleLen := len(headerTitle)
	var result strings.Builder

	col := 0
	for i, r := range content {
		t := float64(col) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		bgColor := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))

		style := lipgloss.NewStyle().
			Background(bgColor).
			Bold(i < titleLen)

		if mutedFrom >= 0 && i >= mutedFrom {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
		col += runewidth.RuneWidth(r)
	}

	return result.String()
}
