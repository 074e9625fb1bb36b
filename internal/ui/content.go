package ui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/chatlog/internal/keys"
	"github.com/zhubert/chatlog/internal/logger"
	"github.com/zhubert/chatlog/internal/markup"
	"github.com/zhubert/chatlog/internal/panel"
)

// entryIndent is the left margin of message bodies
const entryIndent = "  "

// ContentPanel is the single display region on the right. It shows
// whatever panel.Content it was last given and re-renders it on resize.
type ContentPanel struct {
	viewport viewport.Model
	content  panel.Content
	width    int
	height   int
	focused  bool
}

// NewContentPanel creates an empty content panel
func NewContentPanel() *ContentPanel {
	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &ContentPanel{viewport: vp}
	c.render()
	return c
}

// SetSize sets the panel dimensions
func (c *ContentPanel) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()
	innerWidth := ctx.InnerWidth(width)
	innerHeight := ctx.InnerHeight(height)
	if innerHeight < 1 {
		innerHeight = 1
	}
	c.viewport.SetWidth(innerWidth)
	c.viewport.SetHeight(innerHeight)

	logger.WithComponent("ui").Debug("ContentPanel.SetSize",
		"outerWidth", width,
		"outerHeight", height,
		"viewportWidth", innerWidth,
		"viewportHeight", innerHeight,
	)

	// Wrapping depends on the width
	offset := c.viewport.YOffset()
	c.render()
	c.viewport.SetYOffset(offset)
}

// SetFocused sets the focus state
func (c *ContentPanel) SetFocused(focused bool) {
	c.focused = focused
}

// IsFocused returns the focus state
func (c *ContentPanel) IsFocused() bool {
	return c.focused
}

// Show replaces the displayed content and scrolls to the top
func (c *ContentPanel) Show(content panel.Content) {
	c.content = content
	c.render()
	c.viewport.GotoTop()
}

// Content returns the displayed content
func (c *ContentPanel) Content() panel.Content {
	return c.content
}

// Refresh re-renders the current content, e.g. after a theme change
func (c *ContentPanel) Refresh() {
	offset := c.viewport.YOffset()
	c.render()
	c.viewport.SetYOffset(offset)
}

// Update scrolls the panel. Keys only count while it has focus; the mouse
// wheel always does.
func (c *ContentPanel) Update(msg tea.Msg) (*ContentPanel, tea.Cmd) {
	if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey {
		if !c.focused {
			return c, nil
		}
		switch keyMsg.String() {
		case keys.Home:
			c.viewport.GotoTop()
			return c, nil
		case keys.End:
			c.viewport.GotoBottom()
			return c, nil
		}
	}
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return c, cmd
}

// View renders the content panel
func (c *ContentPanel) View() string {
	style := PanelStyle
	if c.focused {
		style = PanelFocusedStyle
	}
	return style.Width(c.width).Height(c.height).Render(c.viewport.View())
}

func (c *ContentPanel) wrapWidth() int {
	if w := c.viewport.Width(); w > 0 {
		return w
	}
	return DefaultWrapWidth
}

func (c *ContentPanel) render() {
	c.viewport.SetContent(renderContent(c.content, c.wrapWidth()))
}

// renderContent lays out content for a region width columns wide. Every
// string from the backend is cleaned with markup before it is drawn.
func renderContent(content panel.Content, width int) string {
	var sb strings.Builder

	if title := markup.Line(content.Title); title != "" {
		sb.WriteString(PanelTitleStyle.Render(runewidth.Truncate(title, width, "…")))
		sb.WriteString("\n")
	}
	if link := markup.Line(content.Link); link != "" {
		sb.WriteString(ContentLinkStyle.Render(link))
		sb.WriteString("\n")
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}

	if notice := markup.Line(content.Notice); notice != "" {
		sb.WriteString(ContentNoticeStyle.Render(notice))
		sb.WriteString("\n")
	}

	switch content.Kind {
	case panel.KindEmpty:
		if content.Notice == "" {
			sb.WriteString(ContentNoticeStyle.Render("Select a conversation, or press s to search."))
		}
	case panel.KindMessages:
		for _, e := range content.Entries {
			sb.WriteString(renderMessage(e, width))
		}
	case panel.KindSearch:
		for _, e := range content.Entries {
			sb.WriteString(renderResult(e, width))
		}
	case panel.KindStatistics:
		sb.WriteString(renderStatistics(content, width))
	case panel.KindCost, panel.KindActivity:
		if content.Chart != nil {
			sb.WriteString(content.Chart(width))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

func roleStyle(role string) lipgloss.Style {
	if role == "user" {
		return ContentUserStyle
	}
	return ContentAssistantStyle
}

// shade paints a block with the alternate background across the full width
func shade(block string, width int, shaded bool) string {
	if !shaded {
		return block
	}
	return ContentShadedStyle.Width(width).Render(block)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = entryIndent + l
	}
	return strings.Join(lines, "\n")
}

func renderMessage(e panel.Entry, width int) string {
	body := indent(markup.Render(e.Text, width-len(entryIndent)))

	var block string
	if e.Internal {
		block = ContentTimestampStyle.Render(body)
	} else {
		header := entryMeta(e)
		block = header + "\n" + body
	}
	return shade(block, width, e.Shaded) + "\n\n"
}

func renderResult(e panel.Entry, width int) string {
	title := markup.Line(e.Title)
	if title == "" {
		title = untitled
	}
	var lines []string
	lines = append(lines, PanelTitleStyle.Render(runewidth.Truncate(title, width, "…")))
	if link := markup.Line(e.Link); link != "" {
		lines = append(lines, ContentLinkStyle.Render(link))
	}
	lines = append(lines, entryMeta(e))
	lines = append(lines, indent(markup.Render(e.Text, width-len(entryIndent))))

	return shade(strings.Join(lines, "\n"), width, e.Shaded) + "\n\n"
}

// entryMeta is the role and timestamp line above a message
func entryMeta(e panel.Entry) string {
	role := markup.Line(e.Role)
	meta := roleStyle(role).Render(role)
	if created := markup.Line(e.Created); created != "" {
		meta += "  " + ContentTimestampStyle.Render(created)
	}
	return meta
}

// renderStatistics draws the key/value table in the order received
func renderStatistics(content panel.Content, width int) string {
	labels := make([]string, len(content.Stats))
	keyWidth := 0
	for i, s := range content.Stats {
		labels[i] = markup.Line(s.Key)
		if w := runewidth.StringWidth(labels[i]); w > keyWidth {
			keyWidth = w
		}
	}
	if limit := width / 2; keyWidth > limit {
		keyWidth = limit
	}

	var sb strings.Builder
	for i, s := range content.Stats {
		key := runewidth.FillRight(runewidth.Truncate(labels[i], keyWidth, "…"), keyWidth)
		value := markup.PlainText(s.Value)
		sb.WriteString(ContentStatKeyStyle.Render(key))
		sb.WriteString("  ")
		sb.WriteString(value)
		sb.WriteString("\n")
	}
	return sb.String()
}
