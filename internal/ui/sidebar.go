package ui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/catalog"
	"github.com/zhubert/chatlog/internal/keys"
	"github.com/zhubert/chatlog/internal/logger"
	"github.com/zhubert/chatlog/internal/markup"
	"github.com/zhubert/chatlog/internal/selection"
)

const (
	favoriteMarker = "★"
	untitled       = "(untitled)"
)

// Sidebar represents the left panel with the grouped conversation list.
// Every SetRows call starts a new epoch; selection handles from an older
// epoch are no longer attached.
type Sidebar struct {
	rows         []catalog.Row
	epoch        uint64
	cursor       int    // index into rows, on an entry row whenever one exists
	highlighted  string // conversation whose content is shown, empty for none
	width        int
	height       int
	focused      bool
	scrollOffset int

	// Search mode
	searchMode  bool
	searchInput textinput.Model
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "filter titles..."
	ti.CharLimit = SidebarSearchCharLimit

	return &Sidebar{
		searchInput: ti,
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height

	ctx := GetViewContext()
	logger.WithComponent("ui").Debug("Sidebar.SetSize",
		"outerWidth", width,
		"outerHeight", height,
		"innerWidth", ctx.InnerWidth(width),
		"innerHeight", ctx.InnerHeight(height),
	)
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetRows replaces the list with a freshly derived view. The cursor stays
// on the same conversation when it is still listed.
func (s *Sidebar) SetRows(rows []catalog.Row) {
	prev := ""
	if conv, ok := s.SelectedConversation(); ok {
		prev = conv.ID
	}

	s.rows = rows
	s.epoch++
	s.highlighted = ""

	s.cursor = s.firstEntry(0, 1)
	if prev != "" {
		if i := s.indexOf(prev); i >= 0 {
			s.cursor = i
		}
	}
}

// Rows returns the rows currently listed
func (s *Sidebar) Rows() []catalog.Row {
	return s.rows
}

// Epoch returns the generation of the current rows
func (s *Sidebar) Epoch() uint64 {
	return s.epoch
}

// Attached reports whether h refers to a row of the current rows
func (s *Sidebar) Attached(h selection.Handle) bool {
	return h.Epoch == s.epoch && s.indexOf(h.ConversationID) >= 0
}

// Highlight marks or unmarks the row behind h as the one being shown
func (s *Sidebar) Highlight(h selection.Handle, on bool) {
	if !s.Attached(h) {
		return
	}
	if on {
		s.highlighted = h.ConversationID
	} else if s.highlighted == h.ConversationID {
		s.highlighted = ""
	}
}

// Highlighted returns the id of the highlighted row, empty for none
func (s *Sidebar) Highlighted() string {
	return s.highlighted
}

// SetFavoriteMarker updates the star on the row of id. It reports false
// when id is not listed.
func (s *Sidebar) SetFavoriteMarker(id string, on bool) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.rows[i].Conversation.IsFavorite = on
	return true
}

// SelectedConversation returns the conversation under the cursor
func (s *Sidebar) SelectedConversation() (archive.Conversation, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].Kind != catalog.RowEntry {
		return archive.Conversation{}, false
	}
	return s.rows[s.cursor].Conversation, true
}

// SelectedHandle returns a selection handle for the row under the cursor
func (s *Sidebar) SelectedHandle() (selection.Handle, bool) {
	conv, ok := s.SelectedConversation()
	if !ok {
		return selection.Handle{}, false
	}
	return selection.Handle{ConversationID: conv.ID, Epoch: s.epoch}, true
}

func (s *Sidebar) indexOf(id string) int {
	for i, r := range s.rows {
		if r.Kind == catalog.RowEntry && r.Conversation.ID == id {
			return i
		}
	}
	return -1
}

// firstEntry returns the first entry row from start in direction step, or
// -1 when there is none.
func (s *Sidebar) firstEntry(start, step int) int {
	for i := start; i >= 0 && i < len(s.rows); i += step {
		if s.rows[i].Kind == catalog.RowEntry {
			return i
		}
	}
	return -1
}

// move shifts the cursor by n entries, stopping at either end
func (s *Sidebar) move(n int) {
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for ; n > 0; n-- {
		next := s.firstEntry(s.cursor+step, step)
		if next < 0 {
			return
		}
		s.cursor = next
	}
}

// EnterSearchMode focuses the title filter
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	return s.searchInput.Focus()
}

// ExitSearchMode clears and hides the title filter
func (s *Sidebar) ExitSearchMode() {
	s.searchMode = false
	s.searchInput.SetValue("")
	s.searchInput.Blur()
}

// IsSearchMode returns whether the title filter has focus
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// GetSearchQuery returns the title filter text
func (s *Sidebar) GetSearchQuery() string {
	return s.searchInput.Value()
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		// Pastes and cursor blinks belong to the filter input
		if s.searchMode {
			var cmd tea.Cmd
			s.searchInput, cmd = s.searchInput.Update(msg)
			return s, cmd
		}
		return s, nil
	}
	if !s.focused {
		return s, nil
	}

	if s.searchMode {
		switch keyMsg.String() {
		case keys.Escape:
			s.ExitSearchMode()
			return s, nil
		case keys.Enter:
			// Keep the filter applied, give keys back to the list
			s.searchMode = false
			s.searchInput.Blur()
			return s, nil
		case keys.Up, keys.CtrlP:
			s.move(-1)
			return s, nil
		case keys.Down, keys.CtrlN:
			s.move(1)
			return s, nil
		default:
			var cmd tea.Cmd
			s.searchInput, cmd = s.searchInput.Update(msg)
			return s, cmd
		}
	}

	switch keyMsg.String() {
	case keys.Up, "k":
		s.move(-1)
	case keys.Down, "j":
		s.move(1)
	case keys.PgUp:
		s.move(-s.pageSize())
	case keys.PgDown:
		s.move(s.pageSize())
	case keys.Home:
		if i := s.firstEntry(0, 1); i >= 0 {
			s.cursor = i
		}
	case keys.End:
		if i := s.firstEntry(len(s.rows)-1, -1); i >= 0 {
			s.cursor = i
		}
	}
	return s, nil
}

func (s *Sidebar) pageSize() int {
	if n := GetViewContext().InnerHeight(s.height); n > 1 {
		return n - 1
	}
	return 1
}

// View renders the sidebar
func (s *Sidebar) View() string {
	ctx := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerHeight := ctx.InnerHeight(s.height)
	innerWidth := ctx.InnerWidth(s.width)

	var searchLine string
	if s.searchMode || s.searchInput.Value() != "" {
		searchStyle := lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
		s.searchInput.SetWidth(innerWidth - 3) // Leave room for "/ "
		searchLine = searchStyle.Render("/") + " " + s.searchInput.View()
		innerHeight--
	}

	var content string
	if len(s.rows) == 0 {
		emptyMsg := "No conversations."
		if s.searchInput.Value() != "" {
			emptyMsg = "No matches."
		}
		content = ContentNoticeStyle.Render(emptyMsg)
	} else {
		var allLines []string
		selectedLine := 0

		for i, row := range s.rows {
			if row.Kind == catalog.RowHeader {
				// Blank line between groups, not before the first one
				if i > 0 {
					allLines = append(allLines, "")
				}
				allLines = append(allLines, SidebarGroupStyle.Render(runewidth.Truncate(markup.Line(row.Label), innerWidth, "…")))
				continue
			}

			isCursor := i == s.cursor
			itemStyle := SidebarItemStyle.Width(innerWidth)
			if isCursor && s.focused {
				itemStyle = SidebarSelectedStyle.Width(innerWidth)
			}
			if isCursor {
				selectedLine = len(allLines)
			}
			allLines = append(allLines, itemStyle.Render(s.renderEntry(row.Conversation, isCursor, innerWidth-2)))
		}

		// Adjust scroll to keep the cursor visible
		visibleHeight := innerHeight
		if selectedLine < s.scrollOffset {
			s.scrollOffset = selectedLine
		} else if selectedLine >= s.scrollOffset+visibleHeight {
			s.scrollOffset = selectedLine - visibleHeight + 1
		}
		maxScroll := len(allLines) - visibleHeight
		if maxScroll < 0 {
			maxScroll = 0
		}
		if s.scrollOffset > maxScroll {
			s.scrollOffset = maxScroll
		}
		if s.scrollOffset < 0 {
			s.scrollOffset = 0
		}

		if s.scrollOffset > 0 && s.scrollOffset < len(allLines) {
			allLines = allLines[s.scrollOffset:]
		}
		if len(allLines) > visibleHeight && visibleHeight > 0 {
			allLines = allLines[:visibleHeight]
		}
		content = strings.Join(allLines, "\n")
	}

	if searchLine != "" {
		content = searchLine + "\n" + content
	}

	// In lipgloss v2, Width/Height include borders, so pass full panel size
	return style.Width(s.width).Height(s.height).Render(content)
}

// renderEntry builds one conversation line: cursor, star, title, then the
// length and date in the meta column. The cursor row also shows the time.
// Server text is cleaned to a single line before it is measured.
func (s *Sidebar) renderEntry(conv archive.Conversation, isCursor bool, width int) string {
	prefix := "  "
	if isCursor {
		prefix = "> "
	}
	if conv.ID == s.highlighted {
		prefix = "▸ "
		if isCursor {
			prefix = ">▸"
		}
	}

	star := "  "
	if conv.IsFavorite {
		star = FavoriteStyle.Render(favoriteMarker) + " "
	}

	title := markup.Line(conv.DisplayTitle())
	if title == "" {
		title = untitled
	}

	date := markup.Line(conv.CreatedDate())
	stamp := date
	if isCursor {
		stamp = markup.Line(conv.Created)
	}
	length := markup.Line(string(conv.TotalLength))

	// Narrow rows drop the length, then the time, then the date
	fixed := runewidth.StringWidth(prefix) + 2
	var meta string
	for _, candidate := range []string{joinMeta(length, stamp), stamp, date, ""} {
		meta = candidate
		if width-fixed-metaWidth(meta) >= 4 {
			break
		}
	}
	titleWidth := width - fixed - metaWidth(meta)
	title = runewidth.Truncate(title, titleWidth, "…")

	line := prefix + star + title
	if meta != "" {
		gap := titleWidth - runewidth.StringWidth(title) + 1
		line += strings.Repeat(" ", gap) + SidebarMetaStyle.Render(meta)
	}
	return line
}

func joinMeta(length, date string) string {
	switch {
	case length == "":
		return date
	case date == "":
		return length
	}
	return length + "  " + date
}

// metaWidth is the width of the meta column plus the space before it
func metaWidth(meta string) int {
	if meta == "" {
		return 0
	}
	return runewidth.StringWidth(meta) + 1
}
