package modals

import (
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// keyColumnPadding separates the key column from the description
const keyColumnPadding = 2

// keyRow is one shortcut in the help list. Filtering matches the key, the
// description and the section it belongs to, so "import" finds every key
// of the Import section.
type keyRow struct {
	section  string
	shortcut HelpShortcut
}

func (r keyRow) FilterValue() string {
	return strings.Join([]string{r.shortcut.Key, r.shortcut.Desc, r.section}, " ")
}

// sectionRow is a heading between groups of keys. Headings never match a
// filter, so a filtered list is keys only.
type sectionRow struct {
	title string
}

func (sectionRow) FilterValue() string { return "" }

// keyDelegate draws help rows with the key column sized to the longest key.
type keyDelegate struct {
	keyWidth int
}

func (keyDelegate) Height() int                             { return 1 }
func (keyDelegate) Spacing() int                            { return 0 }
func (keyDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d keyDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	switch row := item.(type) {
	case sectionRow:
		fmt.Fprint(w, lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Render(row.title))
	case keyRow:
		fmt.Fprint(w, d.renderKey(row.shortcut, index == m.Index()))
	}
}

func (d keyDelegate) renderKey(sc HelpShortcut, selected bool) string {
	keyStyle := lipgloss.NewStyle().Bold(true).Width(d.keyWidth)
	descStyle := lipgloss.NewStyle()
	prefix := "  "
	if selected {
		keyStyle = keyStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
		descStyle = descStyle.Foreground(ColorTextInverse).Background(ColorPrimary)
		prefix = "> "
	} else {
		keyStyle = keyStyle.Foreground(ColorPrimary)
		descStyle = descStyle.Foreground(ColorText)
	}
	return prefix + keyStyle.Render(sc.Key) + descStyle.Render(sc.Desc)
}

// HelpState lists the keyboard shortcuts that apply right now. Enter on a
// row runs that shortcut.
type HelpState struct {
	list  list.Model
	count int
}

func (*HelpState) modalState() {}

func (s *HelpState) Title() string { return "Keyboard Shortcuts" }

func (s *HelpState) Help() string {
	if s.list.SettingFilter() {
		return "Type to filter  Enter: apply  Esc: cancel"
	}
	return fmt.Sprintf("%d keys  /: filter  up/down: move  Enter: run  Esc: close", s.count)
}

func (s *HelpState) Render() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		ModalTitleStyle.Render(s.Title()),
		s.list.View(),
		ModalHelpStyle.Render(s.Help()),
	)
}

func (s *HelpState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

// SetSize gives the list what is left after the title and help lines.
func (s *HelpState) SetSize(width, height int) {
	const chrome = 4
	s.list.SetSize(width, max(height-chrome, 1))
}

// GetSelectedShortcut returns the shortcut under the cursor, or nil on a
// heading or in an empty list.
func (s *HelpState) GetSelectedShortcut() *HelpShortcut {
	row, ok := s.list.SelectedItem().(keyRow)
	if !ok {
		return nil
	}
	return &row.shortcut
}

// IsFiltering reports whether the filter input has the keyboard.
func (s *HelpState) IsFiltering() bool {
	return s.list.SettingFilter()
}

// NewHelpStateFromSections builds the help list, one heading per section
// followed by its keys. The cursor starts on the first key.
func NewHelpStateFromSections(sections []HelpSection) *HelpState {
	var (
		items    []list.Item
		keyWidth int
		count    int
		first    = -1
	)
	for _, section := range sections {
		items = append(items, sectionRow{title: section.Title})
		for _, sc := range section.Shortcuts {
			if first < 0 {
				first = len(items)
			}
			items = append(items, keyRow{section: section.Title, shortcut: sc})
			keyWidth = max(keyWidth, lipgloss.Width(sc.Key))
			count++
		}
	}

	l := list.New(items, keyDelegate{keyWidth: keyWidth + keyColumnPadding}, ModalWidth, HelpModalMaxVisible)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.SetFilteringEnabled(true)
	if first >= 0 {
		l.Select(first)
	}

	return &HelpState{list: l, count: count}
}
