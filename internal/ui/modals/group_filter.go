package modals

import (
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatlog/internal/catalog"
)

// groupOptionWidth bounds group names in the option list
const groupOptionWidth = 40

// GroupFilterState picks the group filter of the sidebar: every group,
// favorites only, or one named group.
type GroupFilterState struct {
	selected string
	original string
	form     *huh.Form
}

func (*GroupFilterState) modalState() {}

func (s *GroupFilterState) Title() string { return "Filter Conversations" }

func (s *GroupFilterState) Help() string {
	return "up/down: choose  Enter: apply  Esc: cancel"
}

func (s *GroupFilterState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *GroupFilterState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Filter returns the chosen filter value: empty for all conversations,
// catalog.FavoritesFilter for favorites, otherwise a group name.
func (s *GroupFilterState) Filter() string {
	return s.selected
}

// Changed reports whether the choice differs from the filter in effect
// when the modal opened.
func (s *GroupFilterState) Changed() bool {
	return s.selected != s.original
}

// groupFilterOptions lists the choices in display order
func groupFilterOptions(groups []string) []huh.Option[string] {
	opts := []huh.Option[string]{
		huh.NewOption("All conversations", ""),
		huh.NewOption("★ Favorites", catalog.FavoritesFilter),
	}
	for _, g := range groups {
		opts = append(opts, huh.NewOption(TruncateString(g, groupOptionWidth), g))
	}
	return opts
}

// NewGroupFilterState creates the filter picker with current preselected.
func NewGroupFilterState(groups []string, current string) *GroupFilterState {
	s := &GroupFilterState{
		selected: current,
		original: current,
	}

	opts := groupFilterOptions(groups)
	height := min(len(opts), HelpModalMaxVisible)

	s.form = newModalForm(ModalWidth-formInset,
		huh.NewSelect[string]().
			Title("Show").
			Options(opts...).
			Height(height).
			Value(&s.selected),
	)
	return s
}
