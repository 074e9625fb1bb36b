package modals

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

const (
	// SearchCharLimit bounds the length of a search query
	SearchCharLimit = 200
	// SearchMinLength is the shortest query the backend accepts
	SearchMinLength = 3
)

// SearchState asks for a full-text search query over all messages.
// Quoted words are passed through for an exact-phrase match.
type SearchState struct {
	query string
	form  *huh.Form
}

func (*SearchState) modalState() {}

func (s *SearchState) Title() string { return "Search Messages" }

func (s *SearchState) Help() string {
	return "Enter: search  Esc: cancel"
}

func (s *SearchState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SearchState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Query returns the entered query without surrounding whitespace
func (s *SearchState) Query() string {
	return strings.TrimSpace(s.query)
}

// Validate reports why the entered query cannot be searched, if it can't
func (s *SearchState) Validate() error {
	return validateQuery(s.query)
}

func validateQuery(q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return errors.New("enter something to search for")
	}
	if strings.Trim(q, `"`) == "" {
		return errors.New("the quoted phrase is empty")
	}
	if utf8.RuneCountInString(q) < SearchMinLength {
		return fmt.Errorf("enter at least %d characters", SearchMinLength)
	}
	return nil
}

// NewSearchState creates the search modal, prefilled with the last query.
func NewSearchState(lastQuery string) *SearchState {
	s := &SearchState{query: lastQuery}

	s.form = newModalForm(ModalWidth-formInset,
		huh.NewInput().
			Title("Search all messages").
			Description(`Wrap words in "quotes" for an exact phrase`).
			Placeholder("e.g. goroutine leak").
			CharLimit(SearchCharLimit).
			Value(&s.query),
	)
	return s
}
