package modals

import (
	"fmt"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatlog/internal/keys"
)

const (
	// maxCompletionsShown keeps the modal compact
	maxCompletionsShown = 5
	completionDirWidth  = 40
)

// UploadPathState asks for the path of an export archive to import.
// Tab completes paths, offering directories and zip archives.
type UploadPathState struct {
	Input           textinput.Model
	completer       *ArchiveCompleter
	lastValue       string
	showingOptions  bool
	completionIndex int
}

func (*UploadPathState) modalState() {}

func (s *UploadPathState) Title() string { return "Import Archive" }

func (s *UploadPathState) Help() string {
	if s.showingOptions {
		return "up/down to select, Tab/Enter to confirm, Esc to cancel"
	}
	return "Tab to complete path, Enter to import, Esc to cancel"
}

func (s *UploadPathState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	label := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Render("Path to a .zip export (you can also drop it on the window):")

	inputView := lipgloss.NewStyle().
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorPrimary).
		PaddingLeft(1).
		Render(s.Input.View())

	content := lipgloss.JoinVertical(lipgloss.Left, label, inputView)

	if s.showingOptions {
		if completions := s.completer.Candidates(); len(completions) > 0 {
			optionsLabel := lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				MarginTop(1).
				Render("Completions in " + TruncatePath(completionDir(completions[0]), completionDirWidth) + ":")
			content = lipgloss.JoinVertical(lipgloss.Left, content, optionsLabel, s.renderCompletionOptions(completions))
		}
	}

	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, content, help)
}

func (s *UploadPathState) renderCompletionOptions(completions []string) string {
	start := 0
	if s.completionIndex >= maxCompletionsShown {
		start = s.completionIndex - maxCompletionsShown + 1
	}
	end := min(start+maxCompletionsShown, len(completions))

	var names []string
	for _, c := range completions[start:end] {
		names = append(names, displayName(c))
	}
	list := strings.TrimRight(RenderSelectableList(names, s.completionIndex-start), "\n")

	if len(completions) > maxCompletionsShown {
		indicator := lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render(fmt.Sprintf("  (%d total, scroll with up/down)", len(completions)))
		list = lipgloss.JoinVertical(lipgloss.Left, list, indicator)
	}
	return list
}

// displayName shows the last path element, keeping the slash of directories
func displayName(path string) string {
	if strings.HasSuffix(path, "/") {
		return filepath.Base(strings.TrimSuffix(path, "/")) + "/"
	}
	return filepath.Base(path)
}

// completionDir is the directory a completion candidate lives in
func completionDir(path string) string {
	return filepath.Dir(strings.TrimSuffix(path, "/"))
}

func (s *UploadPathState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		var cmd tea.Cmd
		s.Input, cmd = s.Input.Update(msg)
		return s, cmd
	}
	key := keyMsg.String()

	if s.showingOptions {
		completions := s.completer.Candidates()
		switch key {
		case keys.Up:
			if s.completionIndex > 0 {
				s.completionIndex--
			}
			return s, nil
		case keys.Down:
			if s.completionIndex < len(completions)-1 {
				s.completionIndex++
			}
			return s, nil
		case keys.Tab, keys.Enter:
			if s.completionIndex < len(completions) {
				s.setValue(completions[s.completionIndex])
			}
			s.hideOptions()
			return s, nil
		case keys.Escape:
			s.hideOptions()
			return s, nil
		default:
			s.hideOptions()
		}
	}

	if key == keys.Tab {
		s.complete()
		return s, nil
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() != s.lastValue {
		s.lastValue = s.Input.Value()
		s.completer.Reset()
	}
	return s, cmd
}

// complete fills in the unique or common completion, or lists the choices
func (s *UploadPathState) complete() {
	current := s.Input.Value()
	completions := s.completer.Suggest(current)

	switch {
	case len(completions) == 0:
		return
	case len(completions) == 1:
		s.setValue(completions[0])
		s.completer.Reset()
	default:
		common := s.completer.CommonPrefix()
		if common != "" && common != expandHome(current) {
			s.setValue(common)
			s.completer.Reset()
			return
		}
		s.showingOptions = true
		s.completionIndex = 0
	}
}

func (s *UploadPathState) setValue(v string) {
	s.Input.SetValue(v)
	s.Input.CursorEnd()
	s.lastValue = v
}

func (s *UploadPathState) hideOptions() {
	s.showingOptions = false
	s.completer.Reset()
}

// ShowingOptions reports whether the completion list has the keys. Enter
// then picks a completion instead of importing.
func (s *UploadPathState) ShowingOptions() bool {
	return s.showingOptions
}

// GetPath returns the entered path with ~ expanded
func (s *UploadPathState) GetPath() string {
	return expandHome(strings.TrimSpace(s.Input.Value()))
}

// NewUploadPathState creates the import modal with an empty, focused input.
func NewUploadPathState() *UploadPathState {
	input := textinput.New()
	input.Placeholder = "~/Downloads/export.zip"
	input.CharLimit = ModalInputCharLimit
	input.SetWidth(ModalInputWidth)
	input.Focus()

	return &UploadPathState{
		Input:     input,
		completer: NewArchiveCompleter(),
	}
}
