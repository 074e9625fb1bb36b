package modals

import (
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const optionNotifications = "notifications"

// SettingsValues are the user-editable preferences
type SettingsValues struct {
	Theme                string
	Locale               string
	ServerURL            string
	NotificationsEnabled bool
}

type SettingsState struct {
	selectedTheme  string
	selectedLocale string
	serverURL      string
	generalOptions []string

	original SettingsValues
	form     *huh.Form

	availableWidth int
}

func (*SettingsState) modalState() {}

func (s *SettingsState) PreferredWidth() int { return ModalWidth + 10 }

// SetSize updates the available width for rendering content.
func (s *SettingsState) SetSize(width, height int) {
	s.availableWidth = width
	s.form.WithWidth(s.contentWidth())
}

func (s *SettingsState) contentWidth() int {
	if s.availableWidth > 0 {
		return s.availableWidth - formInset
	}
	return s.PreferredWidth() - formInset
}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	return s, cmd
}

// Values returns the settings as currently entered
func (s *SettingsState) Values() SettingsValues {
	return SettingsValues{
		Theme:                s.selectedTheme,
		Locale:               s.selectedLocale,
		ServerURL:            strings.TrimSpace(s.serverURL),
		NotificationsEnabled: slices.Contains(s.generalOptions, optionNotifications),
	}
}

// ThemeChanged returns true if the selected theme differs from the original.
func (s *SettingsState) ThemeChanged() bool {
	return s.selectedTheme != s.original.Theme
}

// ServerChanged reports whether a different backend was entered. The
// client state must be reloaded from it.
func (s *SettingsState) ServerChanged() bool {
	return s.Values().ServerURL != s.original.ServerURL
}

// localeName labels a locale tag in its own language, e.g. "中文" for zh
func localeName(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	name := display.Self.Name(t)
	if name == "" {
		return tag
	}
	return name + " (" + tag + ")"
}

// NewSettingsState creates a new SettingsState with the current settings values.
func NewSettingsState(themes, themeDisplayNames, locales []string, current SettingsValues) *SettingsState {
	s := &SettingsState{
		selectedTheme:  current.Theme,
		selectedLocale: current.Locale,
		serverURL:      current.ServerURL,
		original:       current,
	}
	if current.NotificationsEnabled {
		s.generalOptions = []string{optionNotifications}
	}

	themeOptions := make([]huh.Option[string], len(themes))
	for i := range themes {
		themeOptions[i] = huh.NewOption(themeDisplayNames[i], themes[i])
	}

	localeOptions := make([]huh.Option[string], len(locales))
	for i, l := range locales {
		localeOptions[i] = huh.NewOption(localeName(l), l)
	}

	generalOpts := []huh.Option[string]{
		huh.NewOption("Notify when an import finishes", optionNotifications).
			Selected(current.NotificationsEnabled),
	}

	s.form = newModalForm(s.contentWidth(),
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&s.selectedTheme),
		huh.NewSelect[string]().
			Title("Status language").
			Options(localeOptions...).
			Value(&s.selectedLocale),
		huh.NewInput().
			Title("Archive server").
			Description("Base URL of the archive backend").
			Placeholder("http://localhost:8000").
			CharLimit(ModalInputCharLimit).
			Value(&s.serverURL),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(generalOpts...).
			Height(len(generalOpts)).
			Value(&s.generalOptions),
	)
	return s
}
