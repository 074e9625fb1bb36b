package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatlog/internal/clipboard"
	"github.com/zhubert/chatlog/internal/config"
	"github.com/zhubert/chatlog/internal/keys"
	"github.com/zhubert/chatlog/internal/ui"
	"github.com/zhubert/chatlog/internal/ui/modals"
)

// Shortcut represents a keyboard shortcut with its metadata and handler.
// This is the single source of truth for all shortcuts in the application.
type Shortcut struct {
	Key                  string                              // The key binding (e.g., "f", "tab")
	DisplayKey           string                              // Display name in help (e.g., "Tab"); defaults to Key
	Description          string                              // Human-readable description
	Category             string                              // Section for help modal grouping
	RequiresConversation bool                                // Must have a conversation to act on
	RequiresSidebar      bool                                // Must not be in content focus
	Handler              func(m *Model) (tea.Model, tea.Cmd) // Action to perform
	Condition            func(m *Model) bool                 // Optional extra condition
}

// Categories for organizing shortcuts in the help modal
const (
	CategoryNavigation    = "Navigation"
	CategoryConversations = "Conversations"
	CategoryReports       = "Search & Reports"
	CategoryImport        = "Import"
	CategoryGeneral       = "General"
)

// categoryOrder defines the display order of categories in the help modal
var categoryOrder = []string{
	CategoryNavigation,
	CategoryConversations,
	CategoryReports,
	CategoryImport,
	CategoryGeneral,
}

// ShortcutRegistry is the central registry of all keyboard shortcuts.
// Shortcuts listed here appear in the help modal and can be triggered from
// both direct key presses and the help modal.
var ShortcutRegistry = []Shortcut{
	// Navigation
	{
		Key:         "tab",
		DisplayKey:  "Tab",
		Description: "Switch between list and content",
		Category:    CategoryNavigation,
		Handler:     shortcutToggleFocus,
	},
	{
		Key:             "/",
		Description:     "Filter titles",
		Category:        CategoryNavigation,
		RequiresSidebar: true,
		Handler:         shortcutFilterTitles,
		Condition:       func(m *Model) bool { return !m.sidebar.IsSearchMode() },
	},

	// Conversations
	{
		Key:                  "enter",
		DisplayKey:           "Enter",
		Description:          "Open conversation",
		Category:             CategoryConversations,
		RequiresSidebar:      true,
		RequiresConversation: true,
		Handler:              shortcutOpen,
	},
	{
		Key:                  "f",
		Description:          "Toggle favorite",
		Category:             CategoryConversations,
		RequiresConversation: true,
		Handler:              shortcutToggleFavorite,
	},
	{
		Key:                  "y",
		Description:          "Copy source link",
		Category:             CategoryConversations,
		RequiresConversation: true,
		Handler:              shortcutCopyLink,
	},
	{
		Key:             "g",
		Description:     "Filter by group",
		Category:        CategoryConversations,
		RequiresSidebar: true,
		Handler:         shortcutGroupFilter,
	},

	// Search & Reports
	{
		Key:         "s",
		Description: "Search messages",
		Category:    CategoryReports,
		Handler:     shortcutSearch,
	},
	{
		Key:         "i",
		Description: "Statistics",
		Category:    CategoryReports,
		Handler:     shortcutStatistics,
	},
	{
		Key:         "c",
		Description: "AI cost report",
		Category:    CategoryReports,
		Handler:     shortcutCostReport,
	},
	{
		Key:         "a",
		Description: "Activity dashboard",
		Category:    CategoryReports,
		Handler:     shortcutActivity,
	},

	// Import
	{
		Key:         "u",
		Description: "Import archive",
		Category:    CategoryImport,
		Handler:     shortcutUpload,
	},
	{
		Key:         "r",
		Description: "Reload everything",
		Category:    CategoryImport,
		Handler:     shortcutReload,
	},

	// General
	// Note: "?" (help) is handled specially in ExecuteShortcut to avoid init cycle
	{
		Key:         ",",
		Description: "Settings",
		Category:    CategoryGeneral,
		Handler:     shortcutSettings,
	},
	{
		Key:         "q",
		Description: "Quit",
		Category:    CategoryGeneral,
		Handler:     shortcutQuit,
	},
}

// helpShortcut is defined separately to avoid initialization cycle.
// It references ShortcutRegistry, so it can't be in the registry itself.
var helpShortcut = Shortcut{
	Key:         "?",
	Description: "Show this help",
	Category:    CategoryGeneral,
}

// DisplayOnlyShortcuts are shown in help but not executable from the help modal.
var DisplayOnlyShortcuts = []Shortcut{
	{DisplayKey: "↑/↓ or j/k", Description: "Move through the list", Category: CategoryNavigation},
	{DisplayKey: "PgUp/PgDn", Description: "Scroll the list or the content", Category: CategoryNavigation},
	{DisplayKey: "Esc", Description: "Clear the title filter", Category: CategoryNavigation},
	{DisplayKey: "Drop file", Description: "Import a dropped .zip archive", Category: CategoryImport},
}

// isShortcutApplicable checks if a shortcut is applicable given the current model state.
// This is used to filter which shortcuts appear in the help modal.
func (m *Model) isShortcutApplicable(s Shortcut) bool {
	if s.RequiresSidebar && m.focus != FocusSidebar {
		return false
	}
	if s.RequiresConversation {
		if _, ok := m.targetConversation(); !ok {
			return false
		}
	}
	if s.Condition != nil && !s.Condition(m) {
		return false
	}
	return true
}

// ExecuteShortcut finds and executes a shortcut by key.
// Returns (model, cmd, true) if the shortcut was found and executed.
// Returns (model, nil, false) if the shortcut was not found or guards failed.
func (m *Model) ExecuteShortcut(key string) (tea.Model, tea.Cmd, bool) {
	// Keys typed into the title filter are text, not shortcuts
	if m.sidebar.IsSearchMode() {
		return m, nil, false
	}

	// Handle help shortcut specially (defined outside registry to avoid init cycle)
	if key == helpShortcut.Key {
		result, cmd := shortcutHelp(m)
		return result, cmd, true
	}

	for _, s := range ShortcutRegistry {
		if s.Key != key {
			continue
		}
		if !m.isShortcutApplicable(s) {
			m.log.Debug("shortcut guard failed", "key", key, "focus", m.focus.String())
			return m, nil, false
		}
		result, cmd := s.Handler(m)
		return result, cmd, true
	}
	return m, nil, false
}

// getApplicableHelpSections generates help modal sections from the
// shortcuts that are applicable in the current state.
func (m *Model) getApplicableHelpSections(registry []Shortcut, displayOnly []Shortcut) []modals.HelpSection {
	categories := make(map[string][]modals.HelpShortcut)

	for _, s := range registry {
		if !m.isShortcutApplicable(s) {
			continue
		}
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey(s),
			Desc: s.Description,
		})
	}
	for _, s := range displayOnly {
		categories[s.Category] = append(categories[s.Category], modals.HelpShortcut{
			Key:  displayKey(s),
			Desc: s.Description,
		})
	}

	var sections []modals.HelpSection
	for _, category := range categoryOrder {
		if shortcuts := categories[category]; len(shortcuts) > 0 {
			sections = append(sections, modals.HelpSection{Title: category, Shortcuts: shortcuts})
		}
	}
	return sections
}

func displayKey(s Shortcut) string {
	if s.DisplayKey != "" {
		return s.DisplayKey
	}
	return s.Key
}

// handleHelpShortcutTrigger runs a shortcut picked in the help modal
func (m *Model) handleHelpShortcutTrigger(key string) (tea.Model, tea.Cmd) {
	normalized := normalizeHelpDisplayKey(key)
	if normalized == "" {
		return m, nil
	}
	result, cmd, _ := m.ExecuteShortcut(normalized)
	return result, cmd
}

// normalizeHelpDisplayKey converts help modal display keys to actual key values.
// Returns empty string for display-only shortcuts that shouldn't be executed.
func normalizeHelpDisplayKey(displayKey string) string {
	switch displayKey {
	case "↑/↓ or j/k", "PgUp/PgDn", "Esc", "Drop file":
		return ""
	case "Tab":
		return keys.Tab
	case "Enter":
		return keys.Enter
	default:
		return strings.ToLower(displayKey)
	}
}

func shortcutToggleFocus(m *Model) (tea.Model, tea.Cmd) {
	m.toggleFocus()
	return m, nil
}

func shortcutFilterTitles(m *Model) (tea.Model, tea.Cmd) {
	return m, m.sidebar.EnterSearchMode()
}

func shortcutOpen(m *Model) (tea.Model, tea.Cmd) {
	h, ok := m.sidebar.SelectedHandle()
	if !ok {
		return m, nil
	}
	conv, _ := m.sidebar.SelectedConversation()
	m.selection.Select(h)
	m.log.Debug("opening conversation", "id", conv.ID)
	return m, m.loader.ShowMessages(conv.ID, conv.DisplayTitle())
}

func shortcutToggleFavorite(m *Model) (tea.Model, tea.Cmd) {
	conv, _ := m.targetConversation()
	return m, m.favorites.Toggle(conv.ID)
}

func shortcutCopyLink(m *Model) (tea.Model, tea.Cmd) {
	conv, _ := m.targetConversation()
	link := m.config.SourceURL(conv.ID)
	return m, func() tea.Msg {
		return linkCopiedMsg{Link: link, Err: clipboard.WriteText(link)}
	}
}

func shortcutGroupFilter(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewGroupFilterState(m.catalog.Groups(), m.groupFilter))
	return m, nil
}

func shortcutSearch(m *Model) (tea.Model, tea.Cmd) {
	m.modal.Show(modals.NewSearchState(m.lastQuery))
	return m, nil
}

func shortcutStatistics(m *Model) (tea.Model, tea.Cmd) {
	return m, m.loader.ShowStatistics()
}

func shortcutCostReport(m *Model) (tea.Model, tea.Cmd) {
	return m, m.loader.ShowCostReport()
}

func shortcutActivity(m *Model) (tea.Model, tea.Cmd) {
	return m, m.loader.ShowActivity()
}

func shortcutUpload(m *Model) (tea.Model, tea.Cmd) {
	state := modals.NewUploadPathState()
	m.modal.Show(state)
	return m, state.Input.Focus()
}

func shortcutReload(m *Model) (tea.Model, tea.Cmd) {
	return m, m.reload()
}

func shortcutSettings(m *Model) (tea.Model, tea.Cmd) {
	themes := ui.ThemeNames()
	names := make([]string, len(themes))
	displayNames := make([]string, len(themes))
	for i, t := range themes {
		names[i] = string(t)
		displayNames[i] = ui.GetTheme(t).Name
	}
	m.modal.Show(modals.NewSettingsState(names, displayNames, config.SupportedLocales, modals.SettingsValues{
		Theme:                string(ui.CurrentThemeName()),
		Locale:               m.config.GetLocale(),
		ServerURL:            m.config.GetServerURL(),
		NotificationsEnabled: m.config.GetNotificationsEnabled(),
	}))
	return m, nil
}

func shortcutHelp(m *Model) (tea.Model, tea.Cmd) {
	// Include help shortcut in the registry for display purposes
	allShortcuts := append(ShortcutRegistry[:len(ShortcutRegistry):len(ShortcutRegistry)], helpShortcut)
	sections := m.getApplicableHelpSections(allShortcuts, DisplayOnlyShortcuts)
	m.modal.Show(modals.NewHelpStateFromSections(sections))
	return m, nil
}

func shortcutQuit(m *Model) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}
