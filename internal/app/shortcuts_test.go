package app

import (
	"testing"

	"github.com/zhubert/chatlog/internal/catalog"
	"github.com/zhubert/chatlog/internal/panel"
	"github.com/zhubert/chatlog/internal/ui/modals"
)

func TestShortcutRegistry_KeysAreUnique(t *testing.T) {
	seen := map[string]bool{helpShortcut.Key: true}
	for _, s := range ShortcutRegistry {
		if seen[s.Key] {
			t.Errorf("duplicate shortcut key %q", s.Key)
		}
		seen[s.Key] = true
		if s.Handler == nil {
			t.Errorf("shortcut %q has no handler", s.Key)
		}
	}
}

func TestShortcutRegistry_CategoriesAreOrdered(t *testing.T) {
	known := make(map[string]bool)
	for _, c := range categoryOrder {
		known[c] = true
	}
	all := append(append([]Shortcut{}, ShortcutRegistry...), DisplayOnlyShortcuts...)
	for _, s := range append(all, helpShortcut) {
		if !known[s.Category] {
			t.Errorf("shortcut %q has category %q missing from categoryOrder", displayKey(s), s.Category)
		}
	}
}

func TestExecuteShortcut_Guards(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(m *Model)
		key    string
		wantOK bool
	}{
		{
			name:   "enter on a conversation",
			key:    "enter",
			wantOK: true,
		},
		{
			name:   "enter from content focus",
			setup:  func(m *Model) { m.setFocus(FocusContent) },
			key:    "enter",
			wantOK: false,
		},
		{
			name: "favorite with an empty list",
			setup: func(m *Model) {
				m.catalog.Set(nil)
				m.rebuildSidebar()
			},
			key:    "f",
			wantOK: false,
		},
		{
			name:   "favorite from content with nothing open",
			setup:  func(m *Model) { m.setFocus(FocusContent) },
			key:    "f",
			wantOK: false,
		},
		{
			name:   "group filter from content",
			setup:  func(m *Model) { m.setFocus(FocusContent) },
			key:    "g",
			wantOK: false,
		},
		{
			name:   "search from content",
			setup:  func(m *Model) { m.setFocus(FocusContent) },
			key:    "s",
			wantOK: true,
		},
		{
			name:   "unknown key",
			key:    "z",
			wantOK: false,
		},
		{
			name:   "help",
			key:    "?",
			wantOK: true,
		},
		{
			name:   "any key while filtering titles",
			setup:  func(m *Model) { m.sidebar.EnterSearchMode() },
			key:    "i",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := testModel(t)
			if tt.setup != nil {
				tt.setup(m)
			}
			_, _, ok := m.ExecuteShortcut(tt.key)
			if ok != tt.wantOK {
				t.Errorf("ExecuteShortcut(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
		})
	}
}

func TestReportShortcuts(t *testing.T) {
	tests := []struct {
		key  string
		want panel.Kind
	}{
		{"i", panel.KindStatistics},
		{"c", panel.KindCost},
		{"a", panel.KindActivity},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := testModel(t)
			runCmd(t, m, sendKey(m, tt.key))
			if got := m.content.Content().Kind; got != tt.want {
				t.Errorf("content kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActivityShortcut_WithoutHourlyChart(t *testing.T) {
	m, _ := testModelWithSize(t, 120, 40)
	runCmd(t, m, sendKey(m, "a"))

	content := m.content.Content()
	if content.Kind != panel.KindActivity || content.Chart == nil {
		t.Fatalf("content = %+v, want the activity dashboard", content)
	}
	if out := content.Chart(80); out == "" {
		t.Error("dashboard should render without the last-24h chart")
	}
}

func TestShortcutOpenModals(t *testing.T) {
	tests := []struct {
		key   string
		check func(state modals.ModalState) bool
	}{
		{"g", func(s modals.ModalState) bool { _, ok := s.(*modals.GroupFilterState); return ok }},
		{"s", func(s modals.ModalState) bool { _, ok := s.(*modals.SearchState); return ok }},
		{"u", func(s modals.ModalState) bool { _, ok := s.(*modals.UploadPathState); return ok }},
		{",", func(s modals.ModalState) bool { _, ok := s.(*modals.SettingsState); return ok }},
		{"?", func(s modals.ModalState) bool { _, ok := s.(*modals.HelpState); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := testModel(t)
			sendKey(m, tt.key)
			if !m.modal.IsVisible() {
				t.Fatal("expected a modal")
			}
			if !tt.check(m.modal.State) {
				t.Errorf("unexpected modal %T", m.modal.State)
			}
		})
	}
}

func TestGetApplicableHelpSections(t *testing.T) {
	m, _ := testModel(t)

	hasShortcut := func(sections []modals.HelpSection, desc string) bool {
		for _, s := range sections {
			for _, sc := range s.Shortcuts {
				if sc.Desc == desc {
					return true
				}
			}
		}
		return false
	}

	sections := m.getApplicableHelpSections(ShortcutRegistry, DisplayOnlyShortcuts)
	if len(sections) == 0 || sections[0].Title != CategoryNavigation {
		t.Fatalf("first section should be navigation, got %+v", sections)
	}
	if !hasShortcut(sections, "Open conversation") {
		t.Error("sidebar focus should list Open conversation")
	}

	m.setFocus(FocusContent)
	sections = m.getApplicableHelpSections(ShortcutRegistry, DisplayOnlyShortcuts)
	for _, desc := range []string{"Open conversation", "Toggle favorite", "Filter by group"} {
		if hasShortcut(sections, desc) {
			t.Errorf("content focus without an open conversation should not list %q", desc)
		}
	}
	if !hasShortcut(sections, "Search messages") {
		t.Error("search is always applicable")
	}
}

func TestHelpShortcutTriggered(t *testing.T) {
	m, _ := testModel(t)

	_, cmd := m.Update(modals.HelpShortcutTriggeredMsg{Key: "i"})
	runCmd(t, m, cmd)
	if got := m.content.Content().Kind; got != panel.KindStatistics {
		t.Errorf("content kind = %v, want statistics", got)
	}

	_, cmd = m.Update(modals.HelpShortcutTriggeredMsg{Key: "Drop file"})
	if cmd != nil {
		t.Error("display-only shortcuts should do nothing")
	}
}

func TestNormalizeHelpDisplayKey(t *testing.T) {
	tests := []struct {
		display string
		want    string
	}{
		{"Tab", "tab"},
		{"Enter", "enter"},
		{"f", "f"},
		{"?", "?"},
		{"PgUp/PgDn", ""},
		{"Esc", ""},
		{"Drop file", ""},
	}
	for _, tt := range tests {
		if got := normalizeHelpDisplayKey(tt.display); got != tt.want {
			t.Errorf("normalizeHelpDisplayKey(%q) = %q, want %q", tt.display, got, tt.want)
		}
	}
}

func TestCopyLinkShortcut(t *testing.T) {
	m, _ := testModel(t)
	if cmd := sendKey(m, "y"); cmd == nil {
		t.Error("y on a conversation should copy its link")
	}

	m.catalog.Set(nil)
	m.rebuildSidebar()
	if _, _, ok := m.ExecuteShortcut("y"); ok {
		t.Error("y with nothing selected should not run")
	}
}

func TestFocusToggle(t *testing.T) {
	m, _ := testModel(t)

	sendKey(m, "tab")
	if m.Focus() != FocusContent || m.sidebar.IsFocused() || !m.content.IsFocused() {
		t.Error("tab should focus the content panel")
	}
	sendKey(m, "tab")
	if m.Focus() != FocusSidebar || !m.sidebar.IsFocused() {
		t.Error("second tab should focus the sidebar")
	}
}

func TestFilterLabel(t *testing.T) {
	m, _ := testModel(t)
	tests := []struct {
		filter string
		want   string
	}{
		{"", ""},
		{catalog.FavoritesFilter, "★ Favorites"},
		{"Today", "Today"},
	}
	for _, tt := range tests {
		m.groupFilter = tt.filter
		if got := m.filterLabel(); got != tt.want {
			t.Errorf("filterLabel() with %q = %q, want %q", tt.filter, got, tt.want)
		}
	}
}
