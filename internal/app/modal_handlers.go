package app

import (
	tea "charm.land/bubbletea/v2"

	pErrors "github.com/zhubert/chatlog/internal/errors"
	"github.com/zhubert/chatlog/internal/keys"
	"github.com/zhubert/chatlog/internal/ui"
	"github.com/zhubert/chatlog/internal/ui/modals"
	"github.com/zhubert/chatlog/internal/upload"
)

// handleModalKey routes modal key events to the appropriate handler based on modal state type.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch s := m.modal.State.(type) {
	case *modals.GroupFilterState:
		return m.handleGroupFilterModal(key, msg, s)
	case *modals.SearchState:
		return m.handleSearchModal(key, msg, s)
	case *modals.UploadPathState:
		return m.handleUploadPathModal(key, msg, s)
	case *modals.SettingsState:
		return m.handleSettingsModal(key, msg, s)
	case *modals.HelpState:
		return m.handleHelpModal(key, msg, s)
	}
	return m.forwardToModal(msg)
}

func (m *Model) forwardToModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	modal, cmd := m.modal.Update(msg)
	m.modal = modal
	return m, cmd
}

// handleGroupFilterModal applies the picked group or favorites filter
func (m *Model) handleGroupFilterModal(key string, msg tea.KeyPressMsg, state *modals.GroupFilterState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if state.Changed() {
			m.groupFilter = state.Filter()
			m.log.Info("group filter changed", "filter", m.groupFilter)
			m.rebuildSidebar()
		}
		m.modal.Hide()
		return m, nil
	}
	return m.forwardToModal(msg)
}

// handleSearchModal runs a full-text search once the query is long enough
func (m *Model) handleSearchModal(key string, msg tea.KeyPressMsg, state *modals.SearchState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		if err := state.Validate(); err != nil {
			m.modal.SetError(err.Error())
			return m, nil
		}
		m.lastQuery = state.Query()
		m.modal.Hide()
		return m, m.loader.ShowSearch(m.lastQuery)
	}
	return m.forwardToModal(msg)
}

// handleUploadPathModal starts an import of the entered archive. While the
// completion list is open, Enter and Esc belong to it.
func (m *Model) handleUploadPathModal(key string, msg tea.KeyPressMsg, state *modals.UploadPathState) (tea.Model, tea.Cmd) {
	if state.ShowingOptions() {
		return m.forwardToModal(msg)
	}
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		path := state.GetPath()
		if path == "" {
			m.modal.SetError("enter a path to a .zip archive")
			return m, nil
		}
		m.modal.Hide()
		return m, m.upload.SelectFile(path)
	}
	return m.forwardToModal(msg)
}

// handleSettingsModal saves theme, language, notification and server
// settings. A new server replaces the backend and reloads everything.
func (m *Model) handleSettingsModal(key string, msg tea.KeyPressMsg, state *modals.SettingsState) (tea.Model, tea.Cmd) {
	switch key {
	case keys.Escape:
		m.modal.Hide()
		return m, nil
	case keys.Enter:
	default:
		return m.forwardToModal(msg)
	}

	values := state.Values()
	var cmds []tea.Cmd

	if state.ServerChanged() {
		if err := m.config.SetServerURL(values.ServerURL); err != nil {
			m.modal.SetError(pErrors.Detail(err))
			return m, nil
		}
	}

	if state.ThemeChanged() {
		ui.SetThemeByName(values.Theme)
		m.config.SetTheme(values.Theme)
		m.content.Refresh()
	}

	if values.Locale != m.config.GetLocale() {
		if err := m.config.SetLocale(values.Locale); err != nil {
			m.modal.SetError(pErrors.Detail(err))
			return m, nil
		}
		m.upload.SetLocale(values.Locale)
	}

	m.config.SetNotificationsEnabled(values.NotificationsEnabled)

	if err := m.config.Save(); err != nil {
		m.log.Error("failed to save settings", "error", err)
		cmds = append(cmds, m.upload.SetStatus("Settings not saved: "+pErrors.Detail(err), upload.KindError))
	}

	m.modal.Hide()

	if state.ServerChanged() {
		m.log.Info("switching server", "url", values.ServerURL)
		m.attach(m.connect(m.config.GetServerURL()))
		cmds = append(cmds, m.reload())
	}
	return m, tea.Batch(cmds...)
}

// handleHelpModal handles key events for the Help modal.
func (m *Model) handleHelpModal(key string, msg tea.KeyPressMsg, state *modals.HelpState) (tea.Model, tea.Cmd) {
	// While filtering, forward all keys to the list (Esc cancels filter, Enter applies)
	if state.IsFiltering() {
		return m.forwardToModal(msg)
	}

	switch key {
	case keys.Escape, "?", "q":
		m.modal.Hide()
		return m, nil
	case keys.Enter:
		shortcut := state.GetSelectedShortcut()
		if shortcut != nil {
			m.modal.Hide()
			return m, func() tea.Msg {
				return modals.HelpShortcutTriggeredMsg{Key: shortcut.Key}
			}
		}
		return m, nil
	}
	return m.forwardToModal(msg)
}
