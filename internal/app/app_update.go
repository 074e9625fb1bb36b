package app

import (
	"net/url"
	"os"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatlog/internal/catalog"
	pErrors "github.com/zhubert/chatlog/internal/errors"
	"github.com/zhubert/chatlog/internal/favorite"
	"github.com/zhubert/chatlog/internal/keys"
	"github.com/zhubert/chatlog/internal/notification"
	"github.com/zhubert/chatlog/internal/panel"
	"github.com/zhubert/chatlog/internal/ui/modals"
	"github.com/zhubert/chatlog/internal/upload"
)

// linkCopiedMsg reports the result of copying a source link
type linkCopiedMsg struct {
	Link string
	Err  error
}

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case tea.PasteStartMsg:
		// Terminals deliver a dropped file as a bracketed paste of its path
		if !m.modal.IsVisible() && !m.sidebar.IsSearchMode() {
			m.upload.DragEnter()
		}
		return m, nil

	case tea.PasteMsg:
		return m.handlePaste(msg)

	case tea.PasteEndMsg, tea.BlurMsg:
		m.upload.DragLeave(true)
		return m, nil

	case tea.MouseWheelMsg:
		return m.routeMouseWheel(msg)

	case catalog.LoadedMsg:
		m.catalog.HandleLoaded(msg)
		m.rebuildSidebar()
		return m, nil

	case panel.LoadedMsg:
		m.loader.HandleLoaded(msg)
		return m, nil

	case favorite.ToggledMsg:
		if err := m.favorites.HandleToggled(msg); err != nil {
			return m, m.showError("Favorite failed: " + pErrors.Detail(err))
		}
		return m, nil

	case upload.DoneMsg:
		cmd := m.upload.HandleDone(msg)
		if msg.Err == nil {
			return m, tea.Batch(cmd, m.notifyImported(msg))
		}
		return m, cmd

	case upload.ClearStatusMsg:
		m.upload.HandleClear(msg)
		return m, nil

	case upload.ReloadMsg:
		return m, m.reload()

	case linkCopiedMsg:
		if msg.Err != nil {
			return m, m.showError("Copy failed: " + msg.Err.Error())
		}
		return m, m.upload.SetStatus("Copied "+msg.Link, upload.KindInfo)

	case modals.HelpShortcutTriggeredMsg:
		return m.handleHelpShortcutTrigger(msg.Key)
	}

	// Cursor blinks and other component messages
	if m.modal.IsVisible() {
		return m.forwardToModal(msg)
	}
	if m.sidebar.IsSearchMode() {
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		return m, cmd
	}
	return m, nil
}

// handleKeyPress handles all keyboard input in priority order: quit, the
// open modal, the drop overlay, the title filter, shortcuts, then the
// focused panel.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		return m, tea.Quit
	}

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	if m.upload.OverlayVisible() && key == keys.Escape {
		m.upload.DragLeave(true)
		return m, nil
	}

	if m.sidebar.IsSearchMode() {
		before := m.sidebar.GetSearchQuery()
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		if m.sidebar.GetSearchQuery() != before {
			m.rebuildSidebar()
		}
		return m, cmd
	}

	if result, cmd, ok := m.ExecuteShortcut(key); ok {
		return result, cmd
	}

	// Esc with a filter still applied clears it
	if key == keys.Escape && m.focus == FocusSidebar && m.sidebar.GetSearchQuery() != "" {
		m.sidebar.ExitSearchMode()
		m.rebuildSidebar()
		return m, nil
	}

	if m.focus == FocusSidebar {
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		return m, cmd
	}
	content, cmd := m.content.Update(msg)
	m.content = content
	return m, cmd
}

// handlePaste treats a pasted file path as a dropped file. Text pasted
// into a modal or the title filter is typed there instead.
func (m *Model) handlePaste(msg tea.PasteMsg) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		return m.forwardToModal(msg)
	}
	if m.sidebar.IsSearchMode() {
		before := m.sidebar.GetSearchQuery()
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		if m.sidebar.GetSearchQuery() != before {
			m.rebuildSidebar()
		}
		return m, cmd
	}

	paths := droppedPaths(msg.Content)
	if len(paths) > 0 && !isRegularFile(paths[0]) {
		m.log.Debug("paste is not a file path, ignoring", "bytes", len(msg.Content))
		m.upload.DragLeave(true)
		return m, nil
	}
	m.log.Info("file dropped", "count", len(paths))
	return m, m.upload.Drop(paths)
}

// droppedPaths splits the text a terminal pastes for dropped files into
// paths. Terminals quote or backslash-escape paths with spaces, and some
// paste file:// URLs.
func droppedPaths(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if isRegularFile(content) {
		return []string{content}
	}

	var (
		paths   []string
		current strings.Builder
		quote   rune
		escaped bool
		inToken bool
	)
	flush := func() {
		if inToken {
			paths = append(paths, fileURLPath(current.String()))
		}
		current.Reset()
		inToken = false
	}

	for _, r := range content {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	flush()
	return paths
}

// fileURLPath turns a file:// URL into a local path
func fileURLPath(s string) string {
	if !strings.HasPrefix(s, "file://") {
		return s
	}
	u, err := url.Parse(s)
	if err != nil || u.Path == "" {
		return s
	}
	return u.Path
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// routeMouseWheel scrolls the panel under the pointer
func (m *Model) routeMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.modal.IsVisible() {
		return m.forwardToModal(msg)
	}
	if msg.X <= m.sidebar.Width() {
		return m, nil
	}
	content, cmd := m.content.Update(msg)
	m.content = content
	return m, cmd
}

// notifyImported sends a desktop notification for a finished import when
// the user asked for them
func (m *Model) notifyImported(msg upload.DoneMsg) tea.Cmd {
	if !m.config.GetNotificationsEnabled() {
		return nil
	}
	detail := ""
	if msg.Result != nil {
		if msg.Result.Count > 0 {
			detail = m.upload.ImportedText(msg.Result.Count)
		} else {
			detail = msg.Result.Detail
		}
	}
	return func() tea.Msg {
		// Failures are logged by the notification package
		_ = notification.ImportCompleted(detail)
		return nil
	}
}

// showError puts an error on the shared status line
func (m *Model) showError(message string) tea.Cmd {
	return m.upload.SetStatus(message, upload.KindError)
}
