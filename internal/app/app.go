package app

import (
	"log/slog"
	"net/url"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/catalog"
	"github.com/zhubert/chatlog/internal/config"
	"github.com/zhubert/chatlog/internal/favorite"
	"github.com/zhubert/chatlog/internal/logger"
	"github.com/zhubert/chatlog/internal/panel"
	"github.com/zhubert/chatlog/internal/selection"
	"github.com/zhubert/chatlog/internal/ui"
	"github.com/zhubert/chatlog/internal/upload"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusContent
)

func (f Focus) String() string {
	if f == FocusContent {
		return "content"
	}
	return "sidebar"
}

// Backend is everything the application reads from and writes to the
// archive server. *archive.Client implements it.
type Backend interface {
	catalog.Source
	panel.Source
	favorite.Toggler
	upload.Uploader
}

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	backend Backend
	connect func(serverURL string) Backend

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	content *ui.ContentPanel
	modal   *ui.Modal

	catalog   *catalog.Catalog
	selection *selection.Controller
	favorites *favorite.Coordinator
	loader    *panel.Loader
	upload    *upload.Machine

	width  int
	height int
	focus  Focus

	groupFilter string // empty, catalog.FavoritesFilter or a group name
	lastQuery   string // prefilled in the next search modal

	log *slog.Logger
}

// New creates the application model talking to backend.
func New(cfg *config.Config, backend Backend) *Model {
	// Load saved theme from config, or use default
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	m := &Model{
		config:  cfg,
		header:  ui.NewHeader(),
		footer:  ui.NewFooter(),
		sidebar: ui.NewSidebar(),
		content: ui.NewContentPanel(),
		modal:   ui.NewModal(),
		catalog: catalog.New(),
		focus:   FocusSidebar,
		log:     logger.WithComponent("app"),
		connect: func(serverURL string) Backend {
			return archive.NewClient(serverURL, cfg.GetRequestTimeout())
		},
	}
	m.selection = selection.New(m.sidebar)
	m.upload = upload.New(backend, cfg.GetLocale())
	m.attach(backend)

	m.sidebar.SetFocused(true)
	return m
}

// attach wires the components that talk to the backend
func (m *Model) attach(backend Backend) {
	m.backend = backend
	m.favorites = favorite.New(backend, m.catalog, m.sidebar)
	m.loader = panel.New(backend, m.content, m.selection, m.config)
	m.upload.SetUploader(backend)
	m.header.SetServer(serverLabel(m.config.GetServerURL()))
}

// serverLabel shortens a backend URL to its host for the header
func serverLabel(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}

// Init loads the catalog and shows the activity dashboard, like a fresh page
func (m *Model) Init() tea.Cmd {
	return m.loadAll()
}

// loadAll fetches the catalog and the startup panel
func (m *Model) loadAll() tea.Cmd {
	return tea.Batch(catalog.FetchCmd(m.backend), m.loader.ShowActivity())
}

// reload drops all client state and loads it again from the backend. The
// status line is kept so the import result stays visible.
func (m *Model) reload() tea.Cmd {
	m.log.Info("reloading client state")
	m.catalog.Reset()
	m.groupFilter = ""
	m.lastQuery = ""
	m.sidebar.ExitSearchMode()
	m.rebuildSidebar()
	m.content.Show(panel.Content{})
	m.modal.Hide()
	return m.loadAll()
}

// rebuildSidebar derives the list from the catalog and the filters. Every
// rebuild starts a new view, so the selection forgets its handle.
func (m *Model) rebuildSidebar() {
	rows := m.catalog.DeriveView(m.groupFilter, m.sidebar.GetSearchQuery())
	m.sidebar.SetRows(rows)
	m.selection.Invalidate()
	m.header.SetFilter(m.filterLabel())
}

// filterLabel is the header text of the group filter
func (m *Model) filterLabel() string {
	switch m.groupFilter {
	case "":
		return ""
	case catalog.FavoritesFilter:
		return "★ Favorites"
	default:
		return m.groupFilter
	}
}

// setFocus moves keyboard focus between the sidebar and the content panel
func (m *Model) setFocus(f Focus) {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.content.SetFocused(f == FocusContent)
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSidebar {
		m.setFocus(FocusContent)
	} else {
		m.setFocus(FocusSidebar)
	}
}

// targetConversation is the conversation a key acts on: the sidebar cursor
// when the list is focused, the open transcript otherwise.
func (m *Model) targetConversation() (archive.Conversation, bool) {
	if m.focus == FocusSidebar {
		return m.sidebar.SelectedConversation()
	}
	if h, ok := m.selection.Current(); ok {
		if conv, err := m.catalog.Get(h.ConversationID); err == nil {
			return conv, true
		}
	}
	return archive.Conversation{}, false
}

// Focus returns the focused panel
func (m *Model) Focus() Focus {
	return m.focus
}

// GroupFilter returns the active group filter
func (m *Model) GroupFilter() string {
	return m.groupFilter
}
