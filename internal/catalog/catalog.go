// Package catalog holds the client-side cache of the conversation list and
// derives the filtered, grouped rows shown in the sidebar.
package catalog

import (
	"context"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatlog/internal/archive"
	pErrors "github.com/zhubert/chatlog/internal/errors"
	"github.com/zhubert/chatlog/internal/logger"
)

// FavoritesFilter is the group filter value that selects favorites instead
// of a group.
const FavoritesFilter = "*"

// Source fetches the conversation list.
type Source interface {
	Conversations(ctx context.Context) ([]archive.Conversation, error)
}

// LoadedMsg carries the result of FetchCmd.
type LoadedMsg struct {
	Conversations []archive.Conversation
	Err           error
}

// FetchCmd fetches the full list from src.
func FetchCmd(src Source) tea.Cmd {
	return func() tea.Msg {
		convs, err := src.Conversations(context.Background())
		return LoadedMsg{Conversations: convs, Err: err}
	}
}

// RowKind distinguishes group headers from conversation rows.
type RowKind int

const (
	RowHeader RowKind = iota
	RowEntry
)

// Row is one line of a derived view.
type Row struct {
	Kind         RowKind
	Label        string               // header text, set for RowHeader
	Conversation archive.Conversation // set for RowEntry
}

// Catalog is the authoritative client cache of conversations, in backend
// order with one entry per id.
type Catalog struct {
	entries []archive.Conversation
	index   map[string]int
	groups  []string
	loaded  bool
	log     *slog.Logger
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{
		index: make(map[string]int),
		log:   logger.WithComponent("catalog"),
	}
}

// HandleLoaded stores the fetched list. A failed fetch leaves an empty
// catalog; the failure is logged only.
func (c *Catalog) HandleLoaded(msg LoadedMsg) {
	if msg.Err != nil {
		c.log.Error("failed to load conversations", "error", msg.Err)
		c.Set(nil)
		return
	}
	c.Set(msg.Conversations)
}

// Set replaces the cache. Duplicate ids keep their first occurrence.
func (c *Catalog) Set(convs []archive.Conversation) {
	c.entries = make([]archive.Conversation, 0, len(convs))
	c.index = make(map[string]int, len(convs))
	c.groups = nil
	c.loaded = true

	seenGroups := make(map[string]bool)
	for _, conv := range convs {
		if _, dup := c.index[conv.ID]; dup {
			c.log.Warn("duplicate conversation id ignored", "id", conv.ID)
			continue
		}
		c.index[conv.ID] = len(c.entries)
		c.entries = append(c.entries, conv)

		if g := conv.GroupName(); g != "" && !seenGroups[g] {
			seenGroups[g] = true
			c.groups = append(c.groups, g)
		}
	}
	c.log.Info("catalog loaded", "count", len(c.entries), "groups", len(c.groups))
}

// Reset empties the catalog ahead of a full reload.
func (c *Catalog) Reset() {
	c.entries = nil
	c.index = make(map[string]int)
	c.groups = nil
	c.loaded = false
}

// Loaded reports whether a fetch has completed since the last Reset.
func (c *Catalog) Loaded() bool {
	return c.loaded
}

// Len returns the number of cached conversations.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Groups returns the distinct non-empty groups in order of first occurrence.
func (c *Catalog) Groups() []string {
	out := make([]string, len(c.groups))
	copy(out, c.groups)
	return out
}

// Get returns the cached conversation with the given id.
func (c *Catalog) Get(id string) (archive.Conversation, error) {
	i, ok := c.index[id]
	if !ok {
		return archive.Conversation{}, pErrors.ConversationNotFound(id)
	}
	return c.entries[i], nil
}

// All returns a copy of the cache in backend order.
func (c *Catalog) All() []archive.Conversation {
	out := make([]archive.Conversation, len(c.entries))
	copy(out, c.entries)
	return out
}

// UpdateFavorite sets the favorite flag of one entry. It reports false when
// the id is not cached.
func (c *Catalog) UpdateFavorite(id string, value bool) bool {
	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.entries[i].IsFavorite = value
	return true
}

// DeriveView filters the cache and inserts a header wherever the group
// changes from the previous row that passed the filter.
func (c *Catalog) DeriveView(groupFilter, textFilter string) []Row {
	needle := strings.ToLower(textFilter)

	var rows []Row
	first := true
	prevGroup := ""
	for _, conv := range c.entries {
		if !matchesGroup(conv, groupFilter) || !matchesText(conv, needle) {
			continue
		}
		g := conv.GroupName()
		if first || g != prevGroup {
			rows = append(rows, Row{Kind: RowHeader, Label: conv.GroupLabel()})
			first = false
			prevGroup = g
		}
		rows = append(rows, Row{Kind: RowEntry, Conversation: conv})
	}
	return rows
}

func matchesGroup(conv archive.Conversation, groupFilter string) bool {
	if groupFilter == "" {
		return true
	}
	if groupFilter == FavoritesFilter {
		return conv.IsFavorite
	}
	g := conv.GroupName()
	return g != "" && g == groupFilter
}

func matchesText(conv archive.Conversation, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(conv.DisplayTitle()), needle)
}
