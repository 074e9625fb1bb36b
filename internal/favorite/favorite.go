// Package favorite coordinates favorite toggles with the backend. Toggles
// are confirmed-only: nothing changes locally until the server answers, and
// the server's value is applied as-is.
package favorite

import (
	"context"
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/catalog"
	"github.com/zhubert/chatlog/internal/logger"
)

// Toggler flips a favorite flag on the backend.
type Toggler interface {
	ToggleFavorite(ctx context.Context, conversationID string) (archive.FavoriteState, error)
}

// Marker shows the favorite marker on the row of one conversation. It
// reports false when no row for id is on screen.
type Marker interface {
	SetFavoriteMarker(id string, on bool) bool
}

// ToggledMsg carries the server's answer to a toggle.
type ToggledMsg struct {
	ID    string
	State archive.FavoriteState
	Err   error
}

// Coordinator applies confirmed favorite states to the catalog and the view.
type Coordinator struct {
	toggler Toggler
	catalog *catalog.Catalog
	marker  Marker
	log     *slog.Logger
}

// New creates a coordinator.
func New(toggler Toggler, cat *catalog.Catalog, marker Marker) *Coordinator {
	return &Coordinator{
		toggler: toggler,
		catalog: cat,
		marker:  marker,
		log:     logger.WithComponent("favorite"),
	}
}

// Toggle asks the backend to flip the flag of id. Overlapping toggles of
// the same id are not serialized; whichever answer arrives last is shown.
func (c *Coordinator) Toggle(id string) tea.Cmd {
	toggler := c.toggler
	return func() tea.Msg {
		state, err := toggler.ToggleFavorite(context.Background(), id)
		return ToggledMsg{ID: id, State: state, Err: err}
	}
}

// HandleToggled applies a toggle result. The returned error is for the
// status line; state is left untouched when it is non-nil.
func (c *Coordinator) HandleToggled(msg ToggledMsg) error {
	if msg.Err != nil {
		c.log.Error("toggle favorite failed", "id", msg.ID, "error", msg.Err)
		return msg.Err
	}
	if msg.State.ConversationID != "" && msg.State.ConversationID != msg.ID {
		c.log.Warn("toggle answered for a different id", "requested", msg.ID, "answered", msg.State.ConversationID)
	}

	// Catalog first so any rebuild triggered by the marker sees the new value
	if !c.catalog.UpdateFavorite(msg.ID, msg.State.IsFavorite) {
		c.log.Warn("toggled conversation not in catalog", "id", msg.ID)
		return nil
	}
	if !c.marker.SetFavoriteMarker(msg.ID, msg.State.IsFavorite) {
		c.log.Debug("toggled conversation not on screen", "id", msg.ID)
	}
	c.log.Info("favorite updated", "id", msg.ID, "is_favorite", msg.State.IsFavorite)
	return nil
}
