package favorite

import (
	"context"
	"errors"
	"testing"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/catalog"
)

type fakeToggler struct {
	state archive.FavoriteState
	err   error
	calls []string
}

func (f *fakeToggler) ToggleFavorite(_ context.Context, id string) (archive.FavoriteState, error) {
	f.calls = append(f.calls, id)
	return f.state, f.err
}

type markerCall struct {
	id string
	on bool
}

type fakeMarker struct {
	rows  map[string]bool
	calls []markerCall
	// sawCatalog records the catalog value at the time of each marker call
	cat        *catalog.Catalog
	sawCatalog []bool
}

func (m *fakeMarker) SetFavoriteMarker(id string, on bool) bool {
	m.calls = append(m.calls, markerCall{id, on})
	if m.cat != nil {
		c, _ := m.cat.Get(id)
		m.sawCatalog = append(m.sawCatalog, c.IsFavorite)
	}
	if _, ok := m.rows[id]; !ok {
		return false
	}
	m.rows[id] = on
	return true
}

func setup(t *testing.T, toggler *fakeToggler) (*Coordinator, *catalog.Catalog, *fakeMarker) {
	t.Helper()
	cat := catalog.New()
	cat.Set([]archive.Conversation{{ID: "a"}, {ID: "b"}})
	marker := &fakeMarker{rows: map[string]bool{"a": false, "b": false}, cat: cat}
	return New(toggler, cat, marker), cat, marker
}

func TestToggle_AppliesServerValue(t *testing.T) {
	toggler := &fakeToggler{state: archive.FavoriteState{ConversationID: "a", IsFavorite: true}}
	coord, cat, marker := setup(t, toggler)

	msg := coord.Toggle("a")().(ToggledMsg)
	if err := coord.HandleToggled(msg); err != nil {
		t.Fatalf("HandleToggled: %v", err)
	}

	got, _ := cat.Get("a")
	if !got.IsFavorite {
		t.Error("catalog should hold the server value")
	}
	if len(marker.calls) != 1 || marker.calls[0] != (markerCall{"a", true}) {
		t.Errorf("marker calls = %v, want exactly one for a", marker.calls)
	}
	if !marker.sawCatalog[0] {
		t.Error("catalog must be updated before the marker")
	}
	if marker.rows["b"] {
		t.Error("other rows must not change")
	}
}

func TestToggle_ServerValueIsAuthoritative(t *testing.T) {
	// Server says "not favorite" even though the local entry was not a
	// favorite either; the client must not flip on its own.
	toggler := &fakeToggler{state: archive.FavoriteState{ConversationID: "a", IsFavorite: false}}
	coord, cat, _ := setup(t, toggler)

	coord.HandleToggled(coord.Toggle("a")().(ToggledMsg))

	got, _ := cat.Get("a")
	if got.IsFavorite {
		t.Error("client flipped locally instead of applying the server value")
	}
}

func TestToggle_Failure(t *testing.T) {
	toggler := &fakeToggler{err: errors.New("503")}
	coord, cat, marker := setup(t, toggler)

	err := coord.HandleToggled(coord.Toggle("a")().(ToggledMsg))
	if err == nil {
		t.Fatal("failure should be returned for the status line")
	}
	got, _ := cat.Get("a")
	if got.IsFavorite {
		t.Error("catalog changed on failure")
	}
	if len(marker.calls) != 0 {
		t.Error("marker changed on failure")
	}
}

func TestToggle_UnknownID(t *testing.T) {
	toggler := &fakeToggler{state: archive.FavoriteState{ConversationID: "zzz", IsFavorite: true}}
	coord, cat, marker := setup(t, toggler)

	if err := coord.HandleToggled(coord.Toggle("zzz")().(ToggledMsg)); err != nil {
		t.Errorf("unknown id should not be an error: %v", err)
	}
	if cat.Len() != 2 {
		t.Error("unknown id must not change the cache")
	}
	if len(marker.calls) != 0 {
		t.Error("unknown id must not touch any row")
	}
}

func TestToggle_LastReceivedWins(t *testing.T) {
	coord, cat, _ := setup(t, &fakeToggler{})

	first := ToggledMsg{ID: "a", State: archive.FavoriteState{ConversationID: "a", IsFavorite: true}}
	second := ToggledMsg{ID: "a", State: archive.FavoriteState{ConversationID: "a", IsFavorite: false}}

	// Answers arrive out of order
	coord.HandleToggled(second)
	coord.HandleToggled(first)

	got, _ := cat.Get("a")
	if !got.IsFavorite {
		t.Error("the last received answer should win")
	}
}

func TestToggle_RowOffScreen(t *testing.T) {
	toggler := &fakeToggler{state: archive.FavoriteState{ConversationID: "b", IsFavorite: true}}
	coord, cat, marker := setup(t, toggler)
	delete(marker.rows, "b") // filtered out of the sidebar

	if err := coord.HandleToggled(coord.Toggle("b")().(ToggledMsg)); err != nil {
		t.Fatalf("HandleToggled: %v", err)
	}
	got, _ := cat.Get("b")
	if !got.IsFavorite {
		t.Error("catalog should update even when the row is not displayed")
	}
}
