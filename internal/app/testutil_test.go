package app

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/catalog"
	"github.com/zhubert/chatlog/internal/config"
	"github.com/zhubert/chatlog/internal/keys"
	"github.com/zhubert/chatlog/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}

func strPtr(s string) *string { return &s }

// testConversations is a small catalog spanning two groups and one
// conversation without a group.
func testConversations() []archive.Conversation {
	return []archive.Conversation{
		{ID: "c1", Title: strPtr("Goroutine leaks"), Group: strPtr("Today"), TotalLength: "2h 27m", Created: "2024-05-20 09:14"},
		{ID: "c2", Title: strPtr("Sourdough starter"), Group: strPtr("Today"), IsFavorite: true, TotalLength: "29s", Created: "2024-05-20 07:02"},
		{ID: "c3", Title: strPtr("Trip to Kyoto"), Group: strPtr("Yesterday"), TotalLength: "11h 25m", Created: "2024-05-19 21:40"},
		{ID: "c4", Title: nil, Group: nil, TotalLength: "5s", Created: "2024-04-02 12:00"},
	}
}

// fakeBackend is an in-memory archive backend. It records the calls the
// model makes and returns canned answers.
type fakeBackend struct {
	mu sync.Mutex

	conversations []archive.Conversation
	transcripts   map[string]*archive.Transcript
	favorites     map[string]bool
	toggleErr     error
	uploadResult  *archive.UploadResult

	searched []string
	uploaded []string
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		conversations: testConversations(),
		transcripts: map[string]*archive.Transcript{
			"c1": {ConversationID: "c1", Messages: []archive.Message{
				{Role: "user", Text: "Why does my goroutine never exit?", Created: "2024-05-20 09:14:02"},
				{Role: "assistant", Text: "It is blocked on a channel send.", Created: "2024-05-20 09:14:09"},
			}},
		},
		favorites:    map[string]bool{"c2": true},
		uploadResult: &archive.UploadResult{Status: "ok", Detail: "loaded 2 conversations.", Count: 2},
	}
	return b
}

func (b *fakeBackend) Conversations(ctx context.Context) ([]archive.Conversation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]archive.Conversation(nil), b.conversations...), nil
}

func (b *fakeBackend) Messages(ctx context.Context, id string) (*archive.Transcript, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.transcripts[id]; ok {
		return t, nil
	}
	return &archive.Transcript{ConversationID: id}, nil
}

func (b *fakeBackend) Search(ctx context.Context, query string) ([]archive.SearchResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searched = append(b.searched, query)
	return []archive.SearchResult{
		{Type: "message", ID: "c1", Title: "Goroutine leaks", Role: "user", Text: "Why does my goroutine never exit?"},
	}, nil
}

func (b *fakeBackend) Statistics(ctx context.Context) (archive.Statistics, error) {
	return archive.Statistics{{Key: "Chats", Value: "4"}}, nil
}

func (b *fakeBackend) AICost(ctx context.Context) ([]archive.CostPoint, error) {
	return []archive.CostPoint{{Month: "2024-05", Input: 3, Output: 5}}, nil
}

func (b *fakeBackend) Activity(ctx context.Context) (archive.Activity, error) {
	return archive.Activity{{Day: "2024-05-20", Count: 3}}, nil
}

func (b *fakeBackend) ActivityLast24h(ctx context.Context, role string) ([]archive.HourBucket, error) {
	return nil, errors.New("not available")
}

func (b *fakeBackend) ToggleFavorite(ctx context.Context, id string) (archive.FavoriteState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.toggleErr != nil {
		return archive.FavoriteState{}, b.toggleErr
	}
	b.favorites[id] = !b.favorites[id]
	return archive.FavoriteState{ConversationID: id, IsFavorite: b.favorites[id]}, nil
}

func (b *fakeBackend) UploadArchive(ctx context.Context, filename string, content io.Reader) (*archive.UploadResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploaded = append(b.uploaded, filename)
	return b.uploadResult, nil
}

// testConfig returns a default config saved under a temp directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	return cfg
}

// testModel creates a model on a fake backend with the catalog loaded.
func testModel(t *testing.T) (*Model, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend()
	m := New(testConfig(t), backend)
	m.Update(catalog.LoadedMsg{Conversations: testConversations()})
	return m, backend
}

// testModelWithSize creates a test Model and sets its size.
func testModelWithSize(t *testing.T, width, height int) (*Model, *fakeBackend) {
	t.Helper()
	m, backend := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m, backend
}

// keyPress creates a tea.KeyPressMsg for the given key string.
// Examples: "a", "enter", "tab", "esc", "ctrl+c", "up", "down"
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Backspace:
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.Home:
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case keys.End:
		return tea.KeyPressMsg{Code: tea.KeyEnd}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.ShiftTab:
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	default:
		// Regular character - for single characters, set both Code and Text
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		// Fallback for unknown keys
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press to the model and returns the resulting command.
func sendKey(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(keyPress(key))
	return cmd
}

// typeText simulates typing a string by sending individual character key presses.
func typeText(m *Model, text string) {
	for _, ch := range text {
		sendKey(m, string(ch))
	}
}

// runCmd executes cmd and feeds its message back into the model. It must
// only be used for commands that do not sleep.
func runCmd(t *testing.T, m *Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	return next
}
