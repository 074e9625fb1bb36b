package demo

import (
	"os"
	"path/filepath"
	"testing"

	pErrors "github.com/zhubert/chatlog/internal/errors"
)

func TestDefaultFixture(t *testing.T) {
	f, err := DefaultFixture()
	if err != nil {
		t.Fatalf("DefaultFixture failed: %v", err)
	}
	if f.Now != "2024-05-20 18:30:00" {
		t.Errorf("Now = %q", f.Now)
	}
	if len(f.Conversations) != 7 {
		t.Errorf("expected 7 conversations, got %d", len(f.Conversations))
	}
	if len(f.Costs) != 5 {
		t.Errorf("expected 5 cost rows, got %d", len(f.Costs))
	}

	var untitled int
	for _, c := range f.Conversations {
		if c.Title == nil {
			untitled++
		}
	}
	if untitled != 1 {
		t.Errorf("expected one conversation with a null title, got %d", untitled)
	}
}

func TestParseFixture_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind pErrors.Kind
	}{
		{"not yaml", "conversations: [", pErrors.KindDecode},
		{"bad now", `now: "yesterday"`, pErrors.KindInvalid},
		{"missing id", "conversations:\n  - title: x\n", pErrors.KindInvalid},
		{"bad message time", "conversations:\n  - id: a\n    messages:\n      - {role: user, at: \"noon\", text: hi}\n", pErrors.KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !pErrors.Is(err, tt.kind) {
				t.Errorf("error kind = %v, want %v (%v)", pErrors.GetKind(err), tt.kind, err)
			}
		})
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.yaml")
	content := "now: \"2024-01-02 03:04:05\"\nconversations:\n  - id: only\n    title: One\n    messages:\n      - {role: user, at: \"2024-01-02 03:00:00\", text: hi}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("LoadFixture failed: %v", err)
	}
	if len(f.Conversations) != 1 || *f.Conversations[0].Title != "One" {
		t.Errorf("unexpected fixture: %+v", f)
	}

	if _, err := LoadFixture(filepath.Join(t.TempDir(), "missing.yaml")); !pErrors.Is(err, pErrors.KindIO) {
		t.Errorf("missing file: error = %v, want KindIO", err)
	}
}
