package modals

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"~", home},
		{"~/Downloads/export.zip", filepath.Join(home, "Downloads", "export.zip")},
		{"/absolute/export.zip", "/absolute/export.zip"},
		{"relative/export.zip", "relative/export.zip"},
		{"~user/export.zip", "~user/export.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := expandHome(tt.input); got != tt.expected {
				t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCommonPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected string
	}{
		{"empty", []string{}, ""},
		{"single", []string{"export.zip"}, "export.zip"},
		{"common", []string{"export-2023.zip", "export-2024.zip"}, "export-202"},
		{"no common", []string{"abc", "xyz"}, ""},
		{"paths", []string{"/tmp/exports/a.zip", "/tmp/exports/b.zip"}, "/tmp/exports/"},
		// é and è share their first byte
		{"multibyte", []string{"café.zip", "cafè.zip"}, "caf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commonPrefix(tt.input); got != tt.expected {
				t.Errorf("commonPrefix(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// exportTree creates:
//
//	exports/
//	exports/old/
//	Archive/
//	export-2023.zip
//	export-2024.ZIP
//	export-notes.txt
//	.hidden.zip
func exportTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, d := range []string{filepath.Join("exports", "old"), "Archive"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"export-2023.zip", "export-2024.ZIP", "export-notes.txt", ".hidden.zip"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestArchiveCompleter_Suggest(t *testing.T) {
	dir := exportTree(t)

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "directories first then archives",
			input: dir + "/",
			want: []string{
				filepath.Join(dir, "Archive") + "/",
				filepath.Join(dir, "exports") + "/",
				filepath.Join(dir, "export-2023.zip"),
				filepath.Join(dir, "export-2024.ZIP"),
			},
		},
		{
			name:  "prefix is case-insensitive",
			input: filepath.Join(dir, "EXPORT-"),
			want: []string{
				filepath.Join(dir, "export-2023.zip"),
				filepath.Join(dir, "export-2024.ZIP"),
			},
		},
		{
			name:  "existing directory gets a slash",
			input: filepath.Join(dir, "exports"),
			want:  []string{filepath.Join(dir, "exports") + "/"},
		},
		{
			name:  "other files are never offered",
			input: filepath.Join(dir, "export-n"),
			want:  nil,
		},
		{
			name:  "dot prefix offers hidden archives",
			input: filepath.Join(dir, ".h"),
			want:  []string{filepath.Join(dir, ".hidden.zip")},
		},
		{
			name:  "missing directory",
			input: filepath.Join(dir, "missing", "x"),
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewArchiveCompleter()
			got := c.Suggest(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !slices.Equal(c.Candidates(), got) {
				t.Error("Candidates() should return the last suggestions")
			}
		})
	}
}

func TestArchiveCompleter_CommonPrefixAndReset(t *testing.T) {
	dir := exportTree(t)

	c := NewArchiveCompleter()
	c.Suggest(filepath.Join(dir, "export-"))
	if want := filepath.Join(dir, "export-202"); c.CommonPrefix() != want {
		t.Errorf("CommonPrefix() = %q, want %q", c.CommonPrefix(), want)
	}

	c.Reset()
	if len(c.Candidates()) != 0 || c.CommonPrefix() != "" {
		t.Error("Reset should clear the suggestions")
	}
}
