package modals

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/zhubert/chatlog/internal/upload"
)

// ArchiveCompleter suggests filesystem paths while an export archive path
// is typed. Only directories and zip archives are suggested; directories
// come first and end in a slash so completing one descends into it.
type ArchiveCompleter struct {
	candidates []string
	input      string
}

// NewArchiveCompleter creates a completer with no suggestions.
func NewArchiveCompleter() *ArchiveCompleter {
	return &ArchiveCompleter{}
}

// Suggest lists the candidates for path and returns them. An existing
// directory typed without its trailing slash has the slashed form as its
// only candidate.
func (c *ArchiveCompleter) Suggest(path string) []string {
	c.input = expandHome(path)
	c.candidates = listCandidates(c.input)
	return c.candidates
}

// Candidates returns the suggestions of the last Suggest call.
func (c *ArchiveCompleter) Candidates() []string {
	return c.candidates
}

// CommonPrefix returns the longest prefix every candidate shares.
func (c *ArchiveCompleter) CommonPrefix() string {
	return commonPrefix(c.candidates)
}

// Reset forgets the suggestions. The input changed by typing.
func (c *ArchiveCompleter) Reset() {
	c.candidates = nil
	c.input = ""
}

func listCandidates(path string) []string {
	if path == "" {
		path = string(filepath.Separator)
	}

	dir, base := filepath.Split(path)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if !strings.HasSuffix(path, string(filepath.Separator)) {
			return []string{path + string(filepath.Separator)}
		}
		dir, base = path, ""
	}
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var dirs, archives []string
	for _, e := range entries {
		name := e.Name()
		// Dotfiles only when asked for
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(base, ".") {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(name), strings.ToLower(base)) {
			continue
		}
		full := filepath.Join(dir, name)
		switch {
		case e.IsDir():
			dirs = append(dirs, full+string(filepath.Separator))
		case upload.IsZip(name):
			archives = append(archives, full)
		}
	}

	byName := func(a, b string) int { return cmp.Compare(strings.ToLower(a), strings.ToLower(b)) }
	slices.SortFunc(dirs, byName)
	slices.SortFunc(archives, byName)
	return append(dirs, archives...)
}

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// commonPrefix returns the longest shared prefix of strs, never splitting
// a multi-byte character.
func commonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	prefix := strs[0]
	for _, s := range strs[1:] {
		n := 0
		for n < len(prefix) && n < len(s) && prefix[n] == s[n] {
			n++
		}
		prefix = prefix[:n]
	}
	for len(prefix) > 0 {
		if r, size := utf8.DecodeLastRuneInString(prefix); r != utf8.RuneError || size != 1 {
			break
		}
		prefix = prefix[:len(prefix)-1]
	}
	return prefix
}
