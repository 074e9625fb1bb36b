// Package logger writes chatlog's structured debug log. The TUI owns the
// terminal, so everything goes to a file: CHATLOG_LOG_FILE when set,
// otherwise chatlog-debug.log in the temp directory.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// PathEnv names the environment variable that overrides the log file.
const PathEnv = "CHATLOG_LOG_FILE"

var (
	mu       sync.Mutex
	base     *slog.Logger
	file     *os.File
	path     string
	opened   bool
	levelVar = new(slog.LevelVar)
)

// DefaultPath is the log file used when Init is never called.
func DefaultPath() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return filepath.Join(os.TempDir(), "chatlog-debug.log")
}

// SetDebug switches between debug and info level. It takes effect for
// loggers already handed out.
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Init sends the log to p. Later calls do nothing until Reset.
func Init(p string) error {
	mu.Lock()
	defer mu.Unlock()
	if opened {
		return nil
	}
	return openLocked(p)
}

func openLocked(p string) error {
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", p, err)
	}
	file, path, opened = f, p, true
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	base.Debug("log opened", "path", p)
	return nil
}

// WithComponent returns a logger whose records carry component=name.
//
//	log := logger.WithComponent("catalog")
//	log.Info("catalog loaded", "count", n)
//
// The first call without Init opens DefaultPath. If no file can be opened
// the returned logger discards everything.
func WithComponent(name string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !opened {
		if err := openLocked(DefaultPath()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			// One warning is enough
			opened = true
		}
	}
	if base == nil {
		return slog.New(slog.DiscardHandler)
	}
	return base.With(slog.String("component", name))
}

// Path returns the file the log is written to, empty before the first use.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return path
}

// Close closes the log file. Loggers handed out earlier keep working and
// their writes fail silently.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
}

// Reset closes the log and forgets it so the next Init opens a new file.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
	}
	base, file, path, opened = nil, nil, "", false
	levelVar.Set(slog.LevelInfo)
}
