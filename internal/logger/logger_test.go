package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestLogger points the log at a temp file for the test.
func setupTestLogger(t *testing.T) string {
	t.Helper()
	Reset()

	logPath := filepath.Join(t.TempDir(), "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	t.Cleanup(Reset)
	return logPath
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestInit_SetsPath(t *testing.T) {
	logPath := setupTestLogger(t)

	if Path() != logPath {
		t.Errorf("Path() = %q, want %q", Path(), logPath)
	}
	// A second Init is ignored
	if err := Init(filepath.Join(t.TempDir(), "other.log")); err != nil || Path() != logPath {
		t.Errorf("second Init changed the path to %q (err %v)", Path(), err)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(PathEnv, "")
	if got, want := DefaultPath(), filepath.Join(os.TempDir(), "chatlog-debug.log"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}

	custom := filepath.Join(t.TempDir(), "custom.log")
	t.Setenv(PathEnv, custom)
	if DefaultPath() != custom {
		t.Errorf("DefaultPath() = %q, want the %s override", DefaultPath(), PathEnv)
	}
}

func TestWithComponent_OpensDefaultPath(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	custom := filepath.Join(t.TempDir(), "lazy.log")
	t.Setenv(PathEnv, custom)

	WithComponent("demo").Info("first record")

	if Path() != custom {
		t.Errorf("Path() = %q, want %q", Path(), custom)
	}
	if !strings.Contains(readLog(t, custom), "first record") {
		t.Error("record should be written to the default path")
	}
}

func TestSetDebug(t *testing.T) {
	logPath := setupTestLogger(t)
	log := WithComponent("test")

	log.Debug("hidden at info")
	SetDebug(true)
	log.Debug("visible at debug")
	SetDebug(false)
	log.Debug("hidden again")

	content := readLog(t, logPath)
	if strings.Contains(content, "hidden at info") || strings.Contains(content, "hidden again") {
		t.Error("debug records should be filtered at info level")
	}
	if !strings.Contains(content, "visible at debug") {
		t.Error("debug records should be written once debug is enabled")
	}
}

func TestWithComponent(t *testing.T) {
	logPath := setupTestLogger(t)

	WithComponent("catalog").Info("catalog loaded", "count", 3)

	content := readLog(t, logPath)
	if !strings.Contains(content, "component=catalog") {
		t.Errorf("expected component attribute, got:\n%s", content)
	}
	if !strings.Contains(content, "count=3") {
		t.Errorf("expected structured attribute, got:\n%s", content)
	}
}

func TestWithComponent_Concurrent(t *testing.T) {
	setupTestLogger(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			log := WithComponent("worker")
			for j := range 100 {
				log.Info("record", "worker", n, "seq", j)
			}
		}(i)
	}
	wg.Wait()
}

func TestReset(t *testing.T) {
	Reset()
	tmpDir := t.TempDir()
	logPath1 := filepath.Join(tmpDir, "log1.log")
	if err := Init(logPath1); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}
	WithComponent("test").Info("message to log1")

	Reset()

	logPath2 := filepath.Join(tmpDir, "log2.log")
	if err := Init(logPath2); err != nil {
		t.Fatalf("Failed to reinit logger: %v", err)
	}
	WithComponent("test").Info("message to log2")

	content1 := readLog(t, logPath1)
	if !strings.Contains(content1, "message to log1") || strings.Contains(content1, "message to log2") {
		t.Errorf("log1 = %q", content1)
	}
	if !strings.Contains(readLog(t, logPath2), "message to log2") {
		t.Error("log2 should contain 'message to log2'")
	}

	Reset()
}

func TestClose_Idempotent(t *testing.T) {
	setupTestLogger(t)
	log := WithComponent("test")

	Close()
	Close()
	// Logging after close must not panic
	log.Info("after close")
}
