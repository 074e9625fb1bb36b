package demo

import (
	"os"
	"testing"

	"github.com/zhubert/chatlog/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)

	code := m.Run()

	logger.Reset()
	os.Exit(code)
}

// newFixtureStore seeds a store from the bundled archive
func newFixtureStore(t *testing.T) *Store {
	t.Helper()
	f, err := DefaultFixture()
	if err != nil {
		t.Fatalf("DefaultFixture failed: %v", err)
	}
	return NewStore(f)
}
