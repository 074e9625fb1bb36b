// Package clipboard writes text to the system clipboard.
package clipboard

import (
	"fmt"
	"sync"

	"golang.design/x/clipboard"

	"github.com/zhubert/chatlog/internal/logger"
)

var (
	initOnce sync.Once
	initErr  error

	// writeText is swapped out in tests so they never touch the real clipboard
	writeText = func(s string) error {
		initOnce.Do(func() {
			if err := clipboard.Init(); err != nil {
				initErr = fmt.Errorf("failed to initialize clipboard: %w", err)
			}
		})
		if initErr != nil {
			return initErr
		}
		clipboard.Write(clipboard.FmtText, []byte(s))
		return nil
	}
)

// WriteText places s on the clipboard.
func WriteText(s string) error {
	if s == "" {
		return fmt.Errorf("nothing to copy")
	}
	if err := writeText(s); err != nil {
		logger.WithComponent("clipboard").Warn("write failed", "error", err)
		return err
	}
	logger.WithComponent("clipboard").Debug("copied text", "bytes", len(s))
	return nil
}
