// Package notification announces finished imports on the desktop through
// beeep (notification center, D-Bus or the Windows toast API).
package notification

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/gen2brain/beeep"

	"github.com/zhubert/chatlog/internal/logger"
)

const (
	// appName is the notification title
	appName = "chatlog"
	// maxMessageWidth keeps server text inside a notification bubble
	maxMessageWidth = 120
)

var notifier = beeep.Notify

// SetNotifier replaces the delivery function. Tests use it to capture
// notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores delivery through beeep.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send shows a notification. message is stripped of terminal escape
// sequences, flattened to one line and truncated.
func Send(title, message string) error {
	message = clean(message)
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title, "message", message)

	// Empty icon lets beeep pick the platform default
	if err := notifier(title, message, ""); err != nil {
		log.Warn("notification failed", "error", err)
		return err
	}
	return nil
}

// ImportCompleted announces an imported archive. detail is the text to
// show, normally the imported count or the server's confirmation.
func ImportCompleted(detail string) error {
	if strings.TrimSpace(detail) == "" {
		detail = "Archive imported"
	}
	return Send(appName, detail)
}

func clean(s string) string {
	s = strings.Join(strings.Fields(ansi.Strip(s)), " ")
	return ansi.Truncate(s, maxMessageWidth, "…")
}
