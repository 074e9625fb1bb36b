// Package modals holds the dialogs drawn over the browser: group filter,
// message search, archive import, settings and the key list. Each dialog
// is its own state type; the app layer switches on the concrete type to
// decide what Enter and Esc do.
package modals

import (
	tea "charm.land/bubbletea/v2"
)

// ModalState is implemented only by the dialog types of this package.
type ModalState interface {
	modalState()
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// ModalWithPreferredWidth is a dialog wider or narrower than ModalWidth.
type ModalWithPreferredWidth interface {
	ModalState
	PreferredWidth() int
}

// ModalWithSize is a dialog that lays itself out for the space it gets.
type ModalWithSize interface {
	ModalState
	SetSize(width, height int)
}

// HelpShortcut is one row of the key list.
type HelpShortcut struct {
	Key  string
	Desc string
}

// HelpShortcutTriggeredMsg asks the app to run the shortcut bound to Key,
// as if it had been pressed.
type HelpShortcutTriggeredMsg struct {
	Key string
}

// HelpSection is a titled group of rows in the key list.
type HelpSection struct {
	Title     string
	Shortcuts []HelpShortcut
}
