// Package keys names the non-printing keys chatlog binds, as the strings
// Bubble Tea v2 reports for them. Letter shortcuts are written inline
// where they are bound.
package keys

import tea "charm.land/bubbletea/v2"

func key(code rune) string { return tea.KeyPressMsg{Code: code}.String() }

func ctrl(code rune) string { return tea.KeyPressMsg{Code: code, Mod: tea.ModCtrl}.String() }

// Moving through the conversation list and scrolling the content panel
var (
	Up     = key(tea.KeyUp)
	Down   = key(tea.KeyDown)
	Home   = key(tea.KeyHome)
	End    = key(tea.KeyEnd)
	PgUp   = key(tea.KeyPgUp)
	PgDown = key(tea.KeyPgDown)

	// CtrlN and CtrlP move through the list while the title filter has the keys
	CtrlN = ctrl('n')
	CtrlP = ctrl('p')
)

// Editing, confirming and leaving
var (
	Enter     = key(tea.KeyEnter)
	Tab       = key(tea.KeyTab)
	ShiftTab  = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}.String()
	Backspace = key(tea.KeyBackspace)
	Escape    = key(tea.KeyEscape)
	CtrlC     = ctrl('c')
)
