// Package ui provides the user interface components for the chatlog TUI.
//
// # Overview
//
// The ui package implements the visual components of chatlog using the Bubble Tea
// framework and Lipgloss styling library. Components hold display state only;
// the app package owns the conversation catalog and decides what to show.
//
// # Layout System
//
// The layout is organized as follows:
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────┬───────────────────────────────────┤
//	│                 │                                   │
//	│   Sidebar       │         Content Panel             │
//	│   (1/3 width)   │         (2/3 width)               │
//	│                 │                                   │
//	├─────────────────┴───────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// ViewContext: Singleton that manages centralized layout calculations.
// All size calculations should go through ViewContext to ensure consistency.
//
// Header: Application title, the active filters and the archive server,
// drawn on a gradient.
//
// Footer: The import status line followed by context-aware shortcuts.
//
// Sidebar: Conversations grouped under group headers, with a favorite star,
// a title filter and a highlight on the row whose transcript is shown.
// Every SetRows call starts a new epoch so selection handles taken from
// an older list are detached.
//
// ContentPanel: A scrolling viewport that renders whatever panel.Content
// it was last given: a transcript, search results, statistics or a chart.
//
// Modal: Popup dialogs from the modals package: group filter, search,
// archive import, settings and help.
//
// Drop overlay: Full-screen hint shown while a file is dragged over the
// terminal.
//
// # Themes
//
// theme.go defines the palettes. SetTheme regenerates every style, the
// chart palette, the code highlighting style and the modal styles.
package ui
