package ui

import "charm.land/lipgloss/v2"

// RenderDropOverlay draws the drag-and-drop hint centered on the screen
func RenderDropOverlay(text string, screenWidth, screenHeight int) string {
	box := OverlayStyle.Render(text)
	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}
