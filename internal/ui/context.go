package ui

import (
	"sync"

	"github.com/zhubert/chatlog/internal/logger"
)

// ViewContext is the one place the screen is divided into header, footer,
// conversation list and content panel. Components ask it for sizes rather
// than doing their own arithmetic.
type ViewContext struct {
	TerminalWidth  int
	TerminalHeight int

	HeaderHeight  int
	FooterHeight  int
	ContentHeight int
	SidebarWidth  int
	ContentWidth  int

	mu sync.Mutex
}

var (
	ctx     *ViewContext
	ctxOnce sync.Once
)

// GetViewContext returns the process-wide layout.
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{
			HeaderHeight: HeaderHeight,
			FooterHeight: FooterHeight,
		}
	})
	return ctx
}

// UpdateTerminalSize lays the screen out for a terminal of the given size.
// The list takes a third of the width, kept between SidebarMinWidth and
// SidebarMaxWidth so titles stay readable on narrow terminals and charts
// get the room on wide ones.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	width = max(width, MinTerminalWidth)
	height = max(height, MinTerminalHeight)

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight
	v.ContentHeight = height - v.HeaderHeight - v.FooterHeight
	v.SidebarWidth = sidebarWidthFor(width)
	v.ContentWidth = width - v.SidebarWidth

	logger.WithComponent("ui").Debug("layout updated",
		"width", width,
		"height", height,
		"sidebar", v.SidebarWidth,
		"content", v.ContentWidth,
		"rows", v.ContentHeight,
	)
}

// sidebarWidthFor picks the list width for a terminal width. The content
// panel never gets less than ContentMinWidth.
func sidebarWidthFor(width int) int {
	w := min(max(width/SidebarWidthRatio, SidebarMinWidth), SidebarMaxWidth)
	return max(min(w, width-ContentMinWidth), 0)
}

// InnerWidth is the text width inside a bordered panel.
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return panelWidth - BorderSize
}

// InnerHeight is the number of text rows inside a bordered panel.
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return panelHeight - BorderSize
}
