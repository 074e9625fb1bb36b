// Package charts draws the archive's activity and cost datasets as
// terminal text. Every entry point takes a dataset and the width it may
// use and returns the rendered chart; none of them keep state.
package charts

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/rivo/uniseg"
)

// Palette holds the colors charts are drawn with.
type Palette struct {
	Heat   [4]color.Color // activity levels, lowest first
	Empty  color.Color    // days without activity
	Bar    color.Color
	Input  color.Color
	Output color.Color
	Muted  color.Color
}

var palette = Palette{
	Heat: [4]color.Color{
		lipgloss.Color("#0E4429"),
		lipgloss.Color("#006D32"),
		lipgloss.Color("#26A641"),
		lipgloss.Color("#39D353"),
	},
	Empty:  lipgloss.Color("#3A3A3A"),
	Bar:    lipgloss.Color("#7C3AED"),
	Input:  lipgloss.Color("#06B6D4"),
	Output: lipgloss.Color("#F59E0B"),
	Muted:  lipgloss.Color("#6B7280"),
}

// SetPalette replaces the chart colors, typically on theme change.
func SetPalette(p Palette) {
	palette = p
}

// NoData is rendered in place of a chart whose dataset is empty.
const NoData = "No data"

const (
	fullBlock = "█"
	cell      = "■"
)

var sparkLevels = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

func fg(c color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func empty() string {
	return fg(palette.Muted).Render(NoData)
}

// barLen scales n against peak into at most width cells. Non-zero values
// always get at least one cell.
func barLen(n, peak, width int) int {
	if n <= 0 || peak <= 0 || width <= 0 {
		return 0
	}
	w := n * width / peak
	if w == 0 {
		w = 1
	}
	return w
}

func maxWidth(labels []string) int {
	w := 0
	for _, l := range labels {
		if lw := uniseg.StringWidth(l); lw > w {
			w = lw
		}
	}
	return w
}

// padRight pads s with spaces to display width w.
func padRight(s string, w int) string {
	if d := w - uniseg.StringWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}

func padLeft(s string, w int) string {
	if d := w - uniseg.StringWidth(s); d > 0 {
		return strings.Repeat(" ", d) + s
	}
	return s
}

// hbars renders one horizontal bar per label, scaled to the largest value.
func hbars(labels []string, values []int, width int, style lipgloss.Style) string {
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	labelW := maxWidth(labels)
	valueW := len(fmt.Sprint(peak))
	barW := width - labelW - valueW - 2

	var lines []string
	for i, label := range labels {
		line := padRight(label, labelW) + " "
		if n := barLen(values[i], peak, barW); n > 0 {
			line += style.Render(strings.Repeat(fullBlock, n)) + " "
		}
		line += fmt.Sprint(values[i])
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
