package charts

import (
	"fmt"
	"strings"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/markup"
)

// CostBarChart renders the estimated monthly API cost as stacked bars,
// input cost first, followed by a legend and the overall total.
func CostBarChart(points []archive.CostPoint, width int) string {
	if len(points) == 0 {
		return empty()
	}

	labels := make([]string, len(points))
	peak, sum := 0, 0
	for i, p := range points {
		labels[i] = markup.Line(p.Month)
		t := p.Input + p.Output
		sum += t
		if t > peak {
			peak = t
		}
	}

	labelW := maxWidth(labels)
	totalW := len(fmt.Sprint(peak)) + 1
	barW := width - labelW - totalW - 2

	in := fg(palette.Input)
	out := fg(palette.Output)

	var lines []string
	for i, p := range points {
		total := p.Input + p.Output
		n := barLen(total, peak, barW)
		inN := 0
		if total > 0 {
			inN = n * p.Input / total
		}
		if p.Input > 0 && inN == 0 && n > 1 {
			inN = 1
		}
		outN := n - inN

		var line strings.Builder
		line.WriteString(padRight(labels[i], labelW))
		line.WriteString(" ")
		line.WriteString(in.Render(strings.Repeat(fullBlock, inN)))
		line.WriteString(out.Render(strings.Repeat(fullBlock, outN)))
		if n > 0 {
			line.WriteString(" ")
		}
		line.WriteString(padLeft(fmt.Sprintf("$%d", total), totalW))
		lines = append(lines, line.String())
	}

	lines = append(lines, "")
	lines = append(lines, in.Render(fullBlock)+" input  "+out.Render(fullBlock)+" output")
	lines = append(lines, fg(palette.Muted).Render(fmt.Sprintf("total $%d", sum)))
	return strings.Join(lines, "\n")
}
