package charts

import (
	"fmt"
	"strings"
	"time"

	"github.com/zhubert/chatlog/internal/archive"
	"github.com/zhubert/chatlog/internal/markup"
)

const (
	dayLayout   = "2006-01-02"
	dayLabelW   = 4 // "Mon "
	cellW       = 2 // glyph plus gap
	daysPerWeek = 7
	hourlyRows  = 4
)

var weekdayLabels = [daysPerWeek]string{"", "Mon", "", "Wed", "", "Fri", ""}

// ActivityGraph renders a calendar heatmap of daily message counts, one
// column per week ending with the week of the latest day in data.
// Days missing from data count as zero. Unparseable days are ignored.
func ActivityGraph(data archive.Activity, width int) string {
	counts := make(map[string]int, len(data))
	var first, last time.Time
	for _, d := range data {
		day, err := time.Parse(dayLayout, d.Day)
		if err != nil {
			continue
		}
		counts[d.Day] += d.Count
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}
	if len(counts) == 0 {
		return empty()
	}

	lastWeek := last.AddDate(0, 0, -int(last.Weekday()))
	firstWeek := first.AddDate(0, 0, -int(first.Weekday()))
	needed := int(lastWeek.Sub(firstWeek).Hours()/24)/daysPerWeek + 1

	cols := (width - dayLabelW) / cellW
	if cols < 1 {
		cols = 1
	}
	if cols > needed {
		cols = needed
	}
	start := lastWeek.AddDate(0, 0, -daysPerWeek*(cols-1))

	peak := 0
	for _, n := range counts {
		if n > peak {
			peak = n
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", dayLabelW))
	b.WriteString(monthHeader(start, cols))
	b.WriteString("\n")

	for row := 0; row < daysPerWeek; row++ {
		b.WriteString(padRight(weekdayLabels[row], dayLabelW))
		for col := 0; col < cols; col++ {
			day := start.AddDate(0, 0, col*daysPerWeek+row)
			if day.After(last) {
				break
			}
			b.WriteString(heatCell(counts[day.Format(dayLayout)], peak))
			if col < cols-1 {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(legend())
	b.WriteString(fmt.Sprintf("  %d messages", data.Total()))
	return b.String()
}

// monthHeader labels the first column of each month that has room.
func monthHeader(start time.Time, cols int) string {
	line := []rune(strings.Repeat(" ", cols*cellW))
	next := 0
	prev := time.Month(0)
	for col := 0; col < cols; col++ {
		day := start.AddDate(0, 0, col*daysPerWeek)
		if day.Month() == prev {
			continue
		}
		prev = day.Month()
		label := day.Format("Jan")
		pos := col * cellW
		if pos < next || pos+len(label) > len(line) {
			continue
		}
		copy(line[pos:], []rune(label))
		next = pos + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func heatLevel(n, peak int) int {
	if n <= 0 || peak <= 0 {
		return -1
	}
	level := (n*len(palette.Heat) + peak - 1) / peak
	if level > len(palette.Heat) {
		level = len(palette.Heat)
	}
	return level - 1
}

func heatCell(n, peak int) string {
	level := heatLevel(n, peak)
	if level < 0 {
		return fg(palette.Empty).Render(cell)
	}
	return fg(palette.Heat[level]).Render(cell)
}

func legend() string {
	var b strings.Builder
	b.WriteString(fg(palette.Muted).Render("Less "))
	b.WriteString(fg(palette.Empty).Render(cell))
	for _, c := range palette.Heat {
		b.WriteString(fg(c).Render(cell))
	}
	b.WriteString(fg(palette.Muted).Render(" More"))
	return b.String()
}

// ActivityBarChart renders monthly message totals as horizontal bars,
// months in the order they first appear in data.
func ActivityBarChart(data archive.Activity, width int) string {
	var months []string
	totals := make(map[string]int)
	for _, d := range data {
		month := d.Day
		if len(month) >= len("2006-01") {
			month = month[:len("2006-01")]
		}
		if _, ok := totals[month]; !ok {
			months = append(months, month)
		}
		totals[month] += d.Count
	}
	if len(months) == 0 {
		return empty()
	}

	values := make([]int, len(months))
	for i, m := range months {
		values[i] = totals[m]
	}
	return hbars(months, values, width, fg(palette.Bar))
}

// HourlyBarChart renders hourly buckets as a column chart labelled with
// the first, middle and last hour.
func HourlyBarChart(buckets []archive.HourBucket, width int) string {
	if len(buckets) == 0 {
		return empty()
	}
	height := hourlyRows

	// Keep the most recent hours when the width cannot fit them all
	if width > 0 && len(buckets) > width {
		buckets = buckets[len(buckets)-width:]
	}
	colW := 1
	if width >= len(buckets)*2 {
		colW = 2
	}

	peak := 0
	for _, bk := range buckets {
		if bk.Count > peak {
			peak = bk.Count
		}
	}

	steps := len(sparkLevels) - 1
	style := fg(palette.Bar)
	var lines []string
	for row := height - 1; row >= 0; row-- {
		var line strings.Builder
		for _, bk := range buckets {
			eighths := 0
			if peak > 0 {
				eighths = bk.Count * height * steps / peak
			}
			if bk.Count > 0 && eighths == 0 {
				eighths = 1
			}
			level := eighths - row*steps
			if level < 0 {
				level = 0
			}
			if level > steps {
				level = steps
			}
			line.WriteString(style.Render(sparkLevels[level]))
			if colW == 2 {
				line.WriteString(" ")
			}
		}
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}

	lines = append(lines, hourAxis(buckets, colW))
	lines = append(lines, fg(palette.Muted).Render(fmt.Sprintf("peak %d/h", peak)))
	return strings.Join(lines, "\n")
}

func hourOf(bucket string) string {
	bucket = markup.Line(bucket)
	if _, hour, ok := strings.Cut(bucket, " "); ok {
		return hour
	}
	return bucket
}

// hourAxis places the first, middle and last hour labels under their columns.
func hourAxis(buckets []archive.HourBucket, colW int) string {
	total := len(buckets) * colW
	line := []rune(strings.Repeat(" ", total))
	next := 0
	for _, i := range []int{0, len(buckets) / 2, len(buckets) - 1} {
		label := []rune(hourOf(buckets[i].Hour))
		pos := i * colW
		if pos+len(label) > total {
			pos = total - len(label)
		}
		if pos < next || pos < 0 {
			continue
		}
		copy(line[pos:], label)
		next = pos + len(label) + 1
	}
	return fg(palette.Muted).Render(strings.TrimRight(string(line), " "))
}
