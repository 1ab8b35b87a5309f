package reports

import (
	"fmt"
	"math"
	"strings"

	"github.com/julianstephens/ritual/internal/models"
)

var (
	sparkRunes = []rune("▁▂▃▄▅▆▇█")
	shadeRunes = []rune("·░░▒▒▓▓█")
)

// ProgressBar draws percent (0-100) as a bar of width cells.
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// Dots renders a last-7-days row, oldest first.
func Dots(days [7]bool) string {
	var b strings.Builder
	for i, done := range days {
		if i > 0 {
			b.WriteByte(' ')
		}
		if done {
			b.WriteString("●")
		} else {
			b.WriteString("○")
		}
	}
	return b.String()
}

// Sparkline maps each 0-100 rate to one of eight block heights.
func Sparkline(points []models.TrendPoint) string {
	out := make([]rune, len(points))
	for i, p := range points {
		level := p.Rate * (len(sparkRunes) - 1) / 100
		level = max(0, min(len(sparkRunes)-1, level))
		out[i] = sparkRunes[level]
	}
	return string(out)
}

// RenderCalendar lays the heatmap out in rows of seven, labelling each row
// with the date of its first cell. Today's cell is bracketed.
func RenderCalendar(days []models.CalendarDay) string {
	var b strings.Builder
	for i := 0; i < len(days); i += 7 {
		row := days[i:min(i+7, len(days))]
		fmt.Fprintf(&b, "%-7s", dateLabel(row[0].Date))
		for _, d := range row {
			cell := string(shadeRunes[max(0, min(len(shadeRunes)-1, d.Bucket))])
			if d.IsToday {
				fmt.Fprintf(&b, "[%s]", cell)
			} else {
				fmt.Fprintf(&b, " %s ", cell)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("\nless " + string(shadeRunes) + " more\n")
	return b.String()
}
