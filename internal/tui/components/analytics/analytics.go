package analytics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ritual/internal/metrics"
	"github.com/julianstephens/ritual/internal/models"
)

// heatColors maps calendar buckets 0..7 to increasingly saturated greens.
var heatColors = [metrics.BucketCount]lipgloss.Color{
	"236", "22", "28", "29", "34", "35", "41", "47",
}

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginTop(1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	todayStyle   = lipgloss.NewStyle().Underline(true)
	lockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	unlockStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// StatusColor is green above 75%, amber above 40% and red otherwise.
func StatusColor(rate int) lipgloss.Color {
	switch {
	case rate > 75:
		return lipgloss.Color("#10B981")
	case rate > 40:
		return lipgloss.Color("#F59E0B")
	default:
		return lipgloss.Color("#EF4444")
	}
}

// Heatmap renders the calendar as rows of seven colored cells.
func Heatmap(days []models.CalendarDay) string {
	var rows []string
	for i := 0; i < len(days); i += 7 {
		var cells []string
		for _, d := range days[i:min(i+7, len(days))] {
			style := lipgloss.NewStyle().Foreground(heatColors[max(0, min(metrics.BucketCount-1, d.Bucket))])
			if d.IsToday {
				style = style.Inherit(todayStyle)
			}
			cells = append(cells, style.Render("■"))
		}
		rows = append(rows, strings.Join(cells, " "))
	}

	legend := make([]string, 0, metrics.BucketCount)
	for _, c := range heatColors {
		legend = append(legend, lipgloss.NewStyle().Foreground(c).Render("■"))
	}
	rows = append(rows, mutedStyle.Render("less ")+strings.Join(legend, "")+mutedStyle.Render(" more"))
	return strings.Join(rows, "\n")
}

// Sparkline renders the trend series with a colored average.
func Sparkline(tf metrics.Timeframe, points []models.TrendPoint) string {
	if len(points) == 0 {
		return ""
	}
	line := make([]rune, len(points))
	sum := 0
	for i, p := range points {
		level := max(0, min(len(sparkRunes)-1, p.Rate*(len(sparkRunes)-1)/100))
		line[i] = sparkRunes[level]
		sum += p.Rate
	}
	avg := sum / len(points)
	avgText := lipgloss.NewStyle().Foreground(StatusColor(avg)).Render(fmt.Sprintf("%d%%", avg))
	return fmt.Sprintf("%s  avg %s  %s", string(line), avgText, mutedStyle.Render("[t] "+tf.Label()))
}

// Matrix renders one row per habit: name, 30-day rate and last-7 dots.
func Matrix(rows []models.HabitIntegrity) string {
	if len(rows) == 0 {
		return mutedStyle.Render("No habits to show.")
	}
	var lines []string
	for _, row := range rows {
		color := lipgloss.Color(row.Habit.Color)
		if row.Habit.Color == "" {
			color = lipgloss.Color(models.DefaultColor)
		}
		dot := lipgloss.NewStyle().Foreground(color)

		var dots []string
		for _, done := range row.Last7 {
			if done {
				dots = append(dots, dot.Render("●"))
			} else {
				dots = append(dots, mutedStyle.Render("○"))
			}
		}
		rate := lipgloss.NewStyle().Foreground(StatusColor(row.Rate30d)).Render(fmt.Sprintf("%3d%%", row.Rate30d))
		lines = append(lines, fmt.Sprintf("%-20s %s  %s", truncate(row.Habit.Name, 20), rate, strings.Join(dots, " ")))
	}
	return strings.Join(lines, "\n")
}

// Achievements renders the catalog with unlocked entries highlighted.
func Achievements(list []models.Achievement) string {
	var lines []string
	for _, a := range list {
		if a.Unlocked {
			lines = append(lines, unlockStyle.Render("🏆 "+a.Title)+" "+a.Description)
		} else {
			lines = append(lines, lockedStyle.Render("🔒 "+a.Title+" "+a.Requirement))
		}
	}
	return strings.Join(lines, "\n")
}

// Insights renders the derived observations, one per line.
func Insights(list []models.Insight) string {
	if len(list) == 0 {
		return mutedStyle.Render("No insights yet.")
	}
	var lines []string
	for _, in := range list {
		style := lipgloss.NewStyle()
		switch in.Type {
		case models.InsightPositive:
			style = style.Foreground(lipgloss.Color("#10B981"))
		case models.InsightWarning:
			style = style.Foreground(lipgloss.Color("#F59E0B"))
		}
		lines = append(lines, fmt.Sprintf("%s %s", mutedStyle.Render(in.Label+":"), style.Render(in.Value)))
	}
	return strings.Join(lines, "\n")
}

// View lays out the full analytics tab.
func View(d metrics.Dashboard, tf metrics.Timeframe) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render(fmt.Sprintf("Trend · completion %d%% (30d) · streak %d", d.CompletionRate, d.Streak)),
		Sparkline(tf, d.Trend),
		sectionStyle.Render("Integrity"),
		Matrix(d.Integrity),
		sectionStyle.Render("Calendar"),
		Heatmap(d.Calendar),
		sectionStyle.Render("Achievements"),
		Achievements(d.Achievements),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
