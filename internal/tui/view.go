package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/tui/components/analytics"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateToday:
		content = m.viewToday()
	case constants.StateAnalytics:
		content = docStyle.Render(analytics.View(m.dashboard, m.opts.Timeframe))
	case constants.StateHabits:
		content = docStyle.Render(m.registryModel.View())
	case constants.StateAddHabit:
		content = m.form.View()
	case constants.StateConfirmRemove:
		content = m.viewConfirm(dangerStyle.Render(fmt.Sprintf("Remove %s and its entire history?", m.habitName(m.habitToRemoveID))))
	case constants.StateConfirmReset:
		content = m.viewConfirm(
			dangerStyle.Render("Reset all data?"),
			"Every habit and log is replaced by the sample data.",
		)
	}

	var status string
	if m.errMsg != "" {
		status = warningStyle.Render("⚠ " + m.errMsg)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		status,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewToday() string {
	d := m.dashboard
	p := d.Progress

	const barWidth = 30
	filled := max(0, min(barWidth, int(p.Percent*barWidth/100)))
	bar := lipgloss.NewStyle().Foreground(analytics.StatusColor(int(p.Percent))).Render(strings.Repeat("█", filled)) +
		strings.Repeat("░", barWidth-filled)

	header := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(fmt.Sprintf("%s · %d/%d done · streak %d", d.Today, p.Completions, p.Target, d.Streak)),
		fmt.Sprintf("%s %.0f%%", bar, p.Percent),
	)

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.todayModel.View(),
		analytics.Insights(d.Insights),
	))
}

func (m Model) viewConfirm(lines ...string) string {
	lines = append(lines, "", "[y] Yes", "[n] No")
	return lipgloss.Place(m.width, max(0, m.height-4),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, lines...),
	)
}

func (m Model) habitName(id string) string {
	for _, h := range m.controller.State().Habits {
		if h.ID == id {
			return h.Name
		}
	}
	return "this habit"
}
