package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/logger"
	"github.com/julianstephens/ritual/internal/tui/components/registry"
	"github.com/julianstephens/ritual/internal/tui/components/today"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// tabs, help and doc padding
		listHeight := max(0, msg.Height-6)
		m.todayModel.SetSize(msg.Width-4, listHeight-4)
		m.registryModel.SetSize(msg.Width-4, listHeight)
		return m, nil
	}

	if _, ok := msg.(StoreChangedMsg); ok {
		if err := m.reload(); err != nil {
			m.setError(err)
		} else {
			m.refresh()
		}
		return m, m.watcher.Wait()
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateForm(msg)
	case constants.StateConfirmRemove:
		return m.updateConfirmRemove(msg)
	case constants.StateConfirmReset:
		return m.updateConfirmReset(msg)
	}

	switch msg := msg.(type) {
	case today.ToggleHabitMsg:
		if _, err := m.controller.ToggleToday(msg.ID); err != nil {
			m.setError(err)
		}
		m.refresh()
		return m, nil

	case registry.AddHabitMsg:
		m.habitForm = newHabitFormModel()
		m.form = NewHabitForm(m.habitForm)
		m.errMsg = ""
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case registry.ArchiveHabitMsg:
		if err := m.controller.SetArchived(msg.ID, msg.Archived); err != nil {
			m.setError(err)
		}
		m.refresh()
		return m, nil

	case registry.RemoveHabitMsg:
		m.habitToRemoveID = msg.ID
		m.state = constants.StateConfirmRemove
		return m, nil

	case tea.KeyMsg:
		if m.state == constants.StateHabits && m.registryModel.Filtering() {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.errMsg = ""
			m.state = (m.state + 1) % constants.SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.errMsg = ""
			m.state = (m.state + constants.SessionState(len(tabTitles)) - 1) % constants.SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Timeframe):
			m.opts.Timeframe = m.opts.Timeframe.Next()
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.state = constants.StateConfirmReset
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case constants.StateHabits:
		m.registryModel, cmd = m.registryModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = constants.StateHabits
		draft, err := m.habitForm.Draft()
		if err == nil {
			_, err = m.controller.AddHabit(draft)
		}
		if err != nil {
			m.setError(err)
		}
		m.refresh()
		return m, nil
	case huh.StateAborted:
		m.state = constants.StateHabits
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmRemove(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			if err := m.controller.RemoveHabit(m.habitToRemoveID); err != nil {
				m.setError(err)
			}
			m.habitToRemoveID = ""
			m.state = constants.StateHabits
			m.refresh()
		case "n", "N", "esc":
			m.habitToRemoveID = ""
			m.state = constants.StateHabits
		}
	}
	return m, nil
}

func (m Model) updateConfirmReset(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			if err := m.controller.Reset(); err != nil {
				m.setError(err)
			}
			m.state = constants.StateToday
			m.refresh()
		case "n", "N", "esc":
			m.state = constants.StateToday
		}
	}
	return m, nil
}

// setError surfaces a failed command in the status line.
func (m *Model) setError(err error) {
	logger.Error("TUI command failed", "error", err)
	m.errMsg = err.Error()
}
