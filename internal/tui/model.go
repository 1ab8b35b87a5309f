package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/metrics"
	"github.com/julianstephens/ritual/internal/state"
	"github.com/julianstephens/ritual/internal/tui/components/registry"
	"github.com/julianstephens/ritual/internal/tui/components/today"
	"github.com/julianstephens/ritual/internal/utils"
)

// tabs in display order; the session states share the same index
var tabTitles = []string{"Today", "Analytics", "Habits"}

type Model struct {
	controller      *state.Controller
	opts            metrics.Options
	state           constants.SessionState
	keys            KeyMap
	help            help.Model
	todayModel      today.Model
	registryModel   registry.Model
	form            *huh.Form
	habitForm       *HabitFormModel
	dashboard       metrics.Dashboard
	habitToRemoveID string
	errMsg          string
	watcher         *StoreWatcher
	reload          func() error
	width           int
	height          int
	quitting        bool
}

// NewModel builds the TUI around an already loaded controller.
func NewModel(ctrl *state.Controller, opts metrics.Options) Model {
	m := Model{
		controller:    ctrl,
		opts:          opts,
		state:         constants.StateToday,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		todayModel:    today.New(nil, 80, 20),
		registryModel: registry.New(nil, 80, 20),
		width:         80,
		height:        24,
	}
	m.refresh()
	return m
}

// refresh recomputes the dashboard and both lists from the controller.
func (m *Model) refresh() {
	if m.opts.Timeframe == "" {
		m.opts.Timeframe = metrics.TimeframeWeek
	}
	m.dashboard = m.controller.Dashboard(m.opts)

	st := m.controller.State()
	todayKey := utils.FormatDate(m.controller.Today())
	done := make(map[string]bool)
	for _, l := range st.Logs {
		if l.Date == todayKey && l.Completed {
			done[l.HabitID] = true
		}
	}

	var items []today.Item
	for _, h := range st.Habits {
		if h.IsArchived {
			continue
		}
		items = append(items, today.Item{
			Habit:  h,
			Done:   done[h.ID],
			Rate30: metrics.HabitCompletionRate(h.ID, st.Logs, m.controller.Today()),
		})
	}
	m.todayModel.SetItems(items)
	m.registryModel.SetHabits(st.Habits)
}

// WithWatcher makes the model call reload and redraw whenever w reports
// that the store changed on disk.
func (m Model) WithWatcher(w *StoreWatcher, reload func() error) Model {
	m.watcher = w
	m.reload = reload
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.Wait()
	}
	return nil
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Timeframe, m.keys.Help, m.keys.Quit}
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Up, m.keys.Down},
		{m.keys.Timeframe, m.keys.Reset, m.keys.Help, m.keys.Quit},
	}
}
