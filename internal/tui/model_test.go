package tui

import (
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/metrics"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/state"
	"github.com/julianstephens/ritual/internal/storage"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func setupModel(t *testing.T) (Model, *state.Controller) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "ritual.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctrl := state.NewController(store,
		state.WithClock(func() time.Time { return testNow }),
		state.WithRand(rand.New(rand.NewPCG(1, 2))),
	)
	if err := ctrl.Load(); err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	return NewModel(ctrl, metrics.DefaultOptions()), ctrl
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and feeds any message produced by the returned command
// back into the model, the way the bubbletea runtime would.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	switch out := cmd().(type) {
	case nil, tea.BatchMsg:
		return m
	default:
		next, _ = m.Update(out)
		return next.(Model)
	}
}

func findHabit(ctrl *state.Controller, id string) (models.Habit, bool) {
	for _, h := range ctrl.State().Habits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}

func doneToday(ctrl *state.Controller, id string) bool {
	for _, l := range ctrl.State().Logs {
		if l.HabitID == id && l.Date == "2024-03-15" {
			return true
		}
	}
	return false
}

func TestTabCycling(t *testing.T) {
	m, _ := setupModel(t)

	steps := []struct {
		msg  tea.KeyMsg
		want constants.SessionState
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, constants.StateAnalytics},
		{tea.KeyMsg{Type: tea.KeyTab}, constants.StateHabits},
		{tea.KeyMsg{Type: tea.KeyTab}, constants.StateToday},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, constants.StateHabits},
	}
	for i, step := range steps {
		m = send(t, m, step.msg)
		if m.state != step.want {
			t.Fatalf("step %d: expected state %d, got %d", i, step.want, m.state)
		}
	}
}

func TestToggleFromToday(t *testing.T) {
	m, ctrl := setupModel(t)
	before := doneToday(ctrl, "1")
	completions := m.dashboard.Progress.Completions

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if doneToday(ctrl, "1") == before {
		t.Fatal("expected enter to toggle the selected habit")
	}
	if m.dashboard.Progress.Completions == completions {
		t.Error("expected dashboard to be refreshed after toggle")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if doneToday(ctrl, "1") != before {
		t.Error("expected second toggle to restore the original state")
	}
	if m.errMsg != "" {
		t.Errorf("unexpected error: %s", m.errMsg)
	}
}

func TestArchiveFromRegistry(t *testing.T) {
	m, ctrl := setupModel(t)
	m.state = constants.StateHabits

	m = send(t, m, keyRunes("x"))
	h, _ := findHabit(ctrl, "1")
	if !h.IsArchived {
		t.Fatal("expected Deep Work to be archived")
	}
	if strings.Contains(m.todayModel.View(), "Deep Work") {
		t.Error("archived habit should not be listed on the today tab")
	}

	send(t, m, keyRunes("x"))
	if h, _ := findHabit(ctrl, "1"); h.IsArchived {
		t.Error("expected Deep Work to be unarchived")
	}
}

func TestRemoveConfirmation(t *testing.T) {
	m, ctrl := setupModel(t)
	m.state = constants.StateHabits

	m = send(t, m, keyRunes("d"))
	if m.state != constants.StateConfirmRemove || m.habitToRemoveID != "1" {
		t.Fatalf("expected remove confirmation for habit 1, got state %d id %q", m.state, m.habitToRemoveID)
	}
	if !strings.Contains(m.View(), "Deep Work") {
		t.Error("expected confirmation to name the habit")
	}

	m = send(t, m, keyRunes("n"))
	if m.state != constants.StateHabits {
		t.Fatalf("expected to return to habits, got %d", m.state)
	}
	if _, ok := findHabit(ctrl, "1"); !ok {
		t.Fatal("declined removal should keep the habit")
	}

	m = send(t, m, keyRunes("d"))
	m = send(t, m, keyRunes("y"))
	if _, ok := findHabit(ctrl, "1"); ok {
		t.Error("expected habit to be removed")
	}
	for _, l := range ctrl.State().Logs {
		if l.HabitID == "1" {
			t.Fatal("expected logs of the removed habit to be dropped")
		}
	}
	if m.state != constants.StateHabits {
		t.Errorf("expected habits state after removal, got %d", m.state)
	}
}

func TestResetConfirmation(t *testing.T) {
	m, ctrl := setupModel(t)
	if _, err := ctrl.AddHabit(models.HabitDraft{Name: "Read", Category: "Mind"}); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	m = send(t, m, keyRunes("R"))
	if m.state != constants.StateConfirmReset {
		t.Fatalf("expected reset confirmation, got %d", m.state)
	}
	m = send(t, m, keyRunes("y"))
	if got := len(ctrl.State().Habits); got != 3 {
		t.Errorf("expected 3 sample habits after reset, got %d", got)
	}
	if m.state != constants.StateToday {
		t.Errorf("expected today state after reset, got %d", m.state)
	}
}

func TestTimeframeCycling(t *testing.T) {
	m, _ := setupModel(t)

	want := []metrics.Timeframe{metrics.TimeframeMonth, metrics.TimeframeYear, metrics.TimeframeWeek}
	for _, tf := range want {
		m = send(t, m, keyRunes("t"))
		if m.opts.Timeframe != tf {
			t.Fatalf("expected timeframe %s, got %s", tf, m.opts.Timeframe)
		}
		if len(m.dashboard.Trend) != tf.Days()+1 {
			t.Errorf("expected %d trend points, got %d", tf.Days()+1, len(m.dashboard.Trend))
		}
	}
}

func TestAddHabitOpensForm(t *testing.T) {
	m, _ := setupModel(t)
	m.state = constants.StateHabits

	m = send(t, m, keyRunes("a"))
	if m.state != constants.StateAddHabit || m.form == nil {
		t.Fatalf("expected add-habit form, got state %d", m.state)
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != constants.StateHabits {
		t.Errorf("expected esc to close the form, got %d", m.state)
	}
}

func TestHabitFormDraft(t *testing.T) {
	tests := []struct {
		name    string
		fm      HabitFormModel
		wantPer *int
		wantErr bool
	}{
		{"daily ignores per", HabitFormModel{Frequency: models.FrequencyDaily, Per: "3"}, nil, false},
		{"weekly", HabitFormModel{Frequency: models.FrequencyWeekly, Per: "3"}, intPtr(3), false},
		{"custom blank", HabitFormModel{Frequency: models.FrequencyCustom}, nil, false},
		{"not a number", HabitFormModel{Frequency: models.FrequencyWeekly, Per: "x"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft, err := tt.fm.Draft()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Draft() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			switch {
			case tt.wantPer == nil && draft.FrequencyValue != nil:
				t.Errorf("expected no frequency value, got %d", *draft.FrequencyValue)
			case tt.wantPer != nil && (draft.FrequencyValue == nil || *draft.FrequencyValue != *tt.wantPer):
				t.Errorf("expected frequency value %d, got %v", *tt.wantPer, draft.FrequencyValue)
			}
		})
	}
}

func intPtr(n int) *int { return &n }
