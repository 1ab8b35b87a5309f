package state

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/metrics"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/storage"
)

// memStore is an in-memory storage.Provider that records writes
type memStore struct {
	slots   map[string][]byte
	puts    int
	failPut error
}

func newMemStore() *memStore {
	return &memStore{slots: map[string][]byte{}}
}

func (m *memStore) Init() error  { return nil }
func (m *memStore) Load() error  { return nil }
func (m *memStore) Close() error { return nil }

func (m *memStore) Get(key string) ([]byte, bool, error) {
	v, ok := m.slots[key]
	return v, ok, nil
}

func (m *memStore) Put(key string, value []byte) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.puts++
	m.slots[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Clear() error {
	m.slots = map[string][]byte{}
	return nil
}

func (m *memStore) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.slots))
	for k := range m.slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) GetConfigPath() string { return "memory" }

var _ storage.Provider = (*memStore)(nil)

func newTestController(store storage.Provider) *Controller {
	ids := 0
	return NewController(store,
		WithClock(func() time.Time { return testToday }),
		WithIDGenerator(func() string {
			ids++
			return "id-" + string(rune('0'+ids))
		}),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	)
}

func putJSON(t *testing.T, m *memStore, key string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	m.slots[key] = data
}

func storedLogs(t *testing.T, m *memStore) []models.HabitLog {
	t.Helper()
	logs, ok, err := storage.LoadCollection[models.HabitLog](m, constants.LogsKey)
	if err != nil || !ok {
		t.Fatalf("stored logs unreadable: ok=%v err=%v", ok, err)
	}
	return logs
}

func TestLoadSeedsEmptyStore(t *testing.T) {
	store := newMemStore()
	c := newTestController(store)

	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	st := c.State()
	if len(st.Habits) != 3 || st.Habits[0].Name != "Deep Work" {
		t.Errorf("seeded habits = %+v", st.Habits)
	}
	if len(st.Logs) == 0 {
		t.Error("expected generated sample logs")
	}
	assertLogsReferenceHabits(t, st)
	for _, l := range st.Logs {
		if l.Date > "2024-03-15" || l.Date < "2024-02-15" {
			t.Errorf("sample log outside 30-day window: %+v", l)
		}
	}
	if _, ok := store.slots[constants.HabitsKey]; !ok {
		t.Error("seeded habits were not written back")
	}
	if _, ok := store.slots[constants.LogsKey]; !ok {
		t.Error("seeded logs were not written back")
	}
}

func TestLoadIsDeterministicWithFixedRand(t *testing.T) {
	a := newTestController(newMemStore())
	b := newTestController(newMemStore())
	if err := a.Load(); err != nil {
		t.Fatal(err)
	}
	if err := b.Load(); err != nil {
		t.Fatal(err)
	}
	if len(a.State().Logs) != len(b.State().Logs) {
		t.Error("same seed produced different sample history")
	}
}

func TestLoadKeepsValidData(t *testing.T) {
	store := newMemStore()
	habits := []models.Habit{{ID: "h1", Name: "Read", Category: "Learning"}}
	logs := []models.HabitLog{{HabitID: "h1", Date: "2024-03-15", Completed: true}}
	putJSON(t, store, constants.HabitsKey, habits)
	putJSON(t, store, constants.LogsKey, logs)

	c := newTestController(store)
	if err := c.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	st := c.State()
	if len(st.Habits) != 1 || st.Habits[0].ID != "h1" {
		t.Errorf("habits = %+v", st.Habits)
	}
	if len(st.Logs) != 1 {
		t.Errorf("logs = %+v", st.Logs)
	}
	if store.puts != 0 {
		t.Errorf("Load() wrote %d slots for intact data", store.puts)
	}
}

func TestLoadFallsBackPerKey(t *testing.T) {
	tests := []struct {
		name       string
		habits     string
		logs       string
		wantSeeded bool
	}{
		{"unparseable habits", `{broken`, `[]`, true},
		{"habits object", `{"id":"h1"}`, `[]`, true},
		{"habit without id", `[{"name":"Read"}]`, `[]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.slots[constants.HabitsKey] = []byte(tt.habits)
			store.slots[constants.LogsKey] = []byte(tt.logs)

			c := newTestController(store)
			if err := c.Load(); err != nil {
				t.Fatalf("Load() must not fail on malformed data: %v", err)
			}

			st := c.State()
			if len(st.Habits) != 3 {
				t.Errorf("habits = %+v, want sample registry", st.Habits)
			}
			if len(st.Logs) != 0 {
				t.Errorf("valid empty logs were replaced: %d rows", len(st.Logs))
			}
		})
	}
}

func assertLogsReferenceHabits(t *testing.T, st State) {
	t.Helper()
	known := make(map[string]bool, len(st.Habits))
	for _, h := range st.Habits {
		known[h.ID] = true
	}
	for _, l := range st.Logs {
		if !known[l.HabitID] {
			t.Errorf("log references unknown habit: %+v", l)
		}
	}
}

func TestLoadKeepsCollectionsConsistent(t *testing.T) {
	tests := []struct {
		name       string
		habits     string
		logs       string
		wantHabits int
		wantLogs   int
	}{
		{
			name:       "malformed logs next to user habits",
			habits:     `[{"id":"h1","name":"Read"}]`,
			logs:       `[{"habitId":"h1","date":"03/15/2024","completed":true}]`,
			wantHabits: 1,
			wantLogs:   0,
		},
		{
			name:       "unparseable logs next to user habits",
			habits:     `[{"id":"h1","name":"Read"}]`,
			logs:       `{broken`,
			wantHabits: 1,
			wantLogs:   0,
		},
		{
			name:       "malformed habits next to user logs",
			habits:     `{broken`,
			logs:       `[{"habitId":"h1","date":"2024-03-15","completed":true},{"habitId":"2","date":"2024-03-15","completed":true}]`,
			wantHabits: 3,
			wantLogs:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			store.slots[constants.HabitsKey] = []byte(tt.habits)
			store.slots[constants.LogsKey] = []byte(tt.logs)

			c := newTestController(store)
			if err := c.Load(); err != nil {
				t.Fatal(err)
			}
			st := c.State()
			if len(st.Habits) != tt.wantHabits {
				t.Errorf("habits = %+v, want %d", st.Habits, tt.wantHabits)
			}
			if len(st.Logs) != tt.wantLogs {
				t.Errorf("logs = %+v, want %d", st.Logs, tt.wantLogs)
			}
			if tt.wantHabits == 1 && st.Habits[0].ID != "h1" {
				t.Errorf("valid habits replaced: %+v", st.Habits)
			}
			assertLogsReferenceHabits(t, st)

			stored := storedLogs(t, store)
			if len(stored) != tt.wantLogs {
				t.Errorf("stored logs = %d, want %d", len(stored), tt.wantLogs)
			}
		})
	}
}

func TestLoadDropsDuplicateLogs(t *testing.T) {
	store := newMemStore()
	putJSON(t, store, constants.HabitsKey, []models.Habit{{ID: "h1", Name: "Read"}})
	putJSON(t, store, constants.LogsKey, []models.HabitLog{
		{HabitID: "h1", Date: "2024-03-15", Completed: true},
		{HabitID: "h1", Date: "2024-03-15", Completed: true},
		{HabitID: "h1", Date: "2024-03-14", Completed: false},
	})

	c := newTestController(store)
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if n := len(c.State().Logs); n != 1 {
		t.Errorf("logs after Load = %d, want 1", n)
	}
}

func TestControllerToggleScenario(t *testing.T) {
	store := newMemStore()
	putJSON(t, store, constants.HabitsKey, []models.Habit{{ID: "h1", Name: "Deep Work", Category: "Work", Priority: models.PriorityHigh}})
	putJSON(t, store, constants.LogsKey, []models.HabitLog{})

	c := newTestController(store)
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}

	done, err := c.ToggleToday("h1")
	if err != nil || !done {
		t.Fatalf("ToggleToday() = (%v, %v)", done, err)
	}

	d := c.Dashboard(metrics.DefaultOptions())
	if d.Progress.Completions != 1 || d.Progress.Target != 1 || d.Progress.Percent != 100 {
		t.Errorf("progress = %+v, want 1/1/100", d.Progress)
	}
	if d.Streak != 1 {
		t.Errorf("streak = %d, want 1", d.Streak)
	}
	if got := storedLogs(t, store); len(got) != 1 {
		t.Errorf("stored logs = %+v", got)
	}

	done, err = c.ToggleToday("h1")
	if err != nil || done {
		t.Fatalf("second ToggleToday() = (%v, %v)", done, err)
	}
	if d := c.Dashboard(metrics.DefaultOptions()); d.Streak != 0 {
		t.Errorf("streak after untoggle = %d, want 0", d.Streak)
	}
	if got := storedLogs(t, store); len(got) != 0 {
		t.Errorf("stored logs after untoggle = %+v", got)
	}
}

func TestRejectedCommandsSaveNothing(t *testing.T) {
	store := newMemStore()
	c := newTestController(store)
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	before := store.puts

	if _, err := c.AddHabit(models.HabitDraft{Name: "", Category: "Health"}); !errors.Is(err, models.ErrInvalidDraft) {
		t.Errorf("AddHabit() error = %v, want ErrInvalidDraft", err)
	}
	if _, err := c.ToggleToday("nope"); !errors.Is(err, models.ErrHabitNotFound) {
		t.Errorf("ToggleToday() error = %v, want ErrHabitNotFound", err)
	}
	if _, err := c.ToggleLog("1", "yesterday"); err == nil {
		t.Error("ToggleLog() accepted a bad date")
	}
	if err := c.RemoveHabit("nope"); !errors.Is(err, models.ErrHabitNotFound) {
		t.Errorf("RemoveHabit() error = %v", err)
	}
	if err := c.SetArchived("nope", true); !errors.Is(err, models.ErrHabitNotFound) {
		t.Errorf("SetArchived() error = %v", err)
	}

	if store.puts != before {
		t.Errorf("rejected commands wrote %d slots", store.puts-before)
	}
	if len(c.State().Habits) != 3 {
		t.Error("rejected commands changed the registry")
	}
}

func TestAddAndRemoveHabit(t *testing.T) {
	store := newMemStore()
	c := newTestController(store)
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}

	h, err := c.AddHabit(models.HabitDraft{Name: "Read", Category: "Learning"})
	if err != nil {
		t.Fatalf("AddHabit() error = %v", err)
	}
	if h.ID != "id-1" || h.StartDate != "2024-03-15" {
		t.Errorf("added habit = %+v", h)
	}
	if _, err := c.ToggleToday(h.ID); err != nil {
		t.Fatal(err)
	}

	if err := c.RemoveHabit(h.ID); err != nil {
		t.Fatalf("RemoveHabit() error = %v", err)
	}
	for _, l := range storedLogs(t, store) {
		if l.HabitID == h.ID {
			t.Error("removed habit's logs still stored")
		}
	}
	if _, err := c.FindHabit("Read"); !errors.Is(err, models.ErrHabitNotFound) {
		t.Errorf("FindHabit() after remove = %v", err)
	}
}

func TestArchiveExcludesFromTargets(t *testing.T) {
	store := newMemStore()
	putJSON(t, store, constants.HabitsKey, []models.Habit{
		{ID: "a", Name: "A", Category: "x"},
		{ID: "b", Name: "B", Category: "x"},
	})
	putJSON(t, store, constants.LogsKey, []models.HabitLog{})

	c := newTestController(store)
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if err := c.SetArchived("b", true); err != nil {
		t.Fatal(err)
	}
	if d := c.Dashboard(metrics.DefaultOptions()); d.Progress.Target != 1 {
		t.Errorf("target = %d, want 1", d.Progress.Target)
	}
}

func TestReset(t *testing.T) {
	store := newMemStore()
	putJSON(t, store, constants.HabitsKey, []models.Habit{{ID: "h1", Name: "Read"}})
	putJSON(t, store, constants.LogsKey, []models.HabitLog{})
	store.slots["stray"] = []byte(`[]`)

	c := newTestController(store)
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}

	if _, ok := store.slots["stray"]; ok {
		t.Error("Reset() left unrelated slots behind")
	}
	if st := c.State(); len(st.Habits) != 3 {
		t.Errorf("habits after Reset = %+v", st.Habits)
	}
}

func TestSaveFailureIsReported(t *testing.T) {
	store := newMemStore()
	c := newTestController(store)
	if err := c.Load(); err != nil {
		t.Fatal(err)
	}

	store.failPut = errors.New("disk full")
	if _, err := c.ToggleToday("1"); err == nil {
		t.Error("ToggleToday() hid a save failure")
	}
}
