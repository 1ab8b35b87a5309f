package state

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/logger"
	"github.com/julianstephens/ritual/internal/metrics"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/storage"
	"github.com/julianstephens/ritual/internal/utils"
)

// Controller owns the in-memory State and writes both collections back to
// the provider after every accepted command.
type Controller struct {
	store storage.Provider
	now   func() time.Time
	newID func() string
	rng   *rand.Rand
	state State
}

type Option func(*Controller)

// WithClock overrides time.Now. Only the calendar date of the result is used.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) { c.newID = newID }
}

// WithRand fixes the generator used for sample history.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

func NewController(store storage.Provider, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		state: State{Habits: []models.Habit{}, Logs: []models.HabitLog{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Today returns the current calendar date at midnight in the clock's zone.
func (c *Controller) Today() time.Time {
	return utils.DateOnly(c.now())
}

// State returns a copy of the current collections.
func (c *Controller) State() State {
	return State{
		Habits: append([]models.Habit{}, c.state.Habits...),
		Logs:   append([]models.HabitLog{}, c.state.Logs...),
	}
}

// Dashboard derives every metric for the current state.
func (c *Controller) Dashboard(opts metrics.Options) metrics.Dashboard {
	return metrics.Snapshot(c.state.Habits, c.state.Logs, c.Today(), opts)
}

// Load reads both collections. A missing, unparseable or malformed
// collection is replaced and written back; only provider I/O failures are
// returned. Sample logs are generated only when the habits are the sample
// registry too, and logs kept next to a replaced registry are limited to
// its habits, so every loaded log references a loaded habit.
func (c *Controller) Load() error {
	habits, habitsOK, err := c.loadHabits()
	if err != nil {
		return err
	}
	logs, logsOK, err := c.loadLogs()
	if err != nil {
		return err
	}

	switch {
	case !logsOK && !habitsOK:
		logs = c.sampleLogs()
	case !logsOK:
		logs = []models.HabitLog{}
	case !habitsOK:
		var dropped int
		logs, dropped = keepKnownHabits(logs, habits)
		if dropped > 0 {
			logger.Warn("Dropped logs for habits that no longer exist", "count", dropped)
		}
	}

	c.state = State{Habits: habits, Logs: logs}
	if habitsOK && logsOK {
		return nil
	}

	logger.Info("Writing defaults for missing collections", "habits", !habitsOK, "logs", !logsOK)
	return c.save()
}

func (c *Controller) loadHabits() ([]models.Habit, bool, error) {
	habits, ok, err := storage.LoadCollection[models.Habit](c.store, constants.HabitsKey)
	switch {
	case err != nil && !ok:
		return nil, false, fmt.Errorf("failed to read habits: %w", err)
	case err != nil:
		logger.Warn("Stored habits are unreadable, using defaults", "error", err)
		return DefaultHabits(), false, nil
	case !ok:
		return DefaultHabits(), false, nil
	}

	if err := validateHabits(habits); err != nil {
		logger.Warn("Stored habits are malformed, using defaults", "error", err)
		return DefaultHabits(), false, nil
	}
	return habits, true, nil
}

// loadLogs returns nil logs with ok false when the slot is missing or
// unusable; Load decides what replaces them.
func (c *Controller) loadLogs() ([]models.HabitLog, bool, error) {
	logs, ok, err := storage.LoadCollection[models.HabitLog](c.store, constants.LogsKey)
	switch {
	case err != nil && !ok:
		return nil, false, fmt.Errorf("failed to read logs: %w", err)
	case err != nil:
		logger.Warn("Stored logs are unreadable, using defaults", "error", err)
		return nil, false, nil
	case !ok:
		return nil, false, nil
	}

	if err := validateLogs(logs); err != nil {
		logger.Warn("Stored logs are malformed, using defaults", "error", err)
		return nil, false, nil
	}

	clean, dropped := SanitizeLogs(logs)
	if dropped > 0 {
		logger.Warn("Dropped duplicate or incomplete logs", "count", dropped)
	}
	return clean, true, nil
}

func (c *Controller) sampleLogs() []models.HabitLog {
	return SeedLogs(DefaultHabits(), c.Today(), c.rng)
}

func keepKnownHabits(logs []models.HabitLog, habits []models.Habit) ([]models.HabitLog, int) {
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}
	out := make([]models.HabitLog, 0, len(logs))
	for _, l := range logs {
		if known[l.HabitID] {
			out = append(out, l)
		}
	}
	return out, len(logs) - len(out)
}

func (c *Controller) save() error {
	if err := storage.SaveCollection(c.store, constants.HabitsKey, c.state.Habits); err != nil {
		return err
	}
	return storage.SaveCollection(c.store, constants.LogsKey, c.state.Logs)
}

func (c *Controller) commit(next State) error {
	c.state = next
	if err := c.save(); err != nil {
		logger.Error("Failed to persist state", "error", err)
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

func (c *Controller) habitExists(habitID string) bool {
	for _, h := range c.state.Habits {
		if h.ID == habitID {
			return true
		}
	}
	return false
}

// ToggleLog flips the completion of habitID on date (YYYY-MM-DD) and
// reports whether the habit is now completed for that date.
func (c *Controller) ToggleLog(habitID, date string) (bool, error) {
	if !c.habitExists(habitID) {
		return false, fmt.Errorf("%w: %s", models.ErrHabitNotFound, habitID)
	}
	if !utils.ValidateDateFormat(date) {
		return false, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", date)
	}

	logs := ToggleHabitLog(c.state.Logs, habitID, date)
	done := len(logs) > len(c.state.Logs)
	logger.Debug("Toggled habit log", "habit", habitID, "date", date, "completed", done)
	return done, c.commit(State{Habits: c.state.Habits, Logs: logs})
}

// ToggleToday is ToggleLog for the current date.
func (c *Controller) ToggleToday(habitID string) (bool, error) {
	return c.ToggleLog(habitID, utils.FormatDate(c.Today()))
}

// AddHabit creates a habit from draft. Invalid drafts leave the state and
// the store untouched.
func (c *Controller) AddHabit(draft models.HabitDraft) (models.Habit, error) {
	habits, h, err := AddHabit(c.state.Habits, draft, c.Today(), c.newID())
	if err != nil {
		return models.Habit{}, err
	}
	logger.Info("Added habit", "id", h.ID, "name", h.Name)
	return h, c.commit(State{Habits: habits, Logs: c.state.Logs})
}

// RemoveHabit deletes a habit together with its history.
func (c *Controller) RemoveHabit(habitID string) error {
	if !c.habitExists(habitID) {
		return fmt.Errorf("%w: %s", models.ErrHabitNotFound, habitID)
	}
	habits, logs := RemoveHabit(c.state.Habits, c.state.Logs, habitID)
	logger.Info("Removed habit", "id", habitID, "logs", len(c.state.Logs)-len(logs))
	return c.commit(State{Habits: habits, Logs: logs})
}

func (c *Controller) SetArchived(habitID string, archived bool) error {
	habits, ok := SetArchived(c.state.Habits, habitID, archived)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrHabitNotFound, habitID)
	}
	return c.commit(State{Habits: habits, Logs: c.state.Logs})
}

// FindHabit resolves a habit by id or name in the current registry.
func (c *Controller) FindHabit(query string) (models.Habit, error) {
	return FindHabit(c.state.Habits, query)
}

// Reset wipes every slot and reinstalls the sample data.
func (c *Controller) Reset() error {
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	logger.Warn("Storage cleared, reseeding sample data")
	return c.commit(State{Habits: DefaultHabits(), Logs: c.sampleLogs()})
}
