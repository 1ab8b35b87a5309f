// Package state holds the two persisted collections and every mutation
// that may be applied to them.
package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

// State is the application-state record: the habit registry and the
// completion history.
type State struct {
	Habits []models.Habit    `json:"habits"`
	Logs   []models.HabitLog `json:"logs"`
}

// ToggleHabitLog removes the (habitID, date) log when present and appends
// a completed one otherwise. Applying it twice yields the original logs as
// a set; a log that was removed and added back moves to the end.
func ToggleHabitLog(logs []models.HabitLog, habitID, date string) []models.HabitLog {
	out := make([]models.HabitLog, 0, len(logs)+1)
	found := false
	for _, l := range logs {
		if l.HabitID == habitID && l.Date == date {
			found = true
			continue
		}
		out = append(out, l)
	}
	if !found {
		out = append(out, models.HabitLog{HabitID: habitID, Date: date, Completed: true})
	}
	return out
}

// AddHabit validates draft and appends a new active habit starting today.
// An invalid draft returns ErrInvalidDraft and the habits unchanged.
func AddHabit(habits []models.Habit, draft models.HabitDraft, today time.Time, newID string) ([]models.Habit, models.Habit, error) {
	if err := draft.Validate(); err != nil {
		return habits, models.Habit{}, err
	}
	draft = draft.Normalize()

	color := draft.Color
	if color == "" {
		color = models.DefaultColor
	}

	h := models.Habit{
		ID:             newID,
		Name:           draft.Name,
		Category:       draft.Category,
		Frequency:      draft.Frequency,
		FrequencyValue: draft.FrequencyValue,
		StartDate:      utils.FormatDate(today),
		Priority:       draft.Priority,
		Notes:          draft.Notes,
		IsArchived:     false,
		Color:          color,
	}

	out := make([]models.Habit, len(habits), len(habits)+1)
	copy(out, habits)
	return append(out, h), h, nil
}

// RemoveHabit drops the habit and every log that references it.
func RemoveHabit(habits []models.Habit, logs []models.HabitLog, habitID string) ([]models.Habit, []models.HabitLog) {
	keptHabits := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.ID != habitID {
			keptHabits = append(keptHabits, h)
		}
	}

	keptLogs := make([]models.HabitLog, 0, len(logs))
	for _, l := range logs {
		if l.HabitID != habitID {
			keptLogs = append(keptLogs, l)
		}
	}
	return keptHabits, keptLogs
}

// SetArchived returns a copy of habits with the archive flag of habitID set.
// The boolean is false when no habit has that id.
func SetArchived(habits []models.Habit, habitID string, archived bool) ([]models.Habit, bool) {
	out := make([]models.Habit, len(habits))
	copy(out, habits)
	for i := range out {
		if out[i].ID == habitID {
			out[i].IsArchived = archived
			return out, true
		}
	}
	return out, false
}

// FindHabit resolves query against habit ids, then names case-insensitively,
// then unique name prefixes.
func FindHabit(habits []models.Habit, query string) (models.Habit, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return models.Habit{}, fmt.Errorf("%w: empty name", models.ErrHabitNotFound)
	}

	for _, h := range habits {
		if h.ID == q {
			return h, nil
		}
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, q) {
			return h, nil
		}
	}

	var matches []models.Habit
	lower := strings.ToLower(q)
	for _, h := range habits {
		if strings.HasPrefix(strings.ToLower(h.Name), lower) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %s", models.ErrHabitNotFound, q)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return models.Habit{}, fmt.Errorf("%w: %q matches %s", models.ErrAmbiguousHabit, q, strings.Join(names, ", "))
	}
}

// SanitizeLogs drops rows with completed=false and repeated (habitId, date)
// pairs, keeping the first occurrence. It reports how many rows it dropped.
func SanitizeLogs(logs []models.HabitLog) ([]models.HabitLog, int) {
	type key struct{ habit, date string }
	seen := make(map[key]bool, len(logs))
	out := make([]models.HabitLog, 0, len(logs))
	for _, l := range logs {
		k := key{l.HabitID, l.Date}
		if !l.Completed || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out, len(logs) - len(out)
}

func validateHabits(habits []models.Habit) error {
	for i, h := range habits {
		if strings.TrimSpace(h.ID) == "" {
			return fmt.Errorf("habit %d has no id", i)
		}
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("habit %s has no name", h.ID)
		}
	}
	return nil
}

func validateLogs(logs []models.HabitLog) error {
	for i, l := range logs {
		if l.HabitID == "" {
			return fmt.Errorf("log %d has no habitId", i)
		}
		if !utils.ValidateDateFormat(l.Date) {
			return fmt.Errorf("log %d has invalid date %q", i, l.Date)
		}
	}
	return nil
}
