// Package metrics derives every statistic shown by ritual from the raw habit
// and log collections. All functions are pure: "today" is always passed in
// and nothing is cached between calls.
package metrics

import (
	"time"

	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

// Window returns the n calendar dates ending at today (inclusive), oldest first.
func Window(today time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	day := utils.DateOnly(today)
	dates := make([]string, n)
	for i := 0; i < n; i++ {
		dates[i] = utils.FormatDate(utils.AddDays(day, i-(n-1)))
	}
	return dates
}

// index is the per-call lookup structure shared by the rate functions.
// Completions are keyed by date then habit id so duplicate rows for the same
// (habit, date) pair count once.
type index struct {
	active map[string]bool
	done   map[string]map[string]bool
}

func newIndex(habits []models.Habit, logs []models.HabitLog) index {
	idx := index{
		active: make(map[string]bool, len(habits)),
		done:   make(map[string]map[string]bool),
	}
	for _, h := range habits {
		if h.IsActive() {
			idx.active[h.ID] = true
		}
	}
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		byHabit, ok := idx.done[l.Date]
		if !ok {
			byHabit = make(map[string]bool)
			idx.done[l.Date] = byHabit
		}
		byHabit[l.HabitID] = true
	}
	return idx
}

// activeCount returns the number of active habits
func (idx index) activeCount() int {
	return len(idx.active)
}

// completedOn counts active habits with a completion on date
func (idx index) completedOn(date string) int {
	count := 0
	for habitID := range idx.done[date] {
		if idx.active[habitID] {
			count++
		}
	}
	return count
}

// habitDone reports whether habitID has a completion on date
func (idx index) habitDone(habitID, date string) bool {
	return idx.done[date][habitID]
}

// allDone reports whether every active habit is completed on date
func (idx index) allDone(date string) bool {
	n := idx.activeCount()
	return n > 0 && idx.completedOn(date) == n
}
