package metrics

import (
	"time"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/models"
)

// Integrity summarizes up to limit active habits, in collection order, with
// their 30-day rate and a 7-day completion strip.
func Integrity(habits []models.Habit, logs []models.HabitLog, today time.Time, limit int) []models.HabitIntegrity {
	idx := newIndex(habits, logs)
	last7 := Window(today, constants.VarianceWindowDays)

	rows := []models.HabitIntegrity{}
	for _, h := range habits {
		if limit > 0 && len(rows) >= limit {
			break
		}
		if !h.IsActive() {
			continue
		}
		row := models.HabitIntegrity{
			Habit:   h,
			Rate30d: HabitCompletionRate(h.ID, logs, today),
		}
		for i, date := range last7 {
			row.Last7[i] = idx.habitDone(h.ID, date)
		}
		rows = append(rows, row)
	}
	return rows
}
