package metrics

import (
	"time"

	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

// Streak counts consecutive days, walking back from today, on which every
// active habit was completed. A day that falls short (today included) ends
// the streak.
func Streak(habits []models.Habit, logs []models.HabitLog, today time.Time) int {
	idx := newIndex(habits, logs)
	if idx.activeCount() == 0 {
		return 0
	}

	day := utils.DateOnly(today)
	streak := 0
	// Each counted day needs at least one log, which bounds the walk.
	for streak <= len(logs) {
		if !idx.allDone(utils.FormatDate(day)) {
			break
		}
		streak++
		day = utils.AddDays(day, -1)
	}
	return streak
}
