package metrics

import (
	"math"
	"time"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/models"
)

// HabitCompletionRate returns the share of the trailing 30 days (today
// included) on which habitID was completed, as a rounded integer percent.
func HabitCompletionRate(habitID string, logs []models.HabitLog, today time.Time) int {
	days := make(map[string]bool, constants.RateWindowDays)
	for _, date := range Window(today, constants.RateWindowDays) {
		days[date] = false
	}

	completed := 0
	for _, l := range logs {
		if l.HabitID != habitID || !l.Completed {
			continue
		}
		seen, inWindow := days[l.Date]
		if !inWindow || seen {
			continue
		}
		days[l.Date] = true
		completed++
	}

	return percent(completed, constants.RateWindowDays)
}

// CompletionRate returns completed logs of active habits over the trailing
// 30-day window divided by the number of expected completions. Logs that
// reference missing or archived habits are ignored. It is 0 when there are
// no active habits.
func CompletionRate(habits []models.Habit, logs []models.HabitLog, today time.Time) int {
	idx := newIndex(habits, logs)
	active := idx.activeCount()
	if active == 0 {
		return 0
	}

	completed := 0
	for _, date := range Window(today, constants.RateWindowDays) {
		completed += idx.completedOn(date)
	}

	return percent(completed, active*constants.RateWindowDays)
}

// Progress reports today's completions against the number of active habits.
func Progress(habits []models.Habit, logs []models.HabitLog, today time.Time) models.DailyProgress {
	idx := newIndex(habits, logs)
	p := models.DailyProgress{
		Completions: idx.completedOn(Window(today, 1)[0]),
		Target:      idx.activeCount(),
	}
	if p.Target > 0 {
		p.Percent = float64(p.Completions) / float64(p.Target) * 100
	}
	return p
}

// percent rounds part/whole to an integer percentage clamped to [0, 100].
func percent(part, whole int) int {
	if whole <= 0 || part <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) / float64(whole) * 100))
	if p > 100 {
		return 100
	}
	return p
}
