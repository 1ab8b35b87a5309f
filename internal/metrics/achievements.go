package metrics

import (
	"time"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/models"
)

const (
	AchievementStreak7   = "streak-7"
	AchievementVolume100 = "volume-100"
	AchievementMastery1  = "mastery-1"
)

// Catalog returns the static achievement definitions, all locked.
func Catalog() []models.Achievement {
	return []models.Achievement{
		{
			ID:          AchievementStreak7,
			Title:       "Vanguard Protocol",
			Description: "Complete every active habit 7 days in a row.",
			Requirement: "7 Day Streak",
			Category:    models.AchievementStreak,
		},
		{
			ID:          AchievementVolume100,
			Title:       "Century Merit",
			Description: "Log 100 habit completions.",
			Requirement: "100 Logs",
			Category:    models.AchievementVolume,
		},
		{
			ID:          AchievementMastery1,
			Title:       "Peak Efficiency",
			Description: "Keep one habit above 90% over the last 30 days.",
			Requirement: "1 Mastery Habit",
			Category:    models.AchievementMastery,
		},
	}
}

// Achievements evaluates the catalog against the current collections.
func Achievements(habits []models.Habit, logs []models.HabitLog, today time.Time) []models.Achievement {
	streak := Streak(habits, logs, today)

	mastered := 0
	for _, h := range habits {
		if !h.IsActive() {
			continue
		}
		if HabitCompletionRate(h.ID, logs, today) > constants.MasteryRateThreshold {
			mastered++
		}
	}

	catalog := Catalog()
	for i := range catalog {
		switch catalog[i].ID {
		case AchievementStreak7:
			catalog[i].Unlocked = streak >= constants.StreakAchievementDays
		case AchievementVolume100:
			catalog[i].Unlocked = len(logs) >= constants.VolumeAchievementLogs
		case AchievementMastery1:
			catalog[i].Unlocked = mastered >= constants.MasteryHabitsRequired
		}
	}
	return catalog
}
