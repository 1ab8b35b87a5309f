package state

import (
	"math/rand/v2"
	"time"

	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

const (
	seedHistoryDays = 30
	seedChanceHigh  = 0.8
	seedChanceOther = 0.6
)

func intPtr(n int) *int { return &n }

// DefaultHabits is the sample registry installed on first run and after reset.
func DefaultHabits() []models.Habit {
	return []models.Habit{
		{
			ID:        "1",
			Name:      "Deep Work",
			Category:  "Productivity",
			Frequency: models.FrequencyDaily,
			StartDate: "2024-01-01",
			Priority:  models.PriorityHigh,
			Color:     "#10B981",
			Notes:     "Focus on core business tasks for 90 mins",
		},
		{
			ID:             "2",
			Name:           "Zone 2 Cardio",
			Category:       "Health",
			Frequency:      models.FrequencyWeekly,
			FrequencyValue: intPtr(4),
			StartDate:      "2024-01-01",
			Priority:       models.PriorityMedium,
			Color:          "#F59E0B",
			Notes:          "Keep heart rate between 130-145bpm",
		},
		{
			ID:        "3",
			Name:      "Evening Reflection",
			Category:  "Mental",
			Frequency: models.FrequencyDaily,
			StartDate: "2024-01-01",
			Priority:  models.PriorityLow,
			Color:     "#6366F1",
		},
	}
}

// SeedLogs generates 30 days of sample history ending today. High priority
// habits are completed on roughly 80% of days, the rest on 60%.
func SeedLogs(habits []models.Habit, today time.Time, rng *rand.Rand) []models.HabitLog {
	var logs []models.HabitLog
	for i := 0; i < seedHistoryDays; i++ {
		date := utils.FormatDate(utils.AddDays(today, -i))
		for _, h := range habits {
			chance := seedChanceOther
			if h.Priority == models.PriorityHigh {
				chance = seedChanceHigh
			}
			if rng.Float64() < chance {
				logs = append(logs, models.HabitLog{HabitID: h.ID, Date: date, Completed: true})
			}
		}
	}
	if logs == nil {
		logs = []models.HabitLog{}
	}
	return logs
}
