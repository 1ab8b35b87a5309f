package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

const (
	InsightPeakLabel     = "Tactical Peak"
	InsightVarianceLabel = "Variance Alert"
	InsightMomentumLabel = "System Momentum"
)

// Insights returns the ordered observations for the dashboard: the peak
// weekday, an optional drop-off warning and the momentum score. It returns
// no insights when there are no habits at all.
func Insights(habits []models.Habit, logs []models.HabitLog, today time.Time) []models.Insight {
	if len(habits) == 0 {
		return []models.Insight{}
	}

	insights := []models.Insight{{
		Label: InsightPeakLabel,
		Value: fmt.Sprintf("Max output identified on %s cycles.", PeakWeekday(logs)),
		Type:  models.InsightPositive,
	}}

	if h, ok := AtRiskHabit(habits, logs, today); ok {
		insights = append(insights, models.Insight{
			Label: InsightVarianceLabel,
			Value: fmt.Sprintf("%q is showing drop-off. Audit protocol.", h.Name),
			Type:  models.InsightWarning,
		})
	}

	insights = append(insights, models.Insight{
		Label: InsightMomentumLabel,
		Value: fmt.Sprintf("Protocol density at %d%% capacity.", Momentum(logs)),
		Type:  models.InsightNeutral,
	})

	return insights
}

// PeakWeekday returns the weekday with the most completed logs. Ties go to
// the lowest weekday index, so an empty history yields Sunday.
func PeakWeekday(logs []models.HabitLog) time.Weekday {
	var counts [7]int
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		d, err := utils.ParseDate(l.Date)
		if err != nil {
			continue
		}
		counts[d.Weekday()]++
	}

	best := time.Sunday
	for wd := time.Monday; wd <= time.Saturday; wd++ {
		if counts[wd] > counts[best] {
			best = wd
		}
	}
	return best
}

// AtRiskHabit returns the first active habit, in collection order, with
// exactly one completion in the trailing 7 days.
func AtRiskHabit(habits []models.Habit, logs []models.HabitLog, today time.Time) (models.Habit, bool) {
	window := make(map[string]bool, constants.VarianceWindowDays)
	for _, date := range Window(today, constants.VarianceWindowDays) {
		window[date] = true
	}

	counts := make(map[string]map[string]bool)
	for _, l := range logs {
		if !l.Completed || !window[l.Date] {
			continue
		}
		if counts[l.HabitID] == nil {
			counts[l.HabitID] = make(map[string]bool)
		}
		counts[l.HabitID][l.Date] = true
	}

	for _, h := range habits {
		if !h.IsActive() {
			continue
		}
		if n := len(counts[h.ID]); n > 0 && n < 2 {
			return h, true
		}
	}
	return models.Habit{}, false
}

// Momentum is the total log count as a percentage of a fixed capacity.
// It is not bounded above by 100.
func Momentum(logs []models.HabitLog) int {
	return int(math.Round(float64(len(logs)) / constants.MomentumCapacity * 100))
}
