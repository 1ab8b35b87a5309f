package metrics

import (
	"time"

	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

// bucketThresholds are the inclusive upper bounds of heatmap tiers 1..6.
// A rate of 0 is tier 0 and anything above the last bound is tier 7.
var bucketThresholds = [...]float64{0.15, 0.30, 0.45, 0.60, 0.75, 0.90}

// BucketCount is the number of heatmap tiers.
const BucketCount = len(bucketThresholds) + 2

// Bucket maps a completion rate in [0,1] to a heatmap tier in [0,7].
func Bucket(rate float64) int {
	if rate <= 0 {
		return 0
	}
	for i, upper := range bucketThresholds {
		if rate <= upper {
			return i + 1
		}
	}
	return BucketCount - 1
}

// Calendar returns one cell per day for the trailing windowDays, oldest first.
func Calendar(habits []models.Habit, logs []models.HabitLog, today time.Time, windowDays int) []models.CalendarDay {
	idx := newIndex(habits, logs)
	active := idx.activeCount()
	todayStr := utils.FormatDate(today)

	dates := Window(today, windowDays)
	days := make([]models.CalendarDay, 0, len(dates))
	for _, date := range dates {
		var rate float64
		if active > 0 {
			rate = float64(idx.completedOn(date)) / float64(active)
		}
		d, _ := utils.ParseDate(date)
		days = append(days, models.CalendarDay{
			Date:    date,
			Day:     d.Day(),
			Rate:    rate,
			Bucket:  Bucket(rate),
			IsToday: date == todayStr,
		})
	}
	return days
}
