package metrics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/models"
)

// Timeframe selects the span of the trend series
type Timeframe string

const (
	TimeframeWeek  Timeframe = "W"
	TimeframeMonth Timeframe = "M"
	TimeframeYear  Timeframe = "Y"
)

// Days returns how many days back the timeframe reaches.
func (t Timeframe) Days() int {
	switch t {
	case TimeframeMonth:
		return constants.TrendMonthDays
	case TimeframeYear:
		return constants.TrendYearDays
	default:
		return constants.TrendWeekDays
	}
}

// Label returns a display name for the timeframe.
func (t Timeframe) Label() string {
	switch t {
	case TimeframeMonth:
		return "Monthly"
	case TimeframeYear:
		return "Yearly"
	default:
		return "Weekly"
	}
}

// Next cycles W -> M -> Y -> W.
func (t Timeframe) Next() Timeframe {
	switch t {
	case TimeframeWeek:
		return TimeframeMonth
	case TimeframeMonth:
		return TimeframeYear
	default:
		return TimeframeWeek
	}
}

// ParseTimeframe accepts W/M/Y or week/month/year.
func ParseTimeframe(s string) (Timeframe, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "w", "week", "weekly":
		return TimeframeWeek, nil
	case "m", "month", "monthly":
		return TimeframeMonth, nil
	case "y", "year", "yearly":
		return TimeframeYear, nil
	}
	return "", fmt.Errorf("invalid timeframe: %s (expected W, M or Y)", s)
}

// Trend returns the daily completion percentage from Days() ago through
// today, so a weekly trend has 8 points.
func Trend(habits []models.Habit, logs []models.HabitLog, today time.Time, tf Timeframe) []models.TrendPoint {
	idx := newIndex(habits, logs)
	active := idx.activeCount()

	dates := Window(today, tf.Days()+1)
	points := make([]models.TrendPoint, len(dates))
	for i, date := range dates {
		rate := 0
		if active > 0 {
			rate = int(math.Round(float64(idx.completedOn(date)) / float64(active) * 100))
		}
		points[i] = models.TrendPoint{Date: date, Rate: rate}
	}
	return points
}
