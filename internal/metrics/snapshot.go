package metrics

import (
	"time"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/utils"
)

// Options tune the windowed views of a Dashboard
type Options struct {
	CalendarDays int
	Timeframe    Timeframe
	MatrixSize   int
}

// DefaultOptions returns the dashboard layout used by the TUI
func DefaultOptions() Options {
	return Options{
		CalendarDays: constants.DefaultCalendarDays,
		Timeframe:    TimeframeWeek,
		MatrixSize:   constants.DefaultMatrixSize,
	}
}

// Dashboard bundles every derived view for one (habits, logs, today) input
type Dashboard struct {
	Today          string                  `json:"today"`
	CompletionRate int                     `json:"completionRate"`
	Streak         int                     `json:"streak"`
	Progress       models.DailyProgress    `json:"progress"`
	Insights       []models.Insight        `json:"insights"`
	Achievements   []models.Achievement    `json:"achievements"`
	Calendar       []models.CalendarDay    `json:"calendar"`
	Trend          []models.TrendPoint     `json:"trend"`
	Integrity      []models.HabitIntegrity `json:"integrity"`
}

// Snapshot derives a full Dashboard.
func Snapshot(habits []models.Habit, logs []models.HabitLog, today time.Time, opts Options) Dashboard {
	if opts.CalendarDays <= 0 {
		opts.CalendarDays = constants.DefaultCalendarDays
	}
	if opts.Timeframe == "" {
		opts.Timeframe = TimeframeWeek
	}

	return Dashboard{
		Today:          utils.FormatDate(today),
		CompletionRate: CompletionRate(habits, logs, today),
		Streak:         Streak(habits, logs, today),
		Progress:       Progress(habits, logs, today),
		Insights:       Insights(habits, logs, today),
		Achievements:   Achievements(habits, logs, today),
		Calendar:       Calendar(habits, logs, today, opts.CalendarDays),
		Trend:          Trend(habits, logs, today, opts.Timeframe),
		Integrity:      Integrity(habits, logs, today, opts.MatrixSize),
	}
}
