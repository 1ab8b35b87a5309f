package constants

const (
	// RateWindowDays is the trailing window used for completion rates.
	RateWindowDays = 30

	// VarianceWindowDays is the trailing window scanned for drop-off habits.
	VarianceWindowDays = 7

	// DefaultCalendarDays fills a 5x7 heatmap grid.
	DefaultCalendarDays = 35

	// MomentumCapacity is the log count treated as 100% density.
	MomentumCapacity = 500

	// DefaultMatrixSize is the number of habits shown in the integrity matrix.
	DefaultMatrixSize = 4

	// Achievement thresholds
	StreakAchievementDays = 7
	VolumeAchievementLogs = 100
	MasteryRateThreshold  = 90
	MasteryHabitsRequired = 1

	// Trend windows
	TrendWeekDays  = 7
	TrendMonthDays = 30
	TrendYearDays  = 90
)
