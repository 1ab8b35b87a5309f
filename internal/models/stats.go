package models

// AchievementCategory groups achievements in the catalog
type AchievementCategory string

// InsightType tags an insight for presentation
type InsightType string

const (
	AchievementStreak  AchievementCategory = "streak"
	AchievementVolume  AchievementCategory = "volume"
	AchievementMastery AchievementCategory = "mastery"

	InsightPositive InsightType = "positive"
	InsightWarning  InsightType = "warning"
	InsightNeutral  InsightType = "neutral"
)

// Achievement is a named milestone evaluated from current data.
// It is never persisted.
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Requirement string              `json:"requirement"`
	Category    AchievementCategory `json:"category"`
	Unlocked    bool                `json:"unlocked"`
}

// Insight is a short derived observation about behavior patterns
type Insight struct {
	Label string      `json:"label"`
	Value string      `json:"value"`
	Type  InsightType `json:"type"`
}

// DailyProgress summarizes today's completions against the active habit count
type DailyProgress struct {
	Completions int     `json:"completions"`
	Target      int     `json:"target"`
	Percent     float64 `json:"percent"`
}

// CalendarDay is one cell of the heatmap
type CalendarDay struct {
	Date    string  `json:"date"`
	Day     int     `json:"day"`
	Rate    float64 `json:"rate"`
	Bucket  int     `json:"bucket"`
	IsToday bool    `json:"isToday"`
}

// TrendPoint is one sample of the completion trend series
type TrendPoint struct {
	Date string `json:"date"`
	Rate int    `json:"rate"`
}

// HabitIntegrity is a per-habit summary row of the integrity matrix
type HabitIntegrity struct {
	Habit   Habit   `json:"habit"`
	Rate30d int     `json:"rate30d"`
	Last7   [7]bool `json:"last7"` // oldest first, today last
}
