package metrics

import (
	"testing"

	"github.com/julianstephens/ritual/internal/models"
)

func TestBucket(t *testing.T) {
	tests := []struct {
		rate float64
		want int
	}{
		{0, 0},
		{0.01, 1},
		{0.15, 1},
		{0.16, 2},
		{0.30, 2},
		{0.45, 3},
		{0.50, 4},
		{0.60, 4},
		{0.75, 5},
		{0.80, 6},
		{0.90, 6},
		{0.91, 7},
		{1.0, 7},
	}

	for _, tt := range tests {
		if got := Bucket(tt.rate); got != tt.want {
			t.Errorf("Bucket(%v) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestCalendar(t *testing.T) {
	habits := []models.Habit{habit("a"), habit("b"), habit("c"), habit("d")}
	logs := []models.HabitLog{
		done("a", 0), done("b", 0), done("c", 0), done("d", 0),
		done("a", 1), done("ghost", 1),
		done("a", 34),
	}

	days := Calendar(habits, logs, testToday, 35)
	if len(days) != 35 {
		t.Fatalf("Calendar() returned %d days, want 35", len(days))
	}

	last := days[len(days)-1]
	if !last.IsToday || last.Date != "2024-03-15" || last.Day != 15 {
		t.Errorf("last day = %+v, want today 2024-03-15", last)
	}
	if last.Rate != 1 || last.Bucket != 7 {
		t.Errorf("today rate/bucket = %v/%d, want 1/7", last.Rate, last.Bucket)
	}

	yesterday := days[len(days)-2]
	if yesterday.Rate != 0.25 || yesterday.Bucket != 2 {
		t.Errorf("yesterday rate/bucket = %v/%d, want 0.25/2", yesterday.Rate, yesterday.Bucket)
	}
	if yesterday.IsToday {
		t.Error("yesterday marked as today")
	}

	if days[0].Date != daysAgo(34) || days[0].Rate != 0.25 {
		t.Errorf("first day = %+v, want %s at 0.25", days[0], daysAgo(34))
	}
}

func TestCalendarNoActiveHabits(t *testing.T) {
	days := Calendar([]models.Habit{archived("a")}, streakLogs(5, "a"), testToday, 7)
	if len(days) != 7 {
		t.Fatalf("Calendar() returned %d days, want 7", len(days))
	}
	for _, d := range days {
		if d.Rate != 0 || d.Bucket != 0 {
			t.Errorf("day %s = %v/%d, want 0/0", d.Date, d.Rate, d.Bucket)
		}
	}
}
