package metrics

import (
	"testing"

	"github.com/julianstephens/ritual/internal/models"
)

func unlocked(achievements []models.Achievement, id string) bool {
	for _, a := range achievements {
		if a.ID == id {
			return a.Unlocked
		}
	}
	return false
}

func TestAchievementsEmpty(t *testing.T) {
	achievements := Achievements(nil, nil, testToday)
	if len(achievements) != 3 {
		t.Fatalf("Achievements() returned %d entries, want 3", len(achievements))
	}
	for _, a := range achievements {
		if a.Unlocked {
			t.Errorf("achievement %s unlocked with no data", a.ID)
		}
	}
}

func TestAchievementCatalogOrder(t *testing.T) {
	want := []string{AchievementStreak7, AchievementVolume100, AchievementMastery1}
	for i, a := range Catalog() {
		if a.ID != want[i] {
			t.Errorf("Catalog()[%d] = %s, want %s", i, a.ID, want[i])
		}
		if a.Unlocked {
			t.Errorf("Catalog() entry %s should start locked", a.ID)
		}
	}
}

func TestVolumeAchievementThreshold(t *testing.T) {
	habits := []models.Habit{habit("a")}
	logs := make([]models.HabitLog, 0, 100)
	for i := 0; i < 99; i++ {
		logs = append(logs, done("a", i))
	}

	if unlocked(Achievements(habits, logs, testToday), AchievementVolume100) {
		t.Error("volume-100 unlocked at 99 logs")
	}

	logs = append(logs, done("a", 99))
	if !unlocked(Achievements(habits, logs, testToday), AchievementVolume100) {
		t.Error("volume-100 locked at 100 logs")
	}

	logs = logs[:99]
	if unlocked(Achievements(habits, logs, testToday), AchievementVolume100) {
		t.Error("volume-100 still unlocked after removing a log")
	}
}

func TestStreakAchievement(t *testing.T) {
	habits := []models.Habit{habit("a")}

	if unlocked(Achievements(habits, streakLogs(6, "a"), testToday), AchievementStreak7) {
		t.Error("streak-7 unlocked with 6-day streak")
	}
	if !unlocked(Achievements(habits, streakLogs(7, "a"), testToday), AchievementStreak7) {
		t.Error("streak-7 locked with 7-day streak")
	}
}

func TestMasteryAchievement(t *testing.T) {
	habits := []models.Habit{habit("a"), habit("b")}

	// 27/30 = 90% is not strictly above the threshold
	if unlocked(Achievements(habits, streakLogs(27, "a"), testToday), AchievementMastery1) {
		t.Error("mastery-1 unlocked at 90%")
	}
	// 28/30 = 93%
	if !unlocked(Achievements(habits, streakLogs(28, "a"), testToday), AchievementMastery1) {
		t.Error("mastery-1 locked at 93%")
	}

	// archived habits do not qualify
	arch := []models.Habit{archived("a")}
	if unlocked(Achievements(arch, streakLogs(30, "a"), testToday), AchievementMastery1) {
		t.Error("mastery-1 unlocked by archived habit")
	}
}
