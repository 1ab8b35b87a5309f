package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/ritual/internal/cli"
	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/storage"
	"github.com/julianstephens/ritual/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "ritual.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return cli.NewContext(store, nil), dbPath
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init command failed: %v", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}

	keys, err := ctx.Store.Keys()
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected both collections to be written, got %v", keys)
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _ := setupTestInitDB(t)
	cmd := &InitCmd{}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if _, err := ctx.Controller.AddHabit(models.HabitDraft{Name: "Walk", Category: "Health"}); err != nil {
		t.Fatalf("add habit failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second init failed: %v", err)
	}

	if got := len(ctx.Controller.State().Habits); got != 4 {
		t.Errorf("expected 4 habits after re-init, got %d", got)
	}
}

func TestInitCmd_Force(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := ctx.Controller.AddHabit(models.HabitDraft{Name: "Walk", Category: "Health"}); err != nil {
		t.Fatalf("add habit failed: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	if got := len(ctx.Controller.State().Habits); got != 3 {
		t.Errorf("expected only the 3 sample habits after --force, got %d", got)
	}
}

func TestInitCmd_ForceRejectsSameSource(t *testing.T) {
	ctx, dbPath := setupTestInitDB(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if err := (&InitCmd{Force: true, Source: dbPath}).Run(ctx); err == nil {
		t.Error("expected error when source equals destination")
	}
}

func TestInitCmd_MigratesFromJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "old.json")

	src := storage.NewJSONStore(jsonPath)
	if err := src.Init(); err != nil {
		t.Fatalf("source init failed: %v", err)
	}
	habits := []models.Habit{{ID: "h1", Name: "Meditate", Category: "Mind", Frequency: models.FrequencyDaily, Priority: models.PriorityLow, StartDate: "2024-01-01"}}
	logs := []models.HabitLog{{HabitID: "h1", Date: "2024-01-02", Completed: true}}
	if err := storage.SaveCollection(src, constants.HabitsKey, habits); err != nil {
		t.Fatal(err)
	}
	if err := storage.SaveCollection(src, constants.LogsKey, logs); err != nil {
		t.Fatal(err)
	}

	ctx, _ := setupTestInitDB(t)
	if err := (&InitCmd{Source: jsonPath}).Run(ctx); err != nil {
		t.Fatalf("init with source failed: %v", err)
	}

	st := ctx.Controller.State()
	if len(st.Habits) != 1 || st.Habits[0].Name != "Meditate" {
		t.Errorf("expected migrated habit, got %+v", st.Habits)
	}
	if len(st.Logs) != 1 {
		t.Errorf("expected 1 migrated log, got %d", len(st.Logs))
	}
}
