package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/ritual/internal/cli"
	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/models"
	"github.com/julianstephens/ritual/internal/storage"
	"github.com/julianstephens/ritual/internal/utils"
)

// versioned is implemented by the SQL stores.
type versioned interface {
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	fail := func(name string, err error) {
		fmt.Printf("❌ %s: FAIL\n", name)
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, err error) {
		fmt.Printf("⚠ %s: WARNING\n", name)
		fmt.Printf("   %v\n", err)
	}
	skip := func(name, reason string) {
		fmt.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
	}
	ok := func(name string) {
		fmt.Printf("✓ %s: OK\n", name)
	}

	// Check 1: store reachable
	reachable := false
	if err := ctx.Store.Load(); err != nil {
		fail("Store reachable", err)
	} else {
		ok("Store reachable")
		reachable = true
	}

	// Check 2: schema version (SQL stores only)
	if _, isSQL := ctx.Store.(versioned); !reachable {
		skip("Schema version", "store not reachable")
	} else if !isSQL {
		skip("Schema version", "json store has no schema")
	} else if err := checkSchemaVersion(ctx.Store); err != nil {
		fail("Schema version", err)
	} else {
		ok("Schema version")
	}

	// Checks 3-6 read the raw collections without rewriting them.
	if reachable {
		habits, logs, err := readCollections(ctx.Store)
		if err != nil {
			fail("Collections parse", err)
		} else {
			ok("Collections parse")

			today := ctx.Controller.Today()
			if err := checkOrphanLogs(habits, logs); err != nil {
				warn("Log references", err)
			} else {
				ok("Log references")
			}
			if err := checkDuplicateLogs(logs); err != nil {
				warn("Duplicate logs", err)
			} else {
				ok("Duplicate logs")
			}
			if err := checkFutureLogs(logs, today); err != nil {
				warn("Log dates", err)
			} else {
				ok("Log dates")
			}
		}
	} else {
		skip("Collections parse", "store not reachable")
	}

	// Check 7: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		if errors.Is(err, cli.ErrBackupsUnsupported) {
			skip("Backups present", "postgres store")
		} else {
			warn("Backups present", err)
		}
	} else {
		ok("Backups present")
	}

	// Check 8: timezone
	if _, err := utils.LoadLocation(ctx.Config.Display.Timezone); err != nil {
		fail("Timezone", err)
	} else {
		ok("Timezone")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSchemaVersion(store storage.Provider) error {
	v, ok := store.(versioned)
	if !ok {
		return nil
	}
	current, latest, err := v.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// readCollections decodes both slots. An absent slot reads as empty.
func readCollections(store storage.Provider) ([]models.Habit, []models.HabitLog, error) {
	habits, _, err := storage.LoadCollection[models.Habit](store, constants.HabitsKey)
	if err != nil {
		return nil, nil, err
	}
	logs, _, err := storage.LoadCollection[models.HabitLog](store, constants.LogsKey)
	if err != nil {
		return nil, nil, err
	}
	return habits, logs, nil
}

func checkOrphanLogs(habits []models.Habit, logs []models.HabitLog) error {
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		known[h.ID] = true
	}

	orphans := 0
	for _, l := range logs {
		if !known[l.HabitID] {
			orphans++
		}
	}
	if orphans > 0 {
		return fmt.Errorf("%d log(s) reference a habit that no longer exists", orphans)
	}
	return nil
}

func checkDuplicateLogs(logs []models.HabitLog) error {
	seen := make(map[[2]string]bool, len(logs))
	dupes := 0
	for _, l := range logs {
		k := [2]string{l.HabitID, l.Date}
		if seen[k] {
			dupes++
		}
		seen[k] = true
	}
	if dupes > 0 {
		return fmt.Errorf("%d duplicate (habit, date) log(s); they are ignored on load", dupes)
	}
	return nil
}

func checkFutureLogs(logs []models.HabitLog, today time.Time) error {
	todayStr := utils.FormatDate(today)
	future := 0
	for _, l := range logs {
		// YYYY-MM-DD compares chronologically as a string
		if l.Date > todayStr {
			future++
		}
	}
	if future > 0 {
		return fmt.Errorf("%d log(s) dated after %s", future, todayStr)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'ritual backup create'")
	}
	return nil
}
