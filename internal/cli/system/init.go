package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/ritual/internal/cli"
	"github.com/julianstephens/ritual/internal/config"
	"github.com/julianstephens/ritual/internal/storage"
	"github.com/julianstephens/ritual/internal/storage/postgres"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing store before initialization."`
	Source string `help:"Source store path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.wipe(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized ritual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	// Fills in sample data for any collection the store does not have yet.
	if err := ctx.Controller.Load(); err != nil {
		return err
	}
	st := ctx.Controller.State()
	fmt.Printf("Ready: %d habit(s), %d log(s)\n", len(st.Habits), len(st.Logs))
	return nil
}

func (c *InitCmd) wipe(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		if err := ctx.Store.Init(); err != nil {
			return err
		}
		if err := ctx.Store.Clear(); err != nil {
			return fmt.Errorf("failed to clear existing store: %w", err)
		}
		fmt.Println("Cleared existing PostgreSQL store")
		return nil
	}

	dbPath := ctx.Store.GetConfigPath()
	// Don't delete if it's the source (user error protection)
	if c.Source != "" {
		absDbPath, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDbPath
		}
		absSource, err := filepath.Abs(c.Source)
		if err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		// Close first to release any file lock
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing store: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing store: %w", err)
		}
		fmt.Printf("Deleted existing store at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing store: %w", err)
	}
	return nil
}

// migrateData copies every slot from the source store verbatim. Slots are
// opaque JSON so any backend can feed any other.
func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	sourceStore, err := cli.NewStore(config.InferBackend(source), source)
	if err != nil {
		return err
	}
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source store: %w", err)
	}
	defer sourceStore.Close()

	return copySlots(sourceStore, ctx.Store)
}

func copySlots(src, dst storage.Provider) error {
	keys, err := src.Keys()
	if err != nil {
		return fmt.Errorf("failed to list source slots: %w", err)
	}

	for _, key := range keys {
		value, ok, err := src.Get(key)
		if err != nil {
			return fmt.Errorf("failed to read slot %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := dst.Put(key, value); err != nil {
			return fmt.Errorf("failed to write slot %s: %w", key, err)
		}
		fmt.Printf("  Migrated %s (%d bytes)\n", key, len(value))
	}
	return nil
}
