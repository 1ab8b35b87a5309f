package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/julianstephens/ritual/internal/backup"
	"github.com/julianstephens/ritual/internal/config"
	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/keyring"
	"github.com/julianstephens/ritual/internal/logger"
	"github.com/julianstephens/ritual/internal/state"
	"github.com/julianstephens/ritual/internal/storage"
	"github.com/julianstephens/ritual/internal/storage/postgres"
	"github.com/julianstephens/ritual/internal/storage/sqlite"
	"github.com/julianstephens/ritual/internal/utils"
)

// ErrBackupsUnsupported is returned for stores that are not a local file.
var ErrBackupsUnsupported = errors.New("backups are only supported for sqlite and json stores")

type Context struct {
	Store      storage.Provider
	Config     *config.Config
	Controller *state.Controller

	// In is read by confirmation prompts. Nil means os.Stdin.
	In io.Reader
}

func NewContext(store storage.Provider, cfg *config.Config, opts ...state.Option) *Context {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return &Context{
		Store:      store,
		Config:     cfg,
		Controller: state.NewController(store, opts...),
	}
}

// Load opens the store, creating it on first use, and reads both
// collections into the controller.
func (c *Context) Load() error {
	if err := c.Store.Load(); err != nil {
		if !errors.Is(err, storage.ErrNotInitialized) {
			return err
		}
		logger.Info("Creating storage on first use", "path", c.Store.GetConfigPath())
		if err := c.Store.Init(); err != nil {
			return err
		}
	}
	return c.Controller.Load()
}

// BackupManager returns a manager for file-backed stores.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if _, ok := c.Store.(*postgres.Store); ok {
		return nil, ErrBackupsUnsupported
	}
	path := c.Store.GetConfigPath()
	return backup.NewManager(path, backup.KindForPath(path)), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (c *Context) Confirm(question string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}

	fmt.Printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// NewStore builds the provider for a backend. location is a file path for
// sqlite and json, and a connection string for postgres.
func NewStore(backend, location string) (storage.Provider, error) {
	switch backend {
	case constants.BackendPostgres:
		return newPostgresStore(location, false)
	case constants.BackendJSON, constants.BackendSQLite, "":
		path, err := utils.ExpandPath(location)
		if err != nil {
			return nil, err
		}
		if backend == constants.BackendJSON {
			return storage.NewJSONStore(path), nil
		}
		return sqlite.NewStore(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// newPostgresStore validates connStr first. Embedded passwords are only
// accepted for strings that came out of the OS keyring.
func newPostgresStore(connStr string, allowCredentials bool) (storage.Provider, error) {
	if valid, err := postgres.ValidateConnString(connStr); !valid {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, err
		}
		if !allowCredentials {
			return nil, fmt.Errorf("%w: use 'ritual keyring set', %s or a .pgpass file instead", err, constants.EnvDBConnection)
		}
	}
	return postgres.New(connStr), nil
}

// ConnSource says where a Postgres connection string was found.
type ConnSource int

const (
	ConnFromFlag ConnSource = iota
	ConnFromKeyring
	ConnFromEnv
)

// ResolveConnString picks the Postgres connection string. An explicit
// location wins, then the OS keyring, then RITUAL_DB_CONNECTION.
func ResolveConnString(location string) (string, ConnSource, error) {
	if config.InferBackend(location) == constants.BackendPostgres {
		return location, ConnFromFlag, nil
	}

	connStr, err := keyring.GetConnectionString()
	if err == nil {
		logger.Debug("Using connection string from keyring")
		return connStr, ConnFromKeyring, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Keyring lookup failed", "error", err)
	}

	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		logger.Debug("Using connection string from environment")
		return env, ConnFromEnv, nil
	}
	return "", ConnFromFlag, fmt.Errorf("no postgres connection string: pass --config, run 'ritual keyring set' or set %s", constants.EnvDBConnection)
}

// OpenConfiguredStore builds the provider selected by cfg.
func OpenConfiguredStore(cfg *config.Config) (storage.Provider, error) {
	backend := cfg.ResolveBackend()
	if backend != constants.BackendPostgres {
		return NewStore(backend, cfg.Storage.Path)
	}

	connStr, source, err := ResolveConnString(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	return newPostgresStore(connStr, source == ConnFromKeyring)
}
