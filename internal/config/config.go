package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/config"

	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/metrics"
	"github.com/julianstephens/ritual/internal/utils"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Display DisplayConfig `yaml:"display"`
	Logging LoggingConfig `yaml:"logging"`
}

type StorageConfig struct {
	// Backend is sqlite, json or postgres. Empty infers it from Path.
	Backend string `yaml:"backend"`
	// Path is a file path, or a Postgres URL/DSN for the postgres backend.
	Path string `yaml:"path"`
}

type DisplayConfig struct {
	Timezone     string `yaml:"timezone"`
	CalendarDays int    `yaml:"calendar_days"`
	Trend        string `yaml:"trend"`
	MatrixSize   int    `yaml:"matrix_size"`
}

type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Dir   string `yaml:"dir"`
}

// Default returns the built-in settings used when no file is present.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "",
			Path:    constants.DefaultConfigPath,
		},
		Display: DisplayConfig{
			Timezone:     "Local",
			CalendarDays: constants.DefaultCalendarDays,
			Trend:        string(metrics.TimeframeWeek),
			MatrixSize:   constants.DefaultMatrixSize,
		},
		Logging: LoggingConfig{
			Debug: false,
			Dir:   constants.DefaultConfigDir,
		},
	}
}

// Load layers the YAML file at path over Default, expanding ${VAR}
// references from the environment. A missing file is not an error.
func Load(path string) (*Config, error) {
	opts := []config.YAMLOption{
		config.Static(Default()),
		config.Expand(os.LookupEnv),
	}

	if path != "" {
		expanded, err := utils.ExpandPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to expand config path: %w", err)
		}
		if _, err := os.Stat(expanded); err == nil {
			opts = append(opts, config.File(expanded))
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to access config file %s: %w", expanded, err)
		}
	}

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create config provider: %w", err)
	}

	var cfg Config
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("failed to populate config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that the dashboard cannot render.
func (c *Config) Validate() error {
	if !utils.ValidateTimezone(c.Display.Timezone) {
		return fmt.Errorf("invalid config: unknown timezone %q", c.Display.Timezone)
	}
	if c.Display.CalendarDays <= 0 {
		return fmt.Errorf("invalid config: calendar_days must be positive, got %d", c.Display.CalendarDays)
	}
	if c.Display.MatrixSize < 0 {
		return fmt.Errorf("invalid config: matrix_size must not be negative, got %d", c.Display.MatrixSize)
	}
	if _, err := metrics.ParseTimeframe(c.Display.Trend); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Storage.Backend {
	case "", constants.BackendSQLite, constants.BackendJSON, constants.BackendPostgres:
	default:
		return fmt.Errorf("invalid config: unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// ResolveBackend returns the configured backend or infers one from the
// storage path: a postgres URL or DSN selects postgres, *.json selects
// json and anything else sqlite.
func (c *Config) ResolveBackend() string {
	if c.Storage.Backend != "" {
		return c.Storage.Backend
	}
	return InferBackend(c.Storage.Path)
}

func InferBackend(path string) string {
	p := strings.TrimSpace(path)
	switch {
	case strings.HasPrefix(p, "postgres://"), strings.HasPrefix(p, "postgresql://"):
		return constants.BackendPostgres
	case strings.Contains(p, "host=") || strings.Contains(p, "dbname="):
		return constants.BackendPostgres
	case strings.EqualFold(filepathExt(p), ".json"):
		return constants.BackendJSON
	default:
		return constants.BackendSQLite
	}
}

func filepathExt(p string) string {
	if i := strings.LastIndexByte(p, '.'); i >= 0 && !strings.ContainsAny(p[i:], `/\`) {
		return p[i:]
	}
	return ""
}

// MetricsOptions converts the display settings for metrics.Snapshot.
func (c *Config) MetricsOptions() metrics.Options {
	tf, err := metrics.ParseTimeframe(c.Display.Trend)
	if err != nil {
		tf = metrics.TimeframeWeek
	}
	return metrics.Options{
		CalendarDays: c.Display.CalendarDays,
		Timeframe:    tf,
		MatrixSize:   c.Display.MatrixSize,
	}
}
