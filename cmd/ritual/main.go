package main

import (
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/ritual/internal/cli"
	"github.com/julianstephens/ritual/internal/cli/backups"
	"github.com/julianstephens/ritual/internal/cli/habits"
	"github.com/julianstephens/ritual/internal/cli/reports"
	"github.com/julianstephens/ritual/internal/cli/system"
	"github.com/julianstephens/ritual/internal/config"
	"github.com/julianstephens/ritual/internal/constants"
	"github.com/julianstephens/ritual/internal/errors"
	"github.com/julianstephens/ritual/internal/logger"
	"github.com/julianstephens/ritual/internal/state"
	"github.com/julianstephens/ritual/internal/storage"
	"github.com/julianstephens/ritual/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Store path or PostgreSQL connection string. Overrides storage.path from the settings file. For PostgreSQL, credentials must NOT be embedded in the connection string; use the OS keyring or RITUAL_DB_CONNECTION instead." type:"string"`
	Settings string `help:"Settings file path." type:"string" default:"${settings}" env:"RITUAL_CONFIG"`
	Debug    bool   `help:"Enable debug logging to stderr."`
	Timezone string `help:"Timezone used to decide what 'today' is (e.g. Europe/Berlin)."`

	Init         system.InitCmd          `cmd:"" help:"Initialize ritual storage."`
	Tui          system.TuiCmd           `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit        habits.HabitCmd         `cmd:"" help:"Manage habits and completions."`
	Today        reports.TodayCmd        `cmd:"" help:"Show today's habits and progress."`
	Stats        reports.StatsCmd        `cmd:"" help:"Show the per-habit integrity matrix."`
	Insights     reports.InsightsCmd     `cmd:"" help:"Show derived insights."`
	Achievements reports.AchievementsCmd `cmd:"" help:"Show the achievement catalog."`
	Calendar     reports.CalendarCmd     `cmd:"" help:"Show the completion heatmap."`
	Trend        reports.TrendCmd        `cmd:"" help:"Show the completion trend."`
	Reset        system.ResetCmd         `cmd:"" help:"Replace all data with the sample habits."`
	Backup       backups.BackupCmd       `cmd:"" help:"Manage store backups."`
	Keyring      system.KeyringCmd       `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor       system.DoctorCmd        `cmd:"" help:"Run health checks and diagnostics."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks, insights and achievements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":  constants.Version,
			"settings": constants.DefaultSettingsPath,
		},
	)

	cfg, err := config.Load(CLI.Settings)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.Config != "" {
		cfg.Storage.Path = CLI.Config
		cfg.Storage.Backend = ""
	}
	if CLI.Timezone != "" {
		if !utils.ValidateTimezone(CLI.Timezone) {
			errors.Fatalf("invalid timezone: %s", CLI.Timezone)
		}
		cfg.Display.Timezone = CLI.Timezone
	}
	if CLI.Debug {
		cfg.Logging.Debug = true
	}

	logDir, err := utils.ExpandPath(cfg.Logging.Dir)
	if err != nil {
		errors.Fatal(err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Logging.Debug, Dir: logDir}); err != nil {
		errors.Fatal(err)
	}
	defer logger.Close()

	loc, err := utils.LoadLocation(cfg.Display.Timezone)
	if err != nil {
		errors.Fatal(err)
	}
	clock := state.WithClock(func() time.Time { return time.Now().In(loc) })

	// The keyring commands manage the connection string itself, so they
	// must work before a store can be opened.
	var store storage.Provider
	if !strings.HasPrefix(ctx.Command(), "keyring") {
		store, err = cli.OpenConfiguredStore(cfg)
		if err != nil {
			errors.Fatal(err)
		}
		defer store.Close()
	}

	appCtx := cli.NewContext(store, cfg, clock)
	if err := ctx.Run(appCtx); err != nil {
		// os.Exit skips deferred calls
		if store != nil {
			_ = store.Close()
		}
		errors.Fatal(err)
	}
}
