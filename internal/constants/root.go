package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName             = "ritual"
	DefaultKeyringUser  = "database-connection"
	DefaultConfigDir    = "~/.config/ritual"
	DefaultConfigPath   = "~/.config/ritual/ritual.db"
	DefaultSettingsPath = "~/.config/ritual/config.yaml"
	Version             = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Storage slot keys. Each slot holds a JSON array.
	HabitsKey = "ritual_habits"
	LogsKey   = "ritual_logs"

	// Storage backends
	BackendSQLite   = "sqlite"
	BackendJSON     = "json"
	BackendPostgres = "postgres"

	// Environment variables
	EnvDBConnection = "RITUAL_DB_CONNECTION"
	EnvConfigFile   = "RITUAL_CONFIG"

	// Backup constants
	MaxBackups    = 14
	BackupDirName = "backups"
)

// Session States
const (
	StateToday SessionState = iota
	StateAnalytics
	StateHabits
	StateAddHabit
	StateConfirmRemove
	StateConfirmReset
)
