package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Bot      BotConfig      `yaml:"bot"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// BotConfig holds scheduling-core settings: which transport actors are
// privileged and how change notifications behave.
type BotConfig struct {
	AdminIDsRaw    string        `yaml:"admin_ids"       env:"BOT_ADMIN_IDS"       env-required:"true"`
	NotifyChanges  bool          `yaml:"notify_changes"  env:"BOT_NOTIFY_CHANGES"  env-default:"true"`
	ChangesWindow  time.Duration `yaml:"changes_window"  env:"BOT_CHANGES_WINDOW"  env-default:"168h"`
	ChangesLimit   int           `yaml:"changes_limit"   env:"BOT_CHANGES_LIMIT"   env-default:"20"`
	PendingLimit   int           `yaml:"pending_limit"   env:"BOT_PENDING_LIMIT"   env-default:"50"`
	SessionMaxIdle time.Duration `yaml:"session_max_idle" env:"BOT_SESSION_MAX_IDLE" env-default:"30m"`
	UndoWindow     time.Duration `yaml:"undo_window"     env:"BOT_UNDO_WINDOW"     env-default:"30m"`

	// AdminIDs is parsed from AdminIDsRaw by Validate.
	AdminIDs []int64 `yaml:"-"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
