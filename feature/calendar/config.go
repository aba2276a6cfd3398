package calendar

// Config holds configuration for calendar feed synchronization.
type Config struct {
	// FetchTimeoutSeconds bounds a single feed fetch.
	FetchTimeoutSeconds int `mapstructure:"fetch_timeout_seconds" default:"30"`
	// UserAgent is the identifying client tag sent with every fetch.
	UserAgent string `mapstructure:"user_agent" default:"rental-manager-sync/1.0"`
	// StaleAfterDays is the staleness cutoff: events whose end lies more
	// than this many days in the past are dropped during normalization.
	StaleAfterDays int `mapstructure:"stale_after_days" default:"30"`
	// CronEnabled toggles the scheduled fleet sync.
	CronEnabled bool `mapstructure:"cron_enabled" default:"true"`
	// CronSpec is the cron schedule for the fleet sync (default hourly).
	CronSpec string `mapstructure:"cron_spec" default:"0 * * * *"`
}
