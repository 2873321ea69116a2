package scanner

import "time"

const (
	DefaultPageLimit        = 100_000
	DefaultMaxRetries       = 4
	DefaultRetryBackoff     = 2 * time.Second
	DefaultMaxMissedWindows = 3
	writeConcurrency        = 4
)

type Config struct {
	// ScheduleMinutes are the minutes of the hour a pass starts at.
	ScheduleMinutes []int `mapstructure:"schedule_minutes"`
	RunOnStart      bool  `mapstructure:"run_on_start"`

	PageLimit int `mapstructure:"page_limit"`

	// Reconcile fetches every page in both binary and JSON form and
	// cross-checks them. Without it only the JSON form is fetched.
	Reconcile bool `mapstructure:"reconcile"`

	// TypeFilters are walked in order against the same ledger. An empty
	// filter walks every object.
	TypeFilters []string `mapstructure:"type_filters"`

	// MaxRetries is the number of attempts a marker may fail to advance
	// before the pass is abandoned.
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`

	// MaxMissedWindows is the number of schedule windows that may find a
	// pass still running before the process gives up.
	MaxMissedWindows int `mapstructure:"max_missed_windows"`
}
