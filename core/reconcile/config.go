package reconcile

import "time"

// Config holds configuration for snapshot reconciliation.
type Config struct {
	// IdentityField is the row field that must be non-blank for a row to be kept.
	IdentityField string `mapstructure:"identity_field" default:"phone"`
	// TimeoutSeconds bounds a whole sync call made through the webhook.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Timeout returns the sync timeout, defaulting to 30 seconds.
func (c Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
