package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// WebhookSecret, when set, must be sent in the X-Webhook-Secret header
	// of every sync call. Empty leaves the webhook unauthenticated.
	WebhookSecret string `mapstructure:"webhook_secret" default:""`
	// AllowedIPs is a comma-separated allow-list of webhook caller IPs.
	// Empty allows every caller.
	AllowedIPs string `mapstructure:"allowed_ips" default:""`
}

// WebhookProtected reports whether any webhook hardening is configured.
func (c Config) WebhookProtected() bool {
	return c.WebhookSecret != "" || c.AllowedIPs != ""
}
