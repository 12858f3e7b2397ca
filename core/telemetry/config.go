package telemetry

// Config holds configuration for OpenTelemetry tracing.
type Config struct {
	// OTLPEndpoint is the gRPC host:port of the OTLP collector.
	// Empty disables export; spans stay no-ops.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" default:""`
	// Insecure disables TLS for the collector connection.
	Insecure bool `mapstructure:"insecure" default:"false"`
	// ServiceName is the service.name resource attribute.
	ServiceName string `mapstructure:"service_name" default:"lead-sync"`
}

// Enabled reports whether spans are exported.
func (c Config) Enabled() bool {
	return c.OTLPEndpoint != ""
}
