// Package config provides configuration management for lead-sync.
//
// Settings come from environment variables, optionally seeded from a .env
// file. Defaults live in the `default` struct tags of each section and are
// registered with Viper by reflection, so adding a field to a section is
// enough to make it configurable.
//
// # Configuration Structure
//
//   - Server: HTTP port, webhook secret and caller allow-list
//   - Database: driver (mysql, sqlite) and connection details
//   - Storage: S3/MinIO credentials and snapshot archive settings
//   - Log: level, format and optional rotated log file
//   - Sync: identity field and per-call timeout
//   - Telemetry: OTLP collector endpoint
//
// Nested keys map to upper-case variables joined by underscores, e.g.
// SYNC_IDENTITY_FIELD or DATABASE_DRIVER.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
