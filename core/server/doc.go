// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port and the optional webhook hardening:
// a shared secret header and an IP allow-list. Both are off by default.
package server
