// Package utils provides common utility functions for the lead-sync service.
// It includes helpers for converting loosely typed spreadsheet values into
// strings and for blank checks that don't fit into domain-specific packages.
package utils
