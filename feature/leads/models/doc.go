// Package models defines the database schema of the leads table.
//
// A lead is stored as its id, its opaque field map in a JSON column and the
// time of the last create or update. No field other than the id is promoted
// to a column, so new spreadsheet columns need no migration.
package models
