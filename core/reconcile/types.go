package reconcile

import "time"

// Record is the unit persisted by a Store and reconciled against snapshots.
type Record struct {
	// ID is the stable identifier, client supplied or generated on first sync.
	ID string `json:"id"`

	// Fields holds the opaque business attributes (name, phone, stage, ...).
	Fields map[string]any `json:"fields"`

	// UpdatedAt is set by the Reconciler on every create or update.
	UpdatedAt time.Time `json:"updated_at"`
}

// RawRow is a single row as delivered by the external source.
// The optional identifier lives under the "id" key.
type RawRow map[string]any

// ValidRow is a row that passed validation and carries a resolved id.
type ValidRow struct {
	// ID is the explicit, matched or generated identifier.
	ID string

	// Fields is the row content without the "id" key.
	Fields map[string]any

	// Generated is true when ID was freshly generated during validation.
	Generated bool
}

// IDSet is a set of record ids.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// Phase names a reconcile apply phase.
type Phase string

const (
	// PhaseCreate inserts records present only in the snapshot.
	PhaseCreate Phase = "create"
	// PhaseUpdate overwrites records whose fields changed.
	PhaseUpdate Phase = "update"
	// PhaseDelete removes records absent from the snapshot.
	PhaseDelete Phase = "delete"
)

// SkipReason explains why an incoming row was excluded.
type SkipReason struct {
	// Index is the zero-based position of the row in the snapshot.
	Index int `json:"index" yaml:"index"`

	// Reason is a human-readable description.
	Reason string `json:"reason" yaml:"reason"`
}

// RecordError is a storage failure for a single record.
type RecordError struct {
	ID    string `json:"id" yaml:"id"`
	Phase Phase  `json:"phase" yaml:"phase"`
	Err   string `json:"error" yaml:"error"`
}

// SyncResult summarizes a single Reconcile call.
// It references records only by id so it can be serialized as-is.
type SyncResult struct {
	// Created counts records inserted.
	Created int `json:"created"`

	// Updated counts records whose fields changed and were rewritten.
	Updated int `json:"updated"`

	// Deleted counts records removed because they left the snapshot.
	Deleted int `json:"deleted"`

	// TotalProcessed counts valid rows after dropping empty rows and
	// collapsing duplicate ids.
	TotalProcessed int `json:"total_processed"`

	// Unchanged counts update candidates with identical content.
	Unchanged int `json:"unchanged"`

	// Skipped counts rows excluded during validation.
	Skipped int `json:"skipped"`

	// Skips lists why each excluded row was dropped.
	Skips []SkipReason `json:"skips,omitempty"`

	// Errors lists per-record storage failures.
	Errors []RecordError `json:"errors,omitempty"`
}

// Success reports whether every planned mutation was applied.
func (r SyncResult) Success() bool {
	return len(r.Errors) == 0
}

// Plan is the output of the diff step.
type Plan struct {
	// ToCreate holds rows whose id is unknown to the store.
	ToCreate []ValidRow

	// ToUpdate holds rows whose id exists and whose fields changed.
	ToUpdate []ValidRow

	// ToDelete holds stored ids absent from the snapshot, sorted.
	ToDelete []string

	// Unchanged holds ids present on both sides with identical fields.
	Unchanged []string
}
