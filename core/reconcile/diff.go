package reconcile

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Diff partitions incoming rows against the stored records by id.
//
//   - id only in incoming: create
//   - id in both with different fields: update
//   - id in both with identical fields: unchanged (not written, not counted)
//   - id only in existing: delete
//
// Runs in O(n + m) using one hash index of the incoming ids.
func Diff(existing map[string]Record, incoming []ValidRow) Plan {
	var plan Plan

	seen := make(IDSet, len(incoming))
	for _, row := range incoming {
		seen.Add(row.ID)

		stored, ok := existing[row.ID]
		switch {
		case !ok:
			plan.ToCreate = append(plan.ToCreate, row)
		case fieldsEqual(stored.Fields, row.Fields):
			plan.Unchanged = append(plan.Unchanged, row.ID)
		default:
			plan.ToUpdate = append(plan.ToUpdate, row)
		}
	}

	for id := range existing {
		if !seen.Has(id) {
			plan.ToDelete = append(plan.ToDelete, id)
		}
	}
	sort.Strings(plan.ToDelete)

	return plan
}

// DiffIDs partitions by id-set membership only. Every id present on both
// sides is an update; use it when stored field content is unavailable.
func DiffIDs(existingIDs IDSet, incoming []ValidRow) (toCreate, toUpdate []ValidRow, toDelete []string) {
	seen := make(IDSet, len(incoming))
	for _, row := range incoming {
		seen.Add(row.ID)
		if existingIDs.Has(row.ID) {
			toUpdate = append(toUpdate, row)
		} else {
			toCreate = append(toCreate, row)
		}
	}

	for id := range existingIDs {
		if !seen.Has(id) {
			toDelete = append(toDelete, id)
		}
	}
	sort.Strings(toDelete)

	return toCreate, toUpdate, toDelete
}

// fieldsEqual compares two field maps on their canonical JSON encoding,
// which sorts keys and prints int(1) and float64(1) identically.
func fieldsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	ea, err := json.Marshal(a)
	if err != nil {
		return false
	}
	eb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
