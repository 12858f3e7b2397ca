// Package reconcile implements ID-based full-replace reconciliation of a
// record store against snapshots pushed by an external source.
//
// A snapshot is the complete, authoritative list of rows the source knows
// about. After a successful run the store holds exactly the valid ids of the
// snapshot: unknown ids are created, changed rows are overwritten, and ids
// missing from the snapshot are deleted.
//
// # Architecture
//
// The package consists of four components, leaf first:
//
// 1. Store: keyed record storage (GetAllIDs, Get, Put, Delete). MemoryStore is
// the in-memory implementation; feature/leads provides a GORM-backed one.
//
// 2. Validator: drops rows whose identity field (phone by default) is blank,
// resolves rows without an id to the stored record with the same identity
// value or else a fresh UUID, and collapses duplicate ids, last occurrence
// wins. Dropped rows are reported as SkipReason values.
//
// 3. Diff: partitions validated rows into create, update and delete sets in
// O(n + m). Rows whose fields equal the stored ones are unchanged and are
// neither written nor counted.
//
// 4. Reconciler: orchestrates the above and applies creates, then updates,
// then deletes, record by record. A failing record is reported in
// SyncResult.Errors without aborting the run.
//
// # Guarantees
//
//   - Idempotent: reconciling the same snapshot twice yields zero mutations
//     on the second run.
//   - Serialized: one Reconciler runs one Reconcile at a time.
//   - No rollback: on cancellation, phases already applied stay applied.
//     Retrying is safe because of idempotence.
//
// # Usage
//
//	store := reconcile.NewMemoryStore()
//	r := reconcile.NewReconciler(store,
//	    reconcile.WithLogger(logger),
//	    reconcile.WithValidator(reconcile.NewValidator("phone")),
//	)
//	result, err := r.Reconcile(ctx, rows)
package reconcile
