package reconcile

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.Get when no record has the given id.
var ErrNotFound = errors.New("record not found")

// Store is the durable keyed storage the Reconciler writes to.
// Implementations know nothing about reconciliation.
type Store interface {
	// GetAllIDs returns the ids of every stored record.
	GetAllIDs(ctx context.Context) (IDSet, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Put inserts or replaces a record.
	Put(ctx context.Context, rec Record) error

	// Delete removes the record with the given id. Deleting an absent id
	// is not an error; removed reports whether a record was deleted.
	Delete(ctx context.Context, id string) (removed bool, err error)
}

// BulkLoader is implemented by stores that can load every record in one
// round trip. The Reconciler prefers it over GetAllIDs followed by Get.
type BulkLoader interface {
	GetAll(ctx context.Context) (map[string]Record, error)
}

// loadExisting returns the current store contents indexed by id.
func loadExisting(ctx context.Context, store Store) (map[string]Record, error) {
	if bulk, ok := store.(BulkLoader); ok {
		return bulk.GetAll(ctx)
	}

	ids, err := store.GetAllIDs(ctx)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]Record, len(ids))
	for id := range ids {
		rec, err := store.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// deleted between the two calls
			continue
		}
		if err != nil {
			return nil, err
		}
		existing[id] = rec
	}
	return existing, nil
}
