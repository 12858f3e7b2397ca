package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// failingStore wraps a MemoryStore and fails writes for selected ids.
type failingStore struct {
	*MemoryStore
	failPut    map[string]bool
	failDelete map[string]bool
	puts       []string
}

func (s *failingStore) Put(ctx context.Context, rec Record) error {
	s.puts = append(s.puts, rec.ID)
	if s.failPut[rec.ID] {
		return fmt.Errorf("disk full")
	}
	return s.MemoryStore.Put(ctx, rec)
}

func (s *failingStore) Delete(ctx context.Context, id string) (bool, error) {
	if s.failDelete[id] {
		return false, fmt.Errorf("connection reset")
	}
	return s.MemoryStore.Delete(ctx, id)
}

// mockStore is a testify mock Store without bulk loading.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetAllIDs(ctx context.Context) (IDSet, error) {
	args := m.Called(ctx)
	if ids, ok := args.Get(0).(IDSet); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id string) (Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Record), args.Error(1)
}

func (m *mockStore) Put(ctx context.Context, rec Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *mockStore) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func lead(id, name, phone string) Record {
	return Record{ID: id, Fields: map[string]any{"name": name, "phone": phone}}
}

func storeIDs(t *testing.T, s Store) []string {
	t.Helper()
	ids, err := s.GetAllIDs(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// TestReconcile_CreateUpdateDelete covers the {1,2,3} -> {2', 4} scenario.
func TestReconcile_CreateUpdateDelete(t *testing.T) {
	store := NewMemoryStore(
		lead("1", "Ann", "111"),
		lead("2", "Bob", "222"),
		lead("3", "Cid", "333"),
	)
	r := NewReconciler(store)

	res, err := r.Reconcile(context.Background(), []RawRow{
		{"id": "2", "name": "Bob", "phone": "222", "stage": "won"},
		{"id": "4", "name": "Dee", "phone": "444"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 2, res.TotalProcessed)
	assert.Equal(t, []string{"2", "4"}, storeIDs(t, store))

	rec, err := store.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "won", rec.Fields["stage"])
}

// TestReconcile_MixedBatch applies create, update and delete in one pass.
func TestReconcile_MixedBatch(t *testing.T) {
	store := NewMemoryStore(
		lead("a", "Ann", "111"),
		lead("b", "Bob", "222"),
	)
	r := NewReconciler(store)

	res, err := r.Reconcile(context.Background(), []RawRow{
		{"id": "a", "name": "Ann Smith", "phone": "111"},
		{"id": "c", "name": "Cid", "phone": "333"},
	})
	require.NoError(t, err)

	assert.Equal(t, SyncResult{Created: 1, Updated: 1, Deleted: 1, TotalProcessed: 2}, res)
	assert.Equal(t, []string{"a", "c"}, storeIDs(t, store))
}

// TestReconcile_Idempotent checks a second identical sync mutates nothing.
func TestReconcile_Idempotent(t *testing.T) {
	store := NewMemoryStore(lead("x", "Old", "000"))
	r := NewReconciler(store)

	snapshot := []RawRow{
		{"id": "1", "name": "A", "phone": "123", "score": float64(4)},
		{"name": "B", "phone": "456"},
		{"name": "C", "phone": ""},
	}

	first, err := r.Reconcile(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	assert.Equal(t, 1, first.Deleted)

	before, err := store.GetAll(context.Background())
	require.NoError(t, err)

	second, err := r.Reconcile(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 0, second.Updated)
	assert.Equal(t, 0, second.Deleted)
	assert.Equal(t, 2, second.Unchanged)

	after, err := store.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// TestReconcile_IdempotentWithoutIDs resends a snapshot whose rows never carry ids.
func TestReconcile_IdempotentWithoutIDs(t *testing.T) {
	store := NewMemoryStore()
	r := NewReconciler(store)
	snapshot := []RawRow{
		{"name": "B", "phone": "456"},
		{"name": "D", "phone": float64(5551234500)},
	}

	first, err := r.Reconcile(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)
	ids := storeIDs(t, store)

	for i := 0; i < 2; i++ {
		res, err := r.Reconcile(context.Background(), snapshot)
		require.NoError(t, err)
		assert.Equal(t, SyncResult{TotalProcessed: 2, Unchanged: 2}, res)
		assert.Equal(t, ids, storeIDs(t, store))
	}
}

// TestReconcile_UpdateWithoutID rewrites the record matched by phone.
func TestReconcile_UpdateWithoutID(t *testing.T) {
	store := NewMemoryStore(lead("lead-1", "Ann", "111"), lead("lead-2", "Bob", "222"))
	r := NewReconciler(store)

	res, err := r.Reconcile(context.Background(), []RawRow{
		{"name": "Ann", "phone": "111", "stage": "won"},
		{"name": "Bob", "phone": "222"},
	})
	require.NoError(t, err)

	assert.Equal(t, SyncResult{Updated: 1, TotalProcessed: 2, Unchanged: 1}, res)
	assert.Equal(t, []string{"lead-1", "lead-2"}, storeIDs(t, store))
	rec, err := store.Get(context.Background(), "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "won", rec.Fields["stage"])
}

// TestReconcile_IdempotentExplicitIDs repeats a snapshot where every row has an id.
func TestReconcile_IdempotentExplicitIDs(t *testing.T) {
	store := NewMemoryStore()
	r := NewReconciler(store)
	snapshot := []RawRow{
		{"id": "1", "name": "A", "phone": "1"},
		{"id": "2", "name": "B", "phone": "2"},
	}

	_, err := r.Reconcile(context.Background(), snapshot)
	require.NoError(t, err)

	res, err := r.Reconcile(context.Background(), snapshot)
	require.NoError(t, err)
	assert.Equal(t, SyncResult{TotalProcessed: 2, Unchanged: 2}, res)
}

// TestReconcile_ExactSet checks the store ends with exactly the valid snapshot ids.
func TestReconcile_ExactSet(t *testing.T) {
	store := NewMemoryStore(lead("1", "A", "1"), lead("9", "Z", "9"))
	r := NewReconciler(store)

	res, err := r.Reconcile(context.Background(), []RawRow{
		{"id": "1", "phone": "1"},
		{"id": "2", "phone": "  "},
		{"id": "3", "phone": "3"},
		{"id": "3", "phone": "33"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "3"}, storeIDs(t, store))
	assert.Equal(t, 2, res.TotalProcessed)
	assert.Equal(t, 2, res.Skipped)
}

// TestReconcile_EmptyRowExclusion drops rows with blank or absent phone.
func TestReconcile_EmptyRowExclusion(t *testing.T) {
	store := NewMemoryStore()
	r := NewReconciler(store)

	res, err := r.Reconcile(context.Background(), []RawRow{
		{"name": "A", "phone": "123"},
		{"name": "B", "phone": ""},
		{"name": "C"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.TotalProcessed)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, 1, store.Len())
	require.Len(t, res.Skips, 2)
	assert.Equal(t, 1, res.Skips[0].Index)
	assert.Equal(t, 2, res.Skips[1].Index)
}

// TestReconcile_GeneratedID assigns a fresh id not equal to any stored id.
func TestReconcile_GeneratedID(t *testing.T) {
	store := NewMemoryStore(lead("taken", "A", "1"))
	ids := []string{"taken", "taken", "fresh"}
	v := NewValidator("phone")
	v.NewID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	r := NewReconciler(store, WithValidator(v))

	res, err := r.Reconcile(context.Background(), []RawRow{
		{"id": "taken", "name": "A", "phone": "1"},
		{"name": "B", "phone": "2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, []string{"fresh", "taken"}, storeIDs(t, store))
}

// TestReconcile_DuplicateIDCollapse keeps the later row's fields.
func TestReconcile_DuplicateIDCollapse(t *testing.T) {
	store := NewMemoryStore()
	r := NewReconciler(store)

	res, err := r.Reconcile(context.Background(), []RawRow{
		{"id": "7", "name": "First", "phone": "1"},
		{"id": "7", "name": "Second", "phone": "2"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.TotalProcessed)
	assert.Equal(t, 1, store.Len())

	rec, err := store.Get(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "Second", rec.Fields["name"])
	assert.Equal(t, "2", rec.Fields["phone"])
}

// TestReconcile_SetsUpdatedAt stamps created and updated records.
func TestReconcile_SetsUpdatedAt(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(lead("1", "A", "1"))
	r := NewReconciler(store, WithClock(func() time.Time { return fixed }))

	_, err := r.Reconcile(context.Background(), []RawRow{
		{"id": "1", "name": "A2", "phone": "1"},
		{"id": "2", "name": "B", "phone": "2"},
	})
	require.NoError(t, err)

	for _, id := range []string{"1", "2"} {
		rec, err := store.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, fixed, rec.UpdatedAt)
	}
}

// TestReconcile_PartialFailure keeps going past failing records.
func TestReconcile_PartialFailure(t *testing.T) {
	store := &failingStore{
		MemoryStore: NewMemoryStore(lead("old1", "A", "1"), lead("old2", "B", "2")),
		failPut:     map[string]bool{"n1": true},
		failDelete:  map[string]bool{"old1": true},
	}
	r := NewReconciler(store)

	res, err := r.Reconcile(context.Background(), []RawRow{
		{"id": "n1", "phone": "10"},
		{"id": "n2", "phone": "20"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "connection reset")

	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Deleted)
	assert.False(t, res.Success())
	assert.Equal(t, []RecordError{
		{ID: "n1", Phase: PhaseCreate, Err: "disk full"},
		{ID: "old1", Phase: PhaseDelete, Err: "connection reset"},
	}, res.Errors)
	assert.Equal(t, []string{"n2", "old1"}, storeIDs(t, store.MemoryStore))
}

// TestReconcile_PhaseOrder applies creates before updates before deletes.
func TestReconcile_PhaseOrder(t *testing.T) {
	var calls []string
	m := new(mockStore)
	m.On("GetAllIDs", mock.Anything).Return(IDSet{"u": {}, "d": {}}, nil)
	m.On("Get", mock.Anything, "u").Return(lead("u", "U", "1"), nil)
	m.On("Get", mock.Anything, "d").Return(lead("d", "D", "2"), nil)
	m.On("Put", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		calls = append(calls, "put:"+args.Get(1).(Record).ID)
	}).Return(nil)
	m.On("Delete", mock.Anything, "d").Run(func(args mock.Arguments) {
		calls = append(calls, "delete:d")
	}).Return(true, nil)

	r := NewReconciler(m)
	res, err := r.Reconcile(context.Background(), []RawRow{
		{"id": "u", "name": "U2", "phone": "1"},
		{"id": "c", "name": "C", "phone": "3"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"put:c", "put:u", "delete:d"}, calls)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Deleted)
	m.AssertExpectations(t)
}

// TestReconcile_DeleteAbsentIsNoop does not count ids removed concurrently.
func TestReconcile_DeleteAbsentIsNoop(t *testing.T) {
	m := new(mockStore)
	m.On("GetAllIDs", mock.Anything).Return(IDSet{"gone": {}}, nil)
	m.On("Get", mock.Anything, "gone").Return(lead("gone", "G", "1"), nil)
	m.On("Delete", mock.Anything, "gone").Return(false, nil)

	r := NewReconciler(m)
	res, err := r.Reconcile(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Deleted)
	assert.True(t, res.Success())
	m.AssertExpectations(t)
}

// TestReconcile_LoadFailureAborts does not mutate when the store can't be read.
func TestReconcile_LoadFailureAborts(t *testing.T) {
	m := new(mockStore)
	m.On("GetAllIDs", mock.Anything).Return(nil, errors.New("db down"))

	r := NewReconciler(m)
	_, err := r.Reconcile(context.Background(), []RawRow{{"id": "1", "phone": "1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	m.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

// TestReconcile_IDGenerationExhausted aborts before any write.
func TestReconcile_IDGenerationExhausted(t *testing.T) {
	store := NewMemoryStore(lead("dup", "A", "1"))
	v := NewValidator("phone")
	v.NewID = func() string { return "dup" }
	r := NewReconciler(store, WithValidator(v))

	_, err := r.Reconcile(context.Background(), []RawRow{{"phone": "2"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIDGeneration)
	assert.Equal(t, 1, store.Len())
}

// TestReconcile_CancelledContext reports every pending record as failed.
func TestReconcile_CancelledContext(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(lead("old", "A", "1"))}
	r := NewReconciler(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Reconcile(ctx, []RawRow{{"id": "new", "phone": "2"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Created)
	assert.Len(t, res.Errors, 2)
	assert.Empty(t, store.puts)
}

// TestReconcile_Concurrent serializes overlapping runs.
func TestReconcile_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	r := NewReconciler(store)
	snapshot := []RawRow{{"id": "1", "phone": "1"}, {"id": "2", "phone": "2"}}

	results := make(chan SyncResult, 2)
	for i := 0; i < 2; i++ {
		go func() {
			res, err := r.Reconcile(context.Background(), snapshot)
			assert.NoError(t, err)
			results <- res
		}()
	}

	created := (<-results).Created + (<-results).Created
	assert.Equal(t, 2, created)
	assert.Equal(t, 2, store.Len())
}

func TestPreview_NoWrites(t *testing.T) {
	store := NewMemoryStore(lead("1", "A", "1"), lead("2", "B", "2"))
	r := NewReconciler(store)

	plan, skips, err := r.Preview(context.Background(), []RawRow{
		{"id": "2", "name": "B2", "phone": "2"},
		{"name": "New", "phone": "3"},
		{"name": "Blank"},
	})
	require.NoError(t, err)

	assert.Len(t, plan.ToCreate, 1)
	assert.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, []string{"1"}, plan.ToDelete)
	require.Len(t, skips, 1)
	assert.Equal(t, 2, skips[0].Index)

	assert.Equal(t, []string{"1", "2"}, storeIDs(t, store))
	rec, err := store.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "B", rec.Fields["name"])
}
