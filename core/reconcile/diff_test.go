package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func row(id string, fields map[string]any) ValidRow {
	return ValidRow{ID: id, Fields: fields}
}

func TestDiff_Partition(t *testing.T) {
	existing := map[string]Record{
		"1": {ID: "1", Fields: map[string]any{"phone": "1"}},
		"2": {ID: "2", Fields: map[string]any{"phone": "2"}},
		"3": {ID: "3", Fields: map[string]any{"phone": "3"}},
	}
	incoming := []ValidRow{
		row("2", map[string]any{"phone": "2", "stage": "new"}),
		row("4", map[string]any{"phone": "4"}),
	}

	plan := Diff(existing, incoming)

	assert.Len(t, plan.ToCreate, 1)
	assert.Equal(t, "4", plan.ToCreate[0].ID)
	assert.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, "2", plan.ToUpdate[0].ID)
	assert.Equal(t, []string{"1", "3"}, plan.ToDelete)
	assert.Empty(t, plan.Unchanged)
}

func TestDiff_UnchangedNotUpdated(t *testing.T) {
	existing := map[string]Record{
		"1": {ID: "1", Fields: map[string]any{"phone": "1", "score": float64(3), "tags": []any{"a"}}},
		"2": {ID: "2"},
	}
	incoming := []ValidRow{
		row("1", map[string]any{"tags": []any{"a"}, "score": 3, "phone": "1"}),
		row("2", map[string]any{}),
	}

	plan := Diff(existing, incoming)

	assert.Empty(t, plan.ToCreate)
	assert.Empty(t, plan.ToUpdate)
	assert.Empty(t, plan.ToDelete)
	assert.Equal(t, []string{"1", "2"}, plan.Unchanged)
}

func TestDiff_DisjointSets(t *testing.T) {
	existing := map[string]Record{}
	for _, id := range []string{"a", "b", "c", "d"} {
		existing[id] = Record{ID: id, Fields: map[string]any{"v": id}}
	}
	incoming := []ValidRow{
		row("b", map[string]any{"v": "b"}),
		row("c", map[string]any{"v": "changed"}),
		row("e", map[string]any{"v": "e"}),
	}

	plan := Diff(existing, incoming)

	seen := map[string]int{}
	for _, r := range plan.ToCreate {
		seen[r.ID]++
	}
	for _, r := range plan.ToUpdate {
		seen[r.ID]++
	}
	for _, id := range plan.ToDelete {
		seen[id]++
	}
	for _, id := range plan.Unchanged {
		seen[id]++
	}

	assert.Len(t, seen, 5)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestDiffIDs(t *testing.T) {
	toCreate, toUpdate, toDelete := DiffIDs(
		IDSet{"1": {}, "2": {}, "3": {}},
		[]ValidRow{row("2", nil), row("4", nil)},
	)

	assert.Len(t, toCreate, 1)
	assert.Equal(t, "4", toCreate[0].ID)
	assert.Len(t, toUpdate, 1)
	assert.Equal(t, "2", toUpdate[0].ID)
	assert.Equal(t, []string{"1", "3"}, toDelete)
}
