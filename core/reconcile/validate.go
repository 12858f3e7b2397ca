package reconcile

import (
	"errors"
	"fmt"
	"sort"

	"lead-sync/core/utils"

	"github.com/google/uuid"
)

const (
	// IDField is the row key holding the optional record identifier.
	IDField = "id"

	// DefaultIdentityField is the field a row must carry to be kept.
	DefaultIdentityField = "phone"

	// DefaultMaxIDLength matches the width of the lead id column.
	DefaultMaxIDLength = 64

	// maxIDAttempts bounds regeneration after an id collision.
	maxIDAttempts = 8
)

// ErrIDGeneration is returned when no unique id could be generated.
var ErrIDGeneration = errors.New("unable to generate unique record id")

// Validator filters and repairs incoming snapshot rows.
type Validator struct {
	// IdentityField names the field whose absence drops a row.
	IdentityField string

	// MaxIDLength drops rows whose explicit id is longer. Zero disables
	// the check.
	MaxIDLength int

	// NewID generates candidate ids. Defaults to UUIDv4.
	NewID func() string
}

// NewValidator creates a Validator for the given identity field.
// An empty field name falls back to DefaultIdentityField.
func NewValidator(identityField string) *Validator {
	if identityField == "" {
		identityField = DefaultIdentityField
	}
	return &Validator{
		IdentityField: identityField,
		MaxIDLength:   DefaultMaxIDLength,
		NewID:         uuid.NewString,
	}
}

// Validate drops rows with an empty identity field or an over-long id,
// resolves ids for rows without one and collapses duplicate ids, last
// occurrence wins.
//
// A row without an id adopts the id of the stored record carrying the same
// identity value, provided exactly one stored record carries it and no
// explicit id of the batch already names that record. Otherwise it gets a
// generated id that collides neither with existing nor with the batch.
// A collapsed row keeps the position of the first occurrence of its id, so
// output order follows the input.
func (v *Validator) Validate(rows []RawRow, existing map[string]Record) ([]ValidRow, []SkipReason, error) {
	var skips []SkipReason

	// Explicit ids are reserved up front so neither a generated nor a
	// matched id can take one that appears later in the batch.
	reserved := make(IDSet, len(existing)+len(rows))
	for id := range existing {
		reserved.Add(id)
	}
	claimed := make(IDSet, len(rows))
	for _, row := range rows {
		if id := utils.TrimmedString(row[IDField]); id != "" {
			reserved.Add(id)
			claimed.Add(id)
		}
	}
	byIdentity := v.identityIndex(existing)

	out := make([]ValidRow, 0, len(rows))
	sourceIndex := make([]int, 0, len(rows))
	position := make(map[string]int, len(rows))

	for i, row := range rows {
		if utils.IsBlank(row[v.IdentityField]) {
			skips = append(skips, SkipReason{
				Index:  i,
				Reason: fmt.Sprintf("empty identity field %q", v.IdentityField),
			})
			continue
		}

		vr := ValidRow{
			ID:     utils.TrimmedString(row[IDField]),
			Fields: fieldsWithoutID(row),
		}
		if v.MaxIDLength > 0 && len(vr.ID) > v.MaxIDLength {
			skips = append(skips, SkipReason{
				Index:  i,
				Reason: fmt.Sprintf("id longer than %d characters", v.MaxIDLength),
			})
			continue
		}

		if vr.ID == "" {
			key := utils.TrimmedString(row[v.IdentityField])
			if ids := byIdentity[key]; len(ids) == 1 && !claimed.Has(ids[0]) {
				vr.ID = ids[0]
				claimed.Add(vr.ID)
			} else {
				id, err := v.generateID(reserved)
				if err != nil {
					return nil, nil, fmt.Errorf("row %d: %w", i, err)
				}
				vr.ID = id
				vr.Generated = true
			}
		}

		if pos, dup := position[vr.ID]; dup {
			skips = append(skips, SkipReason{
				Index:  sourceIndex[pos],
				Reason: fmt.Sprintf("duplicate id %q superseded by row %d", vr.ID, i),
			})
			out[pos] = vr
			sourceIndex[pos] = i
			continue
		}

		position[vr.ID] = len(out)
		out = append(out, vr)
		sourceIndex = append(sourceIndex, i)
	}

	sort.SliceStable(skips, func(a, b int) bool { return skips[a].Index < skips[b].Index })
	return out, skips, nil
}

// identityIndex maps each stored identity value to the ids carrying it.
func (v *Validator) identityIndex(existing map[string]Record) map[string][]string {
	index := make(map[string][]string, len(existing))
	for id, rec := range existing {
		key := utils.TrimmedString(rec.Fields[v.IdentityField])
		if key == "" {
			continue
		}
		index[key] = append(index[key], id)
	}
	return index
}

func (v *Validator) generateID(reserved IDSet) (string, error) {
	newID := v.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := newID()
		if id == "" || reserved.Has(id) {
			continue
		}
		reserved.Add(id)
		return id, nil
	}
	return "", fmt.Errorf("%w after %d attempts", ErrIDGeneration, maxIDAttempts)
}

// fieldsWithoutID copies row into a plain map, dropping the id key.
func fieldsWithoutID(row RawRow) map[string]any {
	fields := make(map[string]any, len(row))
	for k, val := range row {
		if k == IDField {
			continue
		}
		fields[k] = val
	}
	return fields
}
