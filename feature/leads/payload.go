package leads

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"lead-sync/core/reconcile"
)

// ErrInvalidPayload is returned for bodies that are not {"leads": [objects]}.
var ErrInvalidPayload = errors.New("invalid payload")

// Payload is the body of a sync call.
type Payload struct {
	Leads []reconcile.RawRow `json:"leads" yaml:"leads"`
}

// ParsePayload decodes a sync body. It fails with ErrInvalidPayload unless
// the body is an object whose "leads" key is an array of objects.
func ParsePayload(body []byte) ([]reconcile.RawRow, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: body must be a JSON object: %v", ErrInvalidPayload, err)
	}

	raw, ok := envelope["leads"]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("%w: missing \"leads\" array", ErrInvalidPayload)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: \"leads\" must be an array", ErrInvalidPayload)
	}

	rows := make([]reconcile.RawRow, 0, len(items))
	for i, item := range items {
		var row map[string]any
		if isNull(item) || json.Unmarshal(item, &row) != nil {
			return nil, fmt.Errorf("%w: lead %d is not an object", ErrInvalidPayload, i)
		}
		rows = append(rows, reconcile.RawRow(row))
	}
	return rows, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
