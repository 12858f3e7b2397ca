package models

import (
	"encoding/json"
	"fmt"
	"time"

	"lead-sync/core/reconcile"

	"gorm.io/datatypes"
)

// Lead is the persisted form of a reconcile.Record.
type Lead struct {
	ID        string         `gorm:"primaryKey;column:id;type:varchar(64)"`
	Fields    datatypes.JSON `gorm:"column:fields;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;not null;autoUpdateTime:false;index"`
}

func (Lead) TableName() string {
	return "leads"
}

// Columns lists the columns the store reads and writes.
var Columns = []string{"id", "fields", "updated_at"}

// FromRecord encodes rec for storage.
func FromRecord(rec reconcile.Record) (Lead, error) {
	fields := rec.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return Lead{}, fmt.Errorf("failed to encode fields of %s: %w", rec.ID, err)
	}
	return Lead{ID: rec.ID, Fields: datatypes.JSON(raw), UpdatedAt: rec.UpdatedAt.UTC()}, nil
}

// ToRecord decodes the stored row.
func (l Lead) ToRecord() (reconcile.Record, error) {
	fields := map[string]any{}
	if len(l.Fields) > 0 {
		if err := json.Unmarshal(l.Fields, &fields); err != nil {
			return reconcile.Record{}, fmt.Errorf("failed to decode fields of %s: %w", l.ID, err)
		}
	}
	return reconcile.Record{ID: l.ID, Fields: fields, UpdatedAt: l.UpdatedAt.UTC()}, nil
}
