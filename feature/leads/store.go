package leads

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lead-sync/core/database"
	"lead-sync/core/reconcile"
	"lead-sync/feature/leads/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the GORM-backed reconcile.Store for leads.
type Store struct {
	db *gorm.DB
}

var (
	_ reconcile.Store      = (*Store)(nil)
	_ reconcile.BulkLoader = (*Store)(nil)
)

// NewStore creates a Store over db.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the leads table.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&models.Lead{}); err != nil {
		return fmt.Errorf("failed to migrate leads table: %w", err)
	}
	return nil
}

// CheckSchema verifies the leads table exists with every column the store uses.
func (s *Store) CheckSchema() error {
	missing, err := database.MissingColumns(s.db, models.Lead{}.TableName(), models.Columns)
	if err != nil {
		return fmt.Errorf("failed to inspect leads table: %w", err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("leads table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// GetAllIDs returns the ids of every stored lead.
func (s *Store) GetAllIDs(ctx context.Context) (reconcile.IDSet, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Lead{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list lead ids: %w", err)
	}

	set := make(reconcile.IDSet, len(ids))
	for _, id := range ids {
		set.Add(id)
	}
	return set, nil
}

// GetAll loads every lead in one query.
func (s *Store) GetAll(ctx context.Context) (map[string]reconcile.Record, error) {
	rows, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[string]reconcile.Record, len(rows))
	for _, rec := range rows {
		out[rec.ID] = rec
	}
	return out, nil
}

// List returns every lead ordered by id.
func (s *Store) List(ctx context.Context) ([]reconcile.Record, error) {
	var rows []models.Lead
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load leads: %w", err)
	}

	out := make([]reconcile.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.ToRecord()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns one lead or reconcile.ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (reconcile.Record, error) {
	var row models.Lead
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return reconcile.Record{}, reconcile.ErrNotFound
	}
	if err != nil {
		return reconcile.Record{}, fmt.Errorf("failed to get lead %s: %w", id, err)
	}
	return row.ToRecord()
}

// Put inserts the lead or overwrites every column of an existing one.
func (s *Store) Put(ctx context.Context, rec reconcile.Record) error {
	row, err := models.FromRecord(rec)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"fields", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save lead %s: %w", rec.ID, err)
	}
	return nil
}

// Delete removes a lead. Deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Lead{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete lead %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Count returns the number of stored leads.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Lead{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count leads: %w", err)
	}
	return n, nil
}
