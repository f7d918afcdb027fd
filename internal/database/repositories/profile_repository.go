package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/luxplan/luxplan-go/internal/database/models"
)

// ProfileRepository handles fixture profile data access.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindAll returns all fixture records ordered by name.
func (r *ProfileRepository) FindAll(ctx context.Context) ([]models.FixtureRecord, error) {
	var records []models.FixtureRecord
	result := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&records)
	return records, result.Error
}

// FindAllWithMeasurements returns all fixture records with their photometric
// entries loaded, ordered by name.
func (r *ProfileRepository) FindAllWithMeasurements(ctx context.Context) ([]models.FixtureRecord, error) {
	var records []models.FixtureRecord
	result := r.db.WithContext(ctx).
		Preload("Measurements").
		Order("name ASC").
		Find(&records)
	return records, result.Error
}

// FindByName returns a fixture record by name.
func (r *ProfileRepository) FindByName(ctx context.Context, name string) (*models.FixtureRecord, error) {
	var record models.FixtureRecord
	result := r.db.WithContext(ctx).First(&record, "name = ?", name)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}

// FindByNameWithMeasurements returns a fixture record by name with its
// photometric entries loaded.
func (r *ProfileRepository) FindByNameWithMeasurements(ctx context.Context, name string) (*models.FixtureRecord, error) {
	var record models.FixtureRecord
	result := r.db.WithContext(ctx).
		Preload("Measurements").
		First(&record, "name = ?", name)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &record, nil
}

// Create creates a new fixture record.
func (r *ProfileRepository) Create(ctx context.Context, record *models.FixtureRecord) error {
	if record.ID == "" {
		record.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

// CreateWithMeasurements creates a fixture record with its photometric
// entries in a transaction.
func (r *ProfileRepository) CreateWithMeasurements(ctx context.Context, record *models.FixtureRecord, entries []models.PhotometricEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record.ID == "" {
			record.ID = cuid.New()
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		if len(entries) > 0 {
			for i := range entries {
				if entries[i].ID == "" {
					entries[i].ID = cuid.New()
				}
				entries[i].FixtureID = record.ID
			}
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceWithMeasurements updates an existing fixture record and swaps its
// photometric entries for the given set, all in a transaction.
func (r *ProfileRepository) ReplaceWithMeasurements(ctx context.Context, record *models.FixtureRecord, entries []models.PhotometricEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(record).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.PhotometricEntry{}, "fixture_id = ?", record.ID).Error; err != nil {
			return err
		}

		if len(entries) > 0 {
			for i := range entries {
				if entries[i].ID == "" {
					entries[i].ID = cuid.New()
				}
				entries[i].FixtureID = record.ID
			}
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates an existing fixture record.
func (r *ProfileRepository) Update(ctx context.Context, record *models.FixtureRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// Delete deletes a fixture record and its photometric entries by ID.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.PhotometricEntry{}, "fixture_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.FixtureRecord{}, "id = ?", id).Error
	})
}

// GetMeasurements returns all photometric entries for a fixture record.
func (r *ProfileRepository) GetMeasurements(ctx context.Context, fixtureID string) ([]models.PhotometricEntry, error) {
	var entries []models.PhotometricEntry
	result := r.db.WithContext(ctx).
		Where("fixture_id = ?", fixtureID).
		Order("modifier ASC, color_temp ASC").
		Find(&entries)
	return entries, result.Error
}

// Count returns the total count of fixture records in the database.
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.FixtureRecord{}).
		Count(&count)
	return count, result.Error
}

// RecordImportMeta stores the outcome of a profile library import run.
func (r *ProfileRepository) RecordImportMeta(ctx context.Context, meta *models.ProfileImportMeta) error {
	if meta.ID == "" {
		meta.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Create(meta).Error
}

// LatestImportMeta returns the most recent profile import record, or nil if
// no import has run yet.
func (r *ProfileRepository) LatestImportMeta(ctx context.Context) (*models.ProfileImportMeta, error) {
	var meta models.ProfileImportMeta
	result := r.db.WithContext(ctx).
		Order("completed_at DESC").
		First(&meta)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &meta, nil
}
