// Package models contains the database model definitions.
// These models map directly to the SQLite database tables.
package models

import (
	"time"
)

// Profile source values.
const (
	SourceBuiltIn  = "BUILT_IN"
	SourceImported = "IMPORTED"
)

// FixtureRecord represents a stored photometric profile for a light fixture.
// Ordered lists and curve parameters are stored as JSON strings; measurements
// live in their own table.
// Table: fixture_records
type FixtureRecord struct {
	ID                string  `gorm:"column:id;primaryKey"`
	Name              string  `gorm:"column:name;uniqueIndex"`
	MaxOutput         float64 `gorm:"column:max_output"`
	ReferenceDistance float64 `gorm:"column:reference_distance"`
	RangeMin          float64 `gorm:"column:range_min"`
	RangeMax          float64 `gorm:"column:range_max"`

	// Calibration pair: measured illuminance and the T-stop it exposed at
	// under the reference camera settings.
	CalIlluminance float64 `gorm:"column:cal_illuminance"`
	CalTStop       float64 `gorm:"column:cal_t_stop"`

	Modifiers  string `gorm:"column:modifiers;default:[]"`   // JSON array, first entry is the default
	ColorTemps string `gorm:"column:color_temps;default:[]"` // JSON array, first entry is the fallback

	CurveType     string `gorm:"column:curve_type;default:NONE"`
	CurveParams   string `gorm:"column:curve_params;default:{}"`   // JSON object, shape depends on curve type
	TempPenalties string `gorm:"column:temp_penalties;default:{}"` // JSON object of color temp -> multiplier

	Source    string    `gorm:"column:source;default:IMPORTED"` // BUILT_IN or IMPORTED
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relations
	Measurements []PhotometricEntry `gorm:"foreignKey:FixtureID"`
}

func (FixtureRecord) TableName() string { return "fixture_records" }

// PhotometricEntry represents a single measured illuminance for a fixture
// at its reference distance under one modifier and color temperature.
// Table: photometric_entries
type PhotometricEntry struct {
	ID        string  `gorm:"column:id;primaryKey"`
	FixtureID string  `gorm:"column:fixture_id;index"`
	Modifier  string  `gorm:"column:modifier"`
	ColorTemp string  `gorm:"column:color_temp"`
	Lux       float64 `gorm:"column:lux"`
}

func (PhotometricEntry) TableName() string { return "photometric_entries" }

// Setting represents a system setting.
// Table: settings
type Setting struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Setting) TableName() string { return "settings" }

// ProfileImportMeta tracks the history of profile library imports.
// Table: profile_import_meta
type ProfileImportMeta struct {
	ID                string    `gorm:"column:id;primaryKey"`
	LibraryPath       string    `gorm:"column:library_path"`       // Directory the import scanned
	StartedAt         time.Time `gorm:"column:started_at"`         // When import started
	CompletedAt       time.Time `gorm:"column:completed_at"`       // When import completed
	TotalFiles        int       `gorm:"column:total_files"`        // Profile files found
	SuccessfulImports int       `gorm:"column:successful_imports"` // Successfully imported
	FailedImports     int       `gorm:"column:failed_imports"`     // Failed to import
	SkippedDuplicates int       `gorm:"column:skipped_duplicates"` // Already existed
	ErrorMessage      *string   `gorm:"column:error_message"`      // Error if import failed
}

func (ProfileImportMeta) TableName() string { return "profile_import_meta" }
