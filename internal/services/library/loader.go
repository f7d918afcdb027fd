package library

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/luxplan/luxplan-go/internal/database/models"
	"github.com/luxplan/luxplan-go/internal/database/repositories"
)

// LastImportSettingKey is the settings key recording when the profile library
// was last scanned.
const LastImportSettingKey = "profile_library_last_import"

// ImportStatus summarizes one profile library scan.
type ImportStatus struct {
	StartedAt         time.Time
	CompletedAt       time.Time
	TotalFiles        int
	SuccessfulImports int
	FailedImports     int
	SkippedDuplicates int
}

// Loader imports fixture profile documents from a library directory.
type Loader struct {
	service     *Service
	profileRepo *repositories.ProfileRepository
	settingRepo *repositories.SettingRepository
	libraryPath string
}

// NewLoader creates a new profile library loader.
func NewLoader(service *Service, profileRepo *repositories.ProfileRepository, settingRepo *repositories.SettingRepository, libraryPath string) *Loader {
	return &Loader{
		service:     service,
		profileRepo: profileRepo,
		settingRepo: settingRepo,
		libraryPath: libraryPath,
	}
}

// LoadDirectory scans the library directory for profile JSON documents and
// imports each new one. Files whose profile name is already stored are
// skipped; a missing directory is not an error. Intended to run on startup.
func (l *Loader) LoadDirectory(ctx context.Context) (*ImportStatus, error) {
	log.Printf("📦 Scanning profile library at %s...", l.libraryPath)
	status := &ImportStatus{StartedAt: time.Now()}

	if _, err := os.Stat(l.libraryPath); os.IsNotExist(err) {
		log.Printf("📦 Profile library directory %s does not exist, skipping import", l.libraryPath)
		status.CompletedAt = time.Now()
		return status, nil
	}

	files, err := filepath.Glob(filepath.Join(l.libraryPath, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile library: %w", err)
	}
	status.TotalFiles = len(files)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️  Failed to read %s: %v", filepath.Base(path), err)
			status.FailedImports++
			continue
		}

		_, err = l.service.ImportProfile(ctx, string(data), false)
		if err != nil {
			// A duplicate is not an error, just a file already imported.
			if strings.HasPrefix(err.Error(), "PROFILE_EXISTS:") {
				status.SkippedDuplicates++
				continue
			}
			log.Printf("⚠️  Failed to import %s: %v", filepath.Base(path), err)
			status.FailedImports++
			continue
		}
		status.SuccessfulImports++
	}

	status.CompletedAt = time.Now()

	if err := l.recordStatus(ctx, status); err != nil {
		log.Printf("Warning: failed to record import status: %v", err)
	}

	log.Printf("✅ Profile library import complete: %d imported, %d skipped, %d failed, %d total",
		status.SuccessfulImports, status.SkippedDuplicates, status.FailedImports, status.TotalFiles)

	return status, nil
}

// LastImport returns the most recent import record, or nil if the library has
// never been scanned.
func (l *Loader) LastImport(ctx context.Context) (*models.ProfileImportMeta, error) {
	return l.profileRepo.LatestImportMeta(ctx)
}

// recordStatus persists the scan outcome so the next startup can report it.
func (l *Loader) recordStatus(ctx context.Context, status *ImportStatus) error {
	meta := &models.ProfileImportMeta{
		LibraryPath:       l.libraryPath,
		StartedAt:         status.StartedAt,
		CompletedAt:       status.CompletedAt,
		TotalFiles:        status.TotalFiles,
		SuccessfulImports: status.SuccessfulImports,
		FailedImports:     status.FailedImports,
		SkippedDuplicates: status.SkippedDuplicates,
	}
	if err := l.profileRepo.RecordImportMeta(ctx, meta); err != nil {
		return err
	}
	_, err := l.settingRepo.Upsert(ctx, LastImportSettingKey, status.CompletedAt.UTC().Format(time.RFC3339))
	return err
}
