package library

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/luxplan/luxplan-go/internal/database/models"
	"github.com/luxplan/luxplan-go/internal/database/repositories"
	"github.com/luxplan/luxplan-go/internal/fixtures"
)

// Service handles profile import, export, and catalog assembly.
type Service struct {
	db          *gorm.DB
	profileRepo *repositories.ProfileRepository
}

// NewService creates a new profile library service.
func NewService(db *gorm.DB, profileRepo *repositories.ProfileRepository) *Service {
	return &Service{
		db:          db,
		profileRepo: profileRepo,
	}
}

// ImportProfile imports a fixture profile from its JSON document form.
// A stored profile with the same name fails with a PROFILE_EXISTS: prefixed
// error unless replace is set, in which case the record and its measurements
// are swapped in one transaction.
func (s *Service) ImportProfile(ctx context.Context, documentJSON string, replace bool) (*models.FixtureRecord, error) {
	var doc ProfileDocument
	if err := json.Unmarshal([]byte(documentJSON), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	// Full photometric validation before touching the database.
	if _, err := doc.ToProfile(); err != nil {
		return nil, err
	}

	existing, err := s.profileRepo.FindByName(ctx, doc.Name)
	if err != nil {
		return nil, fmt.Errorf("error checking existing profile: %w", err)
	}
	if existing != nil && !replace {
		return nil, fmt.Errorf("PROFILE_EXISTS:%s", doc.Name)
	}

	record, entries, err := recordFromDocument(&doc)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := s.profileRepo.ReplaceWithMeasurements(ctx, record, entries); err != nil {
			return nil, fmt.Errorf("failed to replace profile: %w", err)
		}
		return record, nil
	}

	if err := s.profileRepo.CreateWithMeasurements(ctx, record, entries); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return record, nil
}

// ExportProfile serializes a profile to its JSON document form. Stored
// profiles take precedence; built-ins are exportable even though they never
// hit the database.
func (s *Service) ExportProfile(ctx context.Context, name string) (string, error) {
	record, err := s.profileRepo.FindByNameWithMeasurements(ctx, name)
	if err != nil {
		return "", fmt.Errorf("error loading profile: %w", err)
	}

	var doc *ProfileDocument
	if record != nil {
		doc, err = documentFromRecord(record)
		if err != nil {
			return "", err
		}
	} else {
		builtins := fixtures.BuiltInProfiles()
		for i := range builtins {
			if builtins[i].Name == name {
				doc = DocumentFromProfile(&builtins[i])
				break
			}
		}
		if doc == nil {
			return "", fmt.Errorf("profile not found: %s", name)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}
	return string(data), nil
}

// BuildCatalog assembles the runtime catalog from the built-in profiles plus
// everything stored in the database. A stored profile with a built-in's name
// overrides it in place, keeping the catalog's listing order stable. Stored
// rows that no longer validate are skipped with a warning rather than taking
// the catalog down.
func (s *Service) BuildCatalog(ctx context.Context) (*fixtures.Catalog, error) {
	builtins := fixtures.BuiltInProfiles()
	records, err := s.profileRepo.FindAllWithMeasurements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored profiles: %w", err)
	}

	profiles := make([]fixtures.Profile, 0, len(builtins)+len(records))
	index := make(map[string]int, len(builtins))
	for _, p := range builtins {
		index[p.Name] = len(profiles)
		profiles = append(profiles, p)
	}

	for i := range records {
		doc, err := documentFromRecord(&records[i])
		if err != nil {
			log.Printf("⚠️  Skipping stored profile %q: %v", records[i].Name, err)
			continue
		}
		profile, err := doc.ToProfile()
		if err != nil {
			log.Printf("⚠️  Skipping stored profile %q: %v", records[i].Name, err)
			continue
		}
		if at, ok := index[profile.Name]; ok {
			profiles[at] = *profile
		} else {
			index[profile.Name] = len(profiles)
			profiles = append(profiles, *profile)
		}
	}

	return fixtures.NewCatalog(profiles...)
}
