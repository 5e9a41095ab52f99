// Package services composes the repository and conversion pipeline into the
// database-mode loading flow.
package services

import (
	"fmt"
	"log"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/ubermorgenland/anyapi-mcp/pkg/models"
	"github.com/ubermorgenland/anyapi-mcp/pkg/openapi2mcp"
	"github.com/ubermorgenland/anyapi-mcp/pkg/repository"
)

// LoadedSpec pairs a stored record with its parsed description.
type LoadedSpec struct {
	Record *models.SpecRecord
	Doc    *openapi3.T
}

// SpecLoaderService loads and parses the active stored descriptions.
type SpecLoaderService struct {
	repo *repository.SpecRepository
}

// NewSpecLoaderService creates the loader over the shared database.
func NewSpecLoaderService() *SpecLoaderService {
	return &SpecLoaderService{repo: repository.NewSpecRepository()}
}

// LoadActiveSpecs parses every active record. A record that fails to parse
// is logged and skipped; one broken description must not take down the
// others.
func (s *SpecLoaderService) LoadActiveSpecs() ([]LoadedSpec, error) {
	records, err := s.repo.GetAllActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load spec records: %v", err)
	}

	var loaded []LoadedSpec
	for _, rec := range records {
		doc, err := openapi2mcp.LoadOpenAPISpecFromBytes([]byte(rec.SpecContent))
		if err != nil {
			log.Printf("[WARN] Skipping spec %q: %v", rec.Name, err)
			continue
		}
		loaded = append(loaded, LoadedSpec{Record: rec, Doc: doc})
	}

	log.Printf("Loaded %d of %d stored specs", len(loaded), len(records))
	return loaded, nil
}

// LoadSpecByName parses one stored record.
func (s *SpecLoaderService) LoadSpecByName(name string) (*LoadedSpec, error) {
	rec, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	doc, err := openapi2mcp.LoadOpenAPISpecFromBytes([]byte(rec.SpecContent))
	if err != nil {
		return nil, fmt.Errorf("spec %q does not parse: %v", name, err)
	}
	return &LoadedSpec{Record: rec, Doc: doc}, nil
}
