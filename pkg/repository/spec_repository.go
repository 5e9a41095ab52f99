// Package repository provides data access for stored API descriptions.
package repository

import (
	"database/sql"
	"fmt"

	"github.com/ubermorgenland/anyapi-mcp/pkg/database"
	"github.com/ubermorgenland/anyapi-mcp/pkg/models"
)

// SpecRepository reads and writes spec_records rows.
type SpecRepository struct {
	db *sql.DB
}

// NewSpecRepository creates a repository over the shared connection.
func NewSpecRepository() *SpecRepository {
	return &SpecRepository{db: database.DB}
}

const specColumns = `id, name, title, version, spec_content, endpoint_path,
	file_format, file_size, api_token, is_active, created_at, updated_at`

func scanSpecRecord(row interface{ Scan(...any) error }) (*models.SpecRecord, error) {
	var rec models.SpecRecord
	err := row.Scan(&rec.ID, &rec.Name, &rec.Title, &rec.Version, &rec.SpecContent,
		&rec.EndpointPath, &rec.FileFormat, &rec.FileSize, &rec.APIToken,
		&rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetAllActive returns every active record, oldest first. The ordering fixes
// the tool registration order across restarts.
func (r *SpecRepository) GetAllActive() ([]*models.SpecRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM spec_records WHERE is_active = true ORDER BY id`, specColumns)
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active specs: %v", err)
	}
	defer rows.Close()

	var records []*models.SpecRecord
	for rows.Next() {
		rec, err := scanSpecRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spec record: %v", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetByName returns one record by its unique name.
func (r *SpecRepository) GetByName(name string) (*models.SpecRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM spec_records WHERE name = $1`, specColumns)
	rec, err := scanSpecRecord(r.db.QueryRow(query, name))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("spec %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load spec %q: %v", name, err)
	}
	return rec, nil
}

// Create inserts a new record and fills in its generated id.
func (r *SpecRepository) Create(rec *models.SpecRecord) error {
	query := `INSERT INTO spec_records
		(name, title, version, spec_content, endpoint_path, file_format, file_size, api_token, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.db.QueryRow(query, rec.Name, rec.Title, rec.Version, rec.SpecContent,
		rec.EndpointPath, rec.FileFormat, rec.FileSize, rec.APIToken, rec.IsActive).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to create spec %q: %v", rec.Name, err)
	}
	return nil
}

// UpdateContent replaces a record's stored description and bumps updated_at.
func (r *SpecRepository) UpdateContent(name, specContent string) error {
	query := `UPDATE spec_records
		SET spec_content = $1, file_size = $2, updated_at = CURRENT_TIMESTAMP
		WHERE name = $3`
	result, err := r.db.Exec(query, specContent, len(specContent), name)
	if err != nil {
		return fmt.Errorf("failed to update spec %q: %v", name, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("spec %q not found", name)
	}
	return err
}

// SetToken stores the upstream API credential for a record.
func (r *SpecRepository) SetToken(name, token string) error {
	query := `UPDATE spec_records SET api_token = $1, updated_at = CURRENT_TIMESTAMP WHERE name = $2`
	_, err := r.db.Exec(query, token, name)
	if err != nil {
		return fmt.Errorf("failed to set token for spec %q: %v", name, err)
	}
	return nil
}

// SetActive toggles whether a record is served.
func (r *SpecRepository) SetActive(name string, active bool) error {
	query := `UPDATE spec_records SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE name = $2`
	_, err := r.db.Exec(query, active, name)
	if err != nil {
		return fmt.Errorf("failed to update spec %q: %v", name, err)
	}
	return nil
}

// Delete removes a record permanently.
func (r *SpecRepository) Delete(name string) error {
	result, err := r.db.Exec(`DELETE FROM spec_records WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete spec %q: %v", name, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("spec %q not found", name)
	}
	return err
}
