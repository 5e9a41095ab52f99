package models

import "time"

// SpecRecord is one stored API description, as persisted in the spec_records
// table. Pointer fields are nullable columns.
type SpecRecord struct {
	ID           int        `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Title        *string    `json:"title,omitempty" db:"title"`
	Version      *string    `json:"version,omitempty" db:"version"`
	SpecContent  string     `json:"spec_content" db:"spec_content"`
	EndpointPath string     `json:"endpoint_path" db:"endpoint_path"`
	FileFormat   *string    `json:"file_format,omitempty" db:"file_format"`
	FileSize     *int       `json:"file_size,omitempty" db:"file_size"`
	APIToken     *string    `json:"api_token,omitempty" db:"api_token"`
	IsActive     *bool      `json:"is_active,omitempty" db:"is_active"`
	CreatedAt    *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// TableName returns the backing table name.
func (SpecRecord) TableName() string {
	return "spec_records"
}

// NewSpecRecord creates a record with sensible defaults: active, yaml format.
func NewSpecRecord(name, specContent, endpointPath string) *SpecRecord {
	now := time.Now()
	active := true
	format := "yaml"

	return &SpecRecord{
		Name:         name,
		SpecContent:  specContent,
		EndpointPath: endpointPath,
		FileFormat:   &format,
		IsActive:     &active,
		CreatedAt:    &now,
		UpdatedAt:    &now,
	}
}

// Token returns the stored API token, empty when unset.
func (s *SpecRecord) Token() string {
	if s.APIToken == nil {
		return ""
	}
	return *s.APIToken
}

// Active reports whether the record should be served.
func (s *SpecRecord) Active() bool {
	return s.IsActive == nil || *s.IsActive
}
