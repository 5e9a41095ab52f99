// migrations.go
package database

import "log"

// RunMigrations creates the schema objects if they do not exist yet.
// Migrations are idempotent; running them on every startup is intended.
func RunMigrations() error {
	const createSpecRecords = `
		CREATE TABLE IF NOT EXISTS spec_records (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			title VARCHAR(500),
			version VARCHAR(50),
			spec_content TEXT NOT NULL,
			endpoint_path VARCHAR(255) NOT NULL UNIQUE,
			file_format VARCHAR(10) DEFAULT 'yaml',
			file_size INTEGER,
			api_token TEXT,
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`

	const createActiveIndex = `
		CREATE INDEX IF NOT EXISTS idx_spec_records_active
		ON spec_records (is_active) WHERE is_active = true`

	if _, err := DB.Exec(createSpecRecords); err != nil {
		return err
	}
	if _, err := DB.Exec(createActiveIndex); err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}
