package backend_postgres_migrations

import (
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upInitial, downInitial)
}

func upInitial(tx *sql.Tx) error {
	// Ensure UUID extension is available
	if _, err := tx.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return err
	}

	createStatements := []string{
		// Category and priority enums (closed sets, capitalized to match Go constants)
		`CREATE TYPE email_category AS ENUM ('Work', 'Personal', 'Finance', 'Travel', 'Shopping', 'Promotions', 'Spam', 'Other');`,
		`CREATE TYPE email_priority AS ENUM ('High', 'Medium', 'Low');`,

		// Classified email records. The UNIQUE (user_id, gmail_id) constraint
		// is the authoritative at-most-once ingestion guard.
		`CREATE TABLE IF NOT EXISTS email (
			id SERIAL PRIMARY KEY,
			external_id UUID DEFAULT uuid_generate_v4() UNIQUE NOT NULL,
			user_id VARCHAR(255) NOT NULL,
			gmail_id VARCHAR(255) NOT NULL,
			subject TEXT NOT NULL,
			sender TEXT NOT NULL,
			body TEXT NOT NULL,
			category email_category NOT NULL,
			priority email_priority NOT NULL,
			summary TEXT NOT NULL,
			received_at TIMESTAMP WITH TIME ZONE NOT NULL,
			processed_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT email_user_gmail_unique UNIQUE (user_id, gmail_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_email_user_received ON email (user_id, received_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_email_user_category ON email (user_id, category);`,

		// Per-user sync bookkeeping
		`CREATE TABLE IF NOT EXISTS user_profile (
			user_id VARCHAR(255) PRIMARY KEY,
			last_email_sync TIMESTAMP WITH TIME ZONE,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,

		// Per-user mail-source OAuth tokens
		`CREATE TABLE IF NOT EXISTS gmail_credential (
			user_id VARCHAR(255) PRIMARY KEY,
			access_token TEXT NOT NULL,
			refresh_token TEXT,
			expires_at TIMESTAMP WITH TIME ZONE,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		);`,
	}

	for _, stmt := range createStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func downInitial(tx *sql.Tx) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS gmail_credential;`,
		`DROP TABLE IF EXISTS user_profile;`,
		`DROP TABLE IF EXISTS email;`,
		`DROP TYPE IF EXISTS email_priority;`,
		`DROP TYPE IF EXISTS email_category;`,
	}

	for _, stmt := range dropStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
