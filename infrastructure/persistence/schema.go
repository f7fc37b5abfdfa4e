package persistence

import "database/sql"

// EnsureSchema creates the application tables when they do not exist yet.
// Column shapes follow the import/publishing data model; no migration tooling
// is used for this service.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			user_name VARCHAR(64) NOT NULL UNIQUE,
			password VARCHAR(128) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS oauth_tokens (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			provider VARCHAR(50) NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT,
			expires_at TIMESTAMPTZ,
			scope TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, provider)
		)`,
		`CREATE TABLE IF NOT EXISTS scheduled_posts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			scheduled_date VARCHAR(10) NOT NULL,
			scheduled_time VARCHAR(5) NOT NULL,
			scheduled_timestamp TIMESTAMPTZ NOT NULL,
			platform VARCHAR(50) NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			hashtags TEXT NOT NULL DEFAULT '',
			prompt TEXT NOT NULL DEFAULT '',
			video_file VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			published_at TIMESTAMPTZ,
			external_id VARCHAR(255),
			published_url TEXT,
			error_message TEXT,
			retry_count INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_posts_due
			ON scheduled_posts (status, scheduled_timestamp)`,
		`CREATE TABLE IF NOT EXISTS logs (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT,
			post_id BIGINT,
			level VARCHAR(10) NOT NULL,
			message TEXT NOT NULL,
			details TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_settings (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL UNIQUE,
			timezone VARCHAR(50) NOT NULL DEFAULT 'America/Sao_Paulo',
			drive_folder_id VARCHAR(255),
			drive_folder_name VARCHAR(255),
			notifications_enabled BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
