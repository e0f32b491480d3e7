package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Схема создаётся при старте, если таблиц ещё нет.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS admins (
		id SERIAL PRIMARY KEY,
		username VARCHAR(80) NOT NULL UNIQUE,
		email VARCHAR(120) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'viewer',
		is_active BOOLEAN NOT NULL DEFAULT true,
		last_login TIMESTAMPTZ,
		created_by INTEGER,
		reset_token VARCHAR(512),
		reset_token_expires TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS donations (
		id SERIAL PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(120) NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		provider VARCHAR(50),
		account_number VARCHAR(30),
		ifsc VARCHAR(20),
		transaction_ref VARCHAR(100),
		invoice_path VARCHAR(255),
		qr_path VARCHAR(255),
		is_verified BOOLEAN NOT NULL DEFAULT false,
		verified_by INTEGER REFERENCES admins(id),
		verified_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS admin_activity (
		id SERIAL PRIMARY KEY,
		admin_id INTEGER NOT NULL REFERENCES admins(id),
		activity VARCHAR(255) NOT NULL,
		ip_address VARCHAR(45),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS media_files (
		id SERIAL PRIMARY KEY,
		filename VARCHAR(255) NOT NULL,
		filepath VARCHAR(255) NOT NULL,
		uploaded_by INTEGER REFERENCES admins(id),
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id SERIAL PRIMARY KEY,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		location VARCHAR(200) NOT NULL,
		created_by INTEGER REFERENCES admins(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_donations_created_at ON donations (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_admin_activity_created_at ON admin_activity (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_date ON events (date)`,
}

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
