package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"

	"github.com/andy11223386/akashicConnect/internal/config"
)

const refreshTokensSchema = `
CREATE TABLE IF NOT EXISTS refresh_tokens (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	user_id     TEXT NOT NULL,
	token_hash  TEXT NOT NULL UNIQUE,
	expires_at  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	revoked_at  TIMESTAMPTZ,
	replaced_by UUID,
	device_info TEXT,
	ip_address  TEXT
);
CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens (user_id);
`

// ConnectPostgres opens the Postgres pool that holds refresh tokens.
func ConnectPostgres(cfg *config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("component", "Database").Str("host", cfg.DBHost).Msg("connected to Postgres")
	return db, nil
}

// MigratePostgres creates the refresh token table when it does not exist.
func MigratePostgres(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, refreshTokensSchema); err != nil {
		return fmt.Errorf("migrate refresh_tokens: %w", err)
	}
	return nil
}
