package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Titan-M/mailsift/pkg/types"
)

func (r *PostgresBackend) UpsertLastSync(ctx context.Context, userId string, syncedAt time.Time) error {
	query := `
		INSERT INTO user_profile (user_id, last_email_sync, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id)
		DO UPDATE SET last_email_sync = EXCLUDED.last_email_sync, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, userId, syncedAt); err != nil {
		return fmt.Errorf("upsert last sync: %w", err)
	}
	return nil
}

func (r *PostgresBackend) GetProfile(ctx context.Context, userId string) (*types.UserProfile, error) {
	query := `SELECT user_id, last_email_sync, updated_at FROM user_profile WHERE user_id = $1`

	var p types.UserProfile
	err := r.db.QueryRowContext(ctx, query, userId).Scan(&p.UserId, &p.LastEmailSync, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresBackend) SaveCredentials(ctx context.Context, creds *types.GmailCredentials) error {
	query := `
		INSERT INTO gmail_credential (user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id)
		DO UPDATE SET access_token = EXCLUDED.access_token, refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.ExecContext(ctx, query, creds.UserId, creds.AccessToken, creds.RefreshToken, creds.ExpiresAt); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (r *PostgresBackend) GetCredentials(ctx context.Context, userId string) (*types.GmailCredentials, error) {
	query := `SELECT user_id, access_token, refresh_token, expires_at, updated_at FROM gmail_credential WHERE user_id = $1`

	var c types.GmailCredentials
	var refreshToken sql.NullString
	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userId).Scan(&c.UserId, &c.AccessToken, &refreshToken, &expiresAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get credentials: %w", err)
	}
	if refreshToken.Valid {
		c.RefreshToken = refreshToken.String
	}
	if expiresAt.Valid {
		c.ExpiresAt = expiresAt.Time
	}
	return &c, nil
}
