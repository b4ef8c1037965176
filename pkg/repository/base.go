package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Titan-M/mailsift/pkg/types"
)

// ErrDuplicateEmail is returned by InsertEmail when a record with the same
// (user_id, gmail_id) pair already exists. The database uniqueness
// constraint is the authoritative guard; callers treat this as "skipped".
var ErrDuplicateEmail = errors.New("email already ingested")

// EmailRepository persists classified email records with at-most-once
// semantics per (user_id, gmail_id).
type EmailRepository interface {
	GetEmailByGmailId(ctx context.Context, userId, gmailId string) (*types.Email, error)
	InsertEmail(ctx context.Context, email *types.Email) error
	ListEmails(ctx context.Context, userId string, filter types.EmailFilter) ([]types.Email, int, error)
	DeleteEmail(ctx context.Context, userId, externalId string) error
}

// ProfileRepository tracks per-user sync bookkeeping
type ProfileRepository interface {
	UpsertLastSync(ctx context.Context, userId string, syncedAt time.Time) error
	GetProfile(ctx context.Context, userId string) (*types.UserProfile, error)
}

// CredentialRepository stores per-user mail-source OAuth tokens
type CredentialRepository interface {
	SaveCredentials(ctx context.Context, creds *types.GmailCredentials) error
	GetCredentials(ctx context.Context, userId string) (*types.GmailCredentials, error)
}

// BackendRepository is the main Postgres repository for persistent data
type BackendRepository interface {
	EmailRepository
	ProfileRepository
	CredentialRepository
	Ping(ctx context.Context) error
}
