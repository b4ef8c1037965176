package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Titan-M/mailsift/pkg/types"
)

const emailColumns = `id, external_id, user_id, gmail_id, subject, sender, body, category, priority, summary, received_at, processed_at, created_at`

func (r *PostgresBackend) GetEmailByGmailId(ctx context.Context, userId, gmailId string) (*types.Email, error) {
	query := fmt.Sprintf(`SELECT %s FROM email WHERE user_id = $1 AND gmail_id = $2`, emailColumns)

	var e types.Email
	err := r.db.QueryRowContext(ctx, query, userId, gmailId).Scan(
		&e.Id, &e.ExternalId, &e.UserId, &e.GmailId, &e.Subject, &e.Sender, &e.Body,
		&e.Category, &e.Priority, &e.Summary, &e.ReceivedAt, &e.ProcessedAt, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get email by gmail id: %w", err)
	}
	return &e, nil
}

// InsertEmail creates a new classified record. The (user_id, gmail_id)
// uniqueness constraint makes concurrent inserts of the same message safe;
// losers receive ErrDuplicateEmail.
func (r *PostgresBackend) InsertEmail(ctx context.Context, email *types.Email) error {
	query := fmt.Sprintf(`
		INSERT INTO email (user_id, gmail_id, subject, sender, body, category, priority, summary, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`, emailColumns)

	err := r.db.QueryRowContext(ctx, query,
		email.UserId, email.GmailId, email.Subject, email.Sender, email.Body,
		email.Category, email.Priority, email.Summary, email.ReceivedAt,
	).Scan(
		&email.Id, &email.ExternalId, &email.UserId, &email.GmailId, &email.Subject,
		&email.Sender, &email.Body, &email.Category, &email.Priority, &email.Summary,
		&email.ReceivedAt, &email.ProcessedAt, &email.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert email: %w", err)
	}
	return nil
}

func (r *PostgresBackend) ListEmails(ctx context.Context, userId string, filter types.EmailFilter) ([]types.Email, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	where := `WHERE user_id = $1`
	args := []any{userId}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where += fmt.Sprintf(` AND priority = $%d`, len(args))
	}

	countQuery := `SELECT COUNT(*) FROM email ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count emails: %w", err)
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM email %s ORDER BY received_at DESC LIMIT $%d OFFSET $%d`,
		emailColumns, where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list emails: %w", err)
	}
	defer rows.Close()

	var emails []types.Email
	for rows.Next() {
		var e types.Email
		if err := rows.Scan(
			&e.Id, &e.ExternalId, &e.UserId, &e.GmailId, &e.Subject, &e.Sender, &e.Body,
			&e.Category, &e.Priority, &e.Summary, &e.ReceivedAt, &e.ProcessedAt, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan email: %w", err)
		}
		emails = append(emails, e)
	}
	return emails, total, rows.Err()
}

func (r *PostgresBackend) DeleteEmail(ctx context.Context, userId, externalId string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM email WHERE user_id = $1 AND external_id = $2`, userId, externalId)
	if err != nil {
		return fmt.Errorf("delete email: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete email: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
