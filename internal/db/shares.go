package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"studyhub/internal/models"
)

// CreateShare grants a user access to a content item. Sharing the same
// item with the same user twice returns ErrDuplicateShare.
func (d *DB) CreateShare(ctx context.Context, share *models.Share) error {
	query := `
		INSERT INTO shares (kind, content_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := d.Pool.QueryRow(ctx, query, share.Kind, share.ContentID, share.UserID).Scan(&share.ID, &share.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateShare
	}
	return err
}

// DeleteShare revokes a grant.
func (d *DB) DeleteShare(ctx context.Context, kind string, contentID, userID uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM shares WHERE kind = $1 AND content_id = $2 AND user_id = $3
	`, kind, contentID, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrShareNotFound
	}
	return nil
}

// GetSharesForContent lists the grants on one content item.
func (d *DB) GetSharesForContent(ctx context.Context, kind string, contentID uuid.UUID) ([]models.Share, error) {
	return d.getShares(ctx, `
		SELECT id, kind, content_id, user_id, created_at
		FROM shares
		WHERE kind = $1 AND content_id = $2
		ORDER BY created_at DESC
	`, kind, contentID)
}

// GetSharesForUser lists the grants a user has received, optionally
// restricted to one kind.
func (d *DB) GetSharesForUser(ctx context.Context, userID uuid.UUID, kind string) ([]models.Share, error) {
	query := `
		SELECT id, kind, content_id, user_id, created_at
		FROM shares
		WHERE user_id = $1
	`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`
	return d.getShares(ctx, query, args...)
}

// IsSharedWith reports whether a content item has been shared with a user.
func (d *DB) IsSharedWith(ctx context.Context, kind string, contentID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM shares WHERE kind = $1 AND content_id = $2 AND user_id = $3)
	`, kind, contentID, userID).Scan(&exists)
	return exists, err
}

func (d *DB) getShares(ctx context.Context, query string, args ...any) ([]models.Share, error) {
	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var s models.Share
		if err := rows.Scan(&s.ID, &s.Kind, &s.ContentID, &s.UserID, &s.CreatedAt); err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	return shares, rows.Err()
}
