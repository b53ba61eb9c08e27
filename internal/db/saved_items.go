package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"studyhub/internal/models"
)

// SaveItem bookmarks a content item for a user. Saving the same item
// twice returns ErrAlreadySaved.
func (d *DB) SaveItem(ctx context.Context, item *models.SavedItem) error {
	query := `
		INSERT INTO saved_items (user_id, kind, ref)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := d.Pool.QueryRow(ctx, query, item.UserID, item.Kind, item.Ref).Scan(&item.ID, &item.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadySaved
	}
	return err
}

// UnsaveItem removes a bookmark.
func (d *DB) UnsaveItem(ctx context.Context, userID uuid.UUID, kind string, ref uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `
		DELETE FROM saved_items WHERE user_id = $1 AND kind = $2 AND ref = $3
	`, userID, kind, ref)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrSavedItemNotFound
	}
	return nil
}

// GetSavedItems lists a user's bookmarks newest first, optionally
// restricted to one kind.
func (d *DB) GetSavedItems(ctx context.Context, userID uuid.UUID, kind string) ([]models.SavedItem, error) {
	query := `
		SELECT id, user_id, kind, ref, created_at
		FROM saved_items
		WHERE user_id = $1
	`
	args := []any{userID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.SavedItem
	for rows.Next() {
		var it models.SavedItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.Kind, &it.Ref, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// IsSaved reports whether the user has bookmarked the given item.
func (d *DB) IsSaved(ctx context.Context, userID uuid.UUID, kind string, ref uuid.UUID) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM saved_items WHERE user_id = $1 AND kind = $2 AND ref = $3)
	`, userID, kind, ref).Scan(&exists)
	return exists, err
}

// SavedRefs returns the set of refs of one kind the user has saved,
// for flagging is_saved on list responses in a single query.
func (d *DB) SavedRefs(ctx context.Context, userID uuid.UUID, kind string) (map[uuid.UUID]bool, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT ref FROM saved_items WHERE user_id = $1 AND kind = $2
	`, userID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	refs := make(map[uuid.UUID]bool)
	for rows.Next() {
		var ref uuid.UUID
		if err := rows.Scan(&ref); err != nil {
			return nil, err
		}
		refs[ref] = true
	}
	return refs, rows.Err()
}
