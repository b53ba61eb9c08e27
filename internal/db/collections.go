package db

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyhub/internal/models"
)

const collectionColumns = `id, title, subtitle, description, cover_key, is_public,
	category_id, keywords, created_by, created_at, updated_at`

// CollectionFilter narrows ListCollections results.
type CollectionFilter struct {
	CreatedBy  *uuid.UUID // only collections owned by this user
	PublicOnly bool
	CategoryID *uuid.UUID
	Query      string // title substring match
	Limit      int
	Offset     int
}

func scanCollection(row pgx.Row) (*models.Collection, error) {
	var col models.Collection
	err := row.Scan(
		&col.ID,
		&col.Title,
		&col.Subtitle,
		&col.Description,
		&col.CoverKey,
		&col.IsPublic,
		&col.CategoryID,
		&col.Keywords,
		&col.CreatedBy,
		&col.CreatedAt,
		&col.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCollectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &col, nil
}

// CreateCollection inserts a new collection with no items.
func (d *DB) CreateCollection(ctx context.Context, col *models.Collection) error {
	query := `
		INSERT INTO collections (title, subtitle, description, cover_key, is_public, category_id, keywords, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		col.Title,
		col.Subtitle,
		col.Description,
		col.CoverKey,
		col.IsPublic,
		col.CategoryID,
		col.Keywords,
		col.CreatedBy,
	).Scan(&col.ID, &col.CreatedAt, &col.UpdatedAt)
}

// GetCollectionByID retrieves a collection with its ordered items and stats.
func (d *DB) GetCollectionByID(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + ` FROM collections WHERE id = $1`
	col, err := scanCollection(d.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	items, err := d.getCollectionItems(ctx, id)
	if err != nil {
		return nil, err
	}
	col.Items = items
	col.Normalize()
	return col, nil
}

// CollectionExists reports whether a collection row exists.
func (d *DB) CollectionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM collections WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (d *DB) getCollectionItems(ctx context.Context, id uuid.UUID) ([]models.CollectionItem, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT kind, ref, ord, title_override, note
		FROM collection_items
		WHERE collection_id = $1
		ORDER BY ord ASC
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CollectionItem
	for rows.Next() {
		var it models.CollectionItem
		if err := rows.Scan(&it.Kind, &it.Ref, &it.Order, &it.TitleOverride, &it.Note); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListCollections returns collections matching the filter plus the total
// count for pagination. Items are not loaded; stats come from subqueries.
func (d *DB) ListCollections(ctx context.Context, filter CollectionFilter) ([]models.Collection, int, error) {
	where := ` WHERE TRUE`
	var args []any

	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		where += ` AND created_by = $` + strconv.Itoa(len(args))
	}
	if filter.PublicOnly {
		where += ` AND is_public`
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where += ` AND title ILIKE $` + strconv.Itoa(len(args))
	}

	var total int
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM collections`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + collectionColumns + `,
			(SELECT COUNT(*) FROM collection_items ci WHERE ci.collection_id = collections.id AND ci.kind = 'lecture'),
			(SELECT COUNT(*) FROM collection_items ci WHERE ci.collection_id = collections.id AND ci.kind = 'document')
		FROM collections` + where + `
		ORDER BY created_at DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cols []models.Collection
	for rows.Next() {
		var col models.Collection
		if err := rows.Scan(
			&col.ID,
			&col.Title,
			&col.Subtitle,
			&col.Description,
			&col.CoverKey,
			&col.IsPublic,
			&col.CategoryID,
			&col.Keywords,
			&col.CreatedBy,
			&col.CreatedAt,
			&col.UpdatedAt,
			&col.Stats.Lectures,
			&col.Stats.Documents,
		); err != nil {
			return nil, 0, err
		}
		col.Stats.TotalItems = col.Stats.Lectures + col.Stats.Documents
		cols = append(cols, col)
	}
	return cols, total, rows.Err()
}

// UpdateCollection persists the collection's metadata fields.
func (d *DB) UpdateCollection(ctx context.Context, col *models.Collection) error {
	query := `
		UPDATE collections
		SET title = $1, subtitle = $2, description = $3, cover_key = $4,
			is_public = $5, category_id = $6, keywords = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		col.Title,
		col.Subtitle,
		col.Description,
		col.CoverKey,
		col.IsPublic,
		col.CategoryID,
		col.Keywords,
		col.ID,
	).Scan(&col.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCollectionNotFound
	}
	return err
}

// ReplaceCollectionItems swaps a collection's item list in one transaction.
// Callers reindex via Collection.Normalize before persisting.
func (d *DB) ReplaceCollectionItems(ctx context.Context, collectionID uuid.UUID, items []models.CollectionItem) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM collection_items WHERE collection_id = $1`, collectionID); err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO collection_items (collection_id, kind, ref, ord, title_override, note)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, collectionID, it.Kind, it.Ref, it.Order, it.TitleOverride, it.Note); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE collections SET updated_at = NOW() WHERE id = $1`, collectionID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// DeleteCollection deletes a collection; items go with it via cascade.
func (d *DB) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrCollectionNotFound
	}
	return nil
}
