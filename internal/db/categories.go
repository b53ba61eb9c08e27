package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"studyhub/internal/models"
)

const categoryColumns = `id, name_en, name_vi, slug_en, slug_vi, description, keywords, is_active, created_at, updated_at`

// CreateCategory inserts a new category.
func (d *DB) CreateCategory(ctx context.Context, cat *models.Category) error {
	query := `
		INSERT INTO categories (name_en, name_vi, slug_en, slug_vi, description, keywords)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		cat.NameEn,
		cat.NameVi,
		cat.SlugEn,
		cat.SlugVi,
		cat.Description,
		cat.Keywords,
	).Scan(&cat.ID, &cat.IsActive, &cat.CreatedAt, &cat.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCategory
		}
		return err
	}
	return nil
}

// SeedCategory inserts a category if its slugs are not taken yet. Used by the
// YAML seed file on startup; existing rows are left untouched.
func (d *DB) SeedCategory(ctx context.Context, cat *models.Category) error {
	query := `
		INSERT INTO categories (name_en, name_vi, slug_en, slug_vi, description, keywords)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING
	`
	_, err := d.Pool.Exec(ctx, query,
		cat.NameEn, cat.NameVi, cat.SlugEn, cat.SlugVi, cat.Description, cat.Keywords)
	return err
}

func scanCategory(row pgx.Row) (*models.Category, error) {
	var cat models.Category
	err := row.Scan(
		&cat.ID,
		&cat.NameEn,
		&cat.NameVi,
		&cat.SlugEn,
		&cat.SlugVi,
		&cat.Description,
		&cat.Keywords,
		&cat.IsActive,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetCategoryByID retrieves a category by ID.
func (d *DB) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return scanCategory(d.Pool.QueryRow(ctx, query, id))
}

// CategoryExists reports whether an active category row exists.
func (d *DB) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND is_active)`, id).Scan(&exists)
	return exists, err
}

// ListCategories returns all active categories ordered by English name.
func (d *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := d.Pool.Query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE is_active ORDER BY name_en ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(
			&cat.ID,
			&cat.NameEn,
			&cat.NameVi,
			&cat.SlugEn,
			&cat.SlugVi,
			&cat.Description,
			&cat.Keywords,
			&cat.IsActive,
			&cat.CreatedAt,
			&cat.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

// UpdateCategory updates names, description and active flag.
func (d *DB) UpdateCategory(ctx context.Context, cat *models.Category) error {
	query := `
		UPDATE categories
		SET name_en = $1, name_vi = $2, description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		cat.NameEn, cat.NameVi, cat.Description, cat.IsActive, cat.ID).Scan(&cat.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrCategoryNotFound
	}
	return err
}
