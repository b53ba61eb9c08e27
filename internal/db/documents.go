package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyhub/internal/models"
)

const documentColumns = `id, title, description, file_key, mime_type, file_size,
	is_public, category_id, keywords, created_by, created_at, updated_at`

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.FileKey,
		&doc.MimeType,
		&doc.FileSize,
		&doc.IsPublic,
		&doc.CategoryID,
		&doc.Keywords,
		&doc.CreatedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func scanDocuments(rows pgx.Rows) ([]models.Document, error) {
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(
			&doc.ID,
			&doc.Title,
			&doc.Description,
			&doc.FileKey,
			&doc.MimeType,
			&doc.FileSize,
			&doc.IsPublic,
			&doc.CategoryID,
			&doc.Keywords,
			&doc.CreatedBy,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// CreateDocument inserts a new document.
func (d *DB) CreateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (title, description, file_key, mime_type, file_size, is_public, category_id, keywords, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		doc.Title,
		doc.Description,
		doc.FileKey,
		doc.MimeType,
		doc.FileSize,
		doc.IsPublic,
		doc.CategoryID,
		doc.Keywords,
		doc.CreatedBy,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
}

// GetDocumentByID retrieves a document by ID.
func (d *DB) GetDocumentByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(d.Pool.QueryRow(ctx, query, id))
}

// DocumentExists reports whether a document row exists.
func (d *DB) DocumentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// GetDocumentsByUser returns all documents created by a user, newest first.
func (d *DB) GetDocumentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE created_by = $1 ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

// GetPublicDocuments returns public documents, optionally filtered by category.
func (d *DB) GetPublicDocuments(ctx context.Context, categoryID *uuid.UUID) ([]models.Document, error) {
	var rows pgx.Rows
	var err error
	if categoryID != nil {
		query := `SELECT ` + documentColumns + ` FROM documents WHERE is_public AND category_id = $1 ORDER BY created_at DESC`
		rows, err = d.Pool.Query(ctx, query, *categoryID)
	} else {
		query := `SELECT ` + documentColumns + ` FROM documents WHERE is_public ORDER BY created_at DESC`
		rows, err = d.Pool.Query(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	return scanDocuments(rows)
}

// UpdateDocument persists all mutable document fields.
func (d *DB) UpdateDocument(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET title = $1, description = $2, file_key = $3, mime_type = $4, file_size = $5,
			is_public = $6, category_id = $7, keywords = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		doc.Title,
		doc.Description,
		doc.FileKey,
		doc.MimeType,
		doc.FileSize,
		doc.IsPublic,
		doc.CategoryID,
		doc.Keywords,
		doc.ID,
	).Scan(&doc.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDocumentNotFound
	}
	return err
}

// DeleteDocument deletes a document by ID.
func (d *DB) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
