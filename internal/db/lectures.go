package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyhub/internal/models"
)

const lectureColumns = `id, title, description, media_key, mime_type, file_size,
	is_public, category_id, keywords, created_by, created_at, updated_at`

func scanLecture(row pgx.Row) (*models.Lecture, error) {
	var lec models.Lecture
	err := row.Scan(
		&lec.ID,
		&lec.Title,
		&lec.Description,
		&lec.MediaKey,
		&lec.MimeType,
		&lec.FileSize,
		&lec.IsPublic,
		&lec.CategoryID,
		&lec.Keywords,
		&lec.CreatedBy,
		&lec.CreatedAt,
		&lec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLectureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lec, nil
}

func scanLectures(rows pgx.Rows) ([]models.Lecture, error) {
	defer rows.Close()

	var lectures []models.Lecture
	for rows.Next() {
		var lec models.Lecture
		if err := rows.Scan(
			&lec.ID,
			&lec.Title,
			&lec.Description,
			&lec.MediaKey,
			&lec.MimeType,
			&lec.FileSize,
			&lec.IsPublic,
			&lec.CategoryID,
			&lec.Keywords,
			&lec.CreatedBy,
			&lec.CreatedAt,
			&lec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lectures = append(lectures, lec)
	}
	return lectures, rows.Err()
}

// CreateLecture inserts a new lecture.
func (d *DB) CreateLecture(ctx context.Context, lec *models.Lecture) error {
	query := `
		INSERT INTO lectures (title, description, media_key, mime_type, file_size, is_public, category_id, keywords, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		lec.Title,
		lec.Description,
		lec.MediaKey,
		lec.MimeType,
		lec.FileSize,
		lec.IsPublic,
		lec.CategoryID,
		lec.Keywords,
		lec.CreatedBy,
	).Scan(&lec.ID, &lec.CreatedAt, &lec.UpdatedAt)
}

// GetLectureByID retrieves a lecture by ID.
func (d *DB) GetLectureByID(ctx context.Context, id uuid.UUID) (*models.Lecture, error) {
	query := `SELECT ` + lectureColumns + ` FROM lectures WHERE id = $1`
	return scanLecture(d.Pool.QueryRow(ctx, query, id))
}

// LectureExists reports whether a lecture row exists.
func (d *DB) LectureExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM lectures WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// GetLecturesByUser returns all lectures created by a user, newest first.
func (d *DB) GetLecturesByUser(ctx context.Context, userID uuid.UUID) ([]models.Lecture, error) {
	query := `SELECT ` + lectureColumns + ` FROM lectures WHERE created_by = $1 ORDER BY created_at DESC`
	rows, err := d.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanLectures(rows)
}

// GetPublicLectures returns public lectures, optionally filtered by category.
func (d *DB) GetPublicLectures(ctx context.Context, categoryID *uuid.UUID) ([]models.Lecture, error) {
	var rows pgx.Rows
	var err error
	if categoryID != nil {
		query := `SELECT ` + lectureColumns + ` FROM lectures WHERE is_public AND category_id = $1 ORDER BY created_at DESC`
		rows, err = d.Pool.Query(ctx, query, *categoryID)
	} else {
		query := `SELECT ` + lectureColumns + ` FROM lectures WHERE is_public ORDER BY created_at DESC`
		rows, err = d.Pool.Query(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	return scanLectures(rows)
}

// UpdateLecture persists all mutable lecture fields.
func (d *DB) UpdateLecture(ctx context.Context, lec *models.Lecture) error {
	query := `
		UPDATE lectures
		SET title = $1, description = $2, media_key = $3, mime_type = $4, file_size = $5,
			is_public = $6, category_id = $7, keywords = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		lec.Title,
		lec.Description,
		lec.MediaKey,
		lec.MimeType,
		lec.FileSize,
		lec.IsPublic,
		lec.CategoryID,
		lec.Keywords,
		lec.ID,
	).Scan(&lec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrLectureNotFound
	}
	return err
}

// DeleteLecture deletes a lecture by ID.
func (d *DB) DeleteLecture(ctx context.Context, id uuid.UUID) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLectureNotFound
	}
	return nil
}
