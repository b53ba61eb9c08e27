package db

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyhub/internal/models"
)

// CreateReport files a moderation report against a question or answer.
func (d *DB) CreateReport(ctx context.Context, r *models.Report) error {
	query := `
		INSERT INTO reports (target_type, target_id, reason, details, reported_by, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		r.TargetType,
		r.TargetID,
		r.Reason,
		r.Details,
		r.ReportedBy,
		r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
}

// GetReportByID retrieves a single report.
func (d *DB) GetReportByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	query := `
		SELECT id, target_type, target_id, reason, details, reported_by, status, created_at, updated_at
		FROM reports WHERE id = $1
	`
	var r models.Report
	err := d.Pool.QueryRow(ctx, query, id).Scan(
		&r.ID,
		&r.TargetType,
		&r.TargetID,
		&r.Reason,
		&r.Details,
		&r.ReportedBy,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListReports returns reports for moderator review, oldest open first.
// Empty status means all statuses.
func (d *DB) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, int, error) {
	where := ` WHERE TRUE`
	var args []any
	if status != "" {
		args = append(args, status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, target_type, target_id, reason, details, reported_by, status, created_at, updated_at
		FROM reports` + where + `
		ORDER BY created_at ASC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var r models.Report
		if err := rows.Scan(
			&r.ID,
			&r.TargetType,
			&r.TargetID,
			&r.Reason,
			&r.Details,
			&r.ReportedBy,
			&r.Status,
			&r.CreatedAt,
			&r.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		reports = append(reports, r)
	}
	return reports, total, rows.Err()
}

// SetReportStatus moves a report through the review workflow.
func (d *DB) SetReportStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE reports SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrReportNotFound
	}
	return nil
}
