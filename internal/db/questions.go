package db

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studyhub/internal/models"
)

const questionColumns = `id, title, content, tags, category_id, attachments,
	created_by, status, answers_count, created_at, updated_at`

// QuestionFilter narrows ListQuestions results.
type QuestionFilter struct {
	Status     string // empty means any
	CreatedBy  *uuid.UUID
	CategoryID *uuid.UUID
	Tag        string // normalized tag membership
	Query      string // title/content substring match
	Limit      int
	Offset     int
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var q models.Question
	err := row.Scan(
		&q.ID,
		&q.Title,
		&q.Content,
		&q.Tags,
		&q.CategoryID,
		&q.Attachments,
		&q.CreatedBy,
		&q.Status,
		&q.AnswersCount,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateQuestion inserts a new question.
func (d *DB) CreateQuestion(ctx context.Context, q *models.Question) error {
	query := `
		INSERT INTO questions (title, content, tags, category_id, attachments, created_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, answers_count, created_at, updated_at
	`
	return d.Pool.QueryRow(ctx, query,
		q.Title,
		q.Content,
		q.Tags,
		q.CategoryID,
		q.Attachments,
		q.CreatedBy,
		q.Status,
	).Scan(&q.ID, &q.AnswersCount, &q.CreatedAt, &q.UpdatedAt)
}

// GetQuestionByID retrieves a question regardless of status.
func (d *DB) GetQuestionByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	return scanQuestion(d.Pool.QueryRow(ctx, query, id))
}

// ListQuestions returns questions matching the filter plus the total count.
func (d *DB) ListQuestions(ctx context.Context, filter QuestionFilter) ([]models.Question, int, error) {
	where := ` WHERE TRUE`
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.CreatedBy != nil {
		args = append(args, *filter.CreatedBy)
		where += ` AND created_by = $` + strconv.Itoa(len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where += ` AND category_id = $` + strconv.Itoa(len(args))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where += ` AND $` + strconv.Itoa(len(args)) + ` = ANY(tags)`
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		p := strconv.Itoa(len(args))
		where += ` AND (title ILIKE $` + p + ` OR content ILIKE $` + p + `)`
	}

	var total int
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + questionColumns + ` FROM questions` + where + `
		ORDER BY created_at DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := d.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(
			&q.ID,
			&q.Title,
			&q.Content,
			&q.Tags,
			&q.CategoryID,
			&q.Attachments,
			&q.CreatedBy,
			&q.Status,
			&q.AnswersCount,
			&q.CreatedAt,
			&q.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}
	return questions, total, rows.Err()
}

// UpdateQuestion persists the question's editable fields.
func (d *DB) UpdateQuestion(ctx context.Context, q *models.Question) error {
	query := `
		UPDATE questions
		SET title = $1, content = $2, tags = $3, category_id = $4, attachments = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query,
		q.Title,
		q.Content,
		q.Tags,
		q.CategoryID,
		q.Attachments,
		q.ID,
	).Scan(&q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrQuestionNotFound
	}
	return err
}

// SetQuestionStatus updates a question's moderation status. Deletes are
// soft: the row stays so answer history and reports keep their target.
func (d *DB) SetQuestionStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := d.Pool.Exec(ctx, `
		UPDATE questions SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func scanAnswer(row pgx.Row) (*models.Answer, error) {
	var a models.Answer
	err := row.Scan(
		&a.ID,
		&a.QuestionID,
		&a.Content,
		&a.Attachments,
		&a.CreatedBy,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAnswer inserts an answer and bumps the question's counter in the
// same transaction.
func (d *DB) CreateAnswer(ctx context.Context, a *models.Answer) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO answers (question_id, content, attachments, created_by, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, a.QuestionID, a.Content, a.Attachments, a.CreatedBy, a.Status).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}

	result, err := tx.Exec(ctx, `
		UPDATE questions SET answers_count = answers_count + 1, updated_at = NOW() WHERE id = $1
	`, a.QuestionID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}

	return tx.Commit(ctx)
}

// GetAnswerByID retrieves a single answer.
func (d *DB) GetAnswerByID(ctx context.Context, id uuid.UUID) (*models.Answer, error) {
	query := `
		SELECT id, question_id, content, attachments, created_by, status, created_at, updated_at
		FROM answers WHERE id = $1
	`
	return scanAnswer(d.Pool.QueryRow(ctx, query, id))
}

// GetAnswersByQuestion lists a question's answers oldest first. When
// publishedOnly is set, hidden and deleted answers are skipped.
func (d *DB) GetAnswersByQuestion(ctx context.Context, questionID uuid.UUID, publishedOnly bool) ([]models.Answer, error) {
	query := `
		SELECT id, question_id, content, attachments, created_by, status, created_at, updated_at
		FROM answers
		WHERE question_id = $1
	`
	if publishedOnly {
		query += ` AND status = 'published'`
	}
	query += ` ORDER BY created_at ASC`

	rows, err := d.Pool.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var answers []models.Answer
	for rows.Next() {
		var a models.Answer
		if err := rows.Scan(
			&a.ID,
			&a.QuestionID,
			&a.Content,
			&a.Attachments,
			&a.CreatedBy,
			&a.Status,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// UpdateAnswer persists the answer's editable fields.
func (d *DB) UpdateAnswer(ctx context.Context, a *models.Answer) error {
	query := `
		UPDATE answers
		SET content = $1, attachments = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := d.Pool.QueryRow(ctx, query, a.Content, a.Attachments, a.ID).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAnswerNotFound
	}
	return err
}

// SetAnswerStatus updates an answer's moderation status and keeps the
// question's published-answer counter in step.
func (d *DB) SetAnswerStatus(ctx context.Context, id uuid.UUID, status string) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var questionID uuid.UUID
	var prev string
	err = tx.QueryRow(ctx, `
		SELECT question_id, status FROM answers WHERE id = $1 FOR UPDATE
	`, id).Scan(&questionID, &prev)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAnswerNotFound
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE answers SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id); err != nil {
		return err
	}

	delta := 0
	if prev == models.StatusPublished && status != models.StatusPublished {
		delta = -1
	} else if prev != models.StatusPublished && status == models.StatusPublished {
		delta = 1
	}
	if delta != 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE questions SET answers_count = GREATEST(answers_count + $1, 0), updated_at = NOW() WHERE id = $2
		`, delta, questionID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
