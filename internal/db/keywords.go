package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"studyhub/internal/keywords"
	"studyhub/internal/models"
)

const keywordColumns = `canonical_key, display_name, usage_total, usage_lecture,
	usage_document, usage_collection, first_seen_at, last_used_at, is_active`

// bucketColumn maps a bucket onto its counter column. The bucket set is
// closed, so the returned identifier is safe to splice into SQL.
func bucketColumn(bucket keywords.Bucket) (string, error) {
	switch bucket {
	case keywords.BucketLecture:
		return "usage_lecture", nil
	case keywords.BucketDocument:
		return "usage_document", nil
	case keywords.BucketCollection:
		return "usage_collection", nil
	default:
		return "", keywords.ErrInvalidBucket
	}
}

// IncrementKeywordUsage upserts the ledger row for a canonical key as one
// atomic statement. Display name and first-seen timestamp are written only
// when the row is created; the counters and last_used_at move on every call.
func (d *DB) IncrementKeywordUsage(ctx context.Context, bucket keywords.Bucket, pair keywords.Pair) error {
	col, err := bucketColumn(bucket)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO keywords (canonical_key, display_name, usage_total, ` + col + `, first_seen_at, last_used_at, is_active)
		VALUES ($1, $2, 1, 1, NOW(), NOW(), TRUE)
		ON CONFLICT (canonical_key) DO UPDATE
		SET usage_total = keywords.usage_total + 1,
			` + col + ` = keywords.` + col + ` + 1,
			last_used_at = NOW()
	`
	_, err = d.Pool.Exec(ctx, query, pair.Key, pair.DisplayName)
	return err
}

// DecrementKeywordUsage decrements the bucket counter and the running total
// for a canonical key. A key with no row is left alone.
func (d *DB) DecrementKeywordUsage(ctx context.Context, bucket keywords.Bucket, key string) error {
	col, err := bucketColumn(bucket)
	if err != nil {
		return err
	}

	query := `
		UPDATE keywords
		SET usage_total = usage_total - 1,
			` + col + ` = ` + col + ` - 1,
			last_used_at = NOW()
		WHERE canonical_key = $1
	`
	_, err = d.Pool.Exec(ctx, query, key)
	return err
}

// SweepExhaustedKeywords deletes every ledger row whose total usage has
// dropped to zero or below.
func (d *DB) SweepExhaustedKeywords(ctx context.Context) error {
	_, err := d.Pool.Exec(ctx, `DELETE FROM keywords WHERE usage_total <= 0`)
	return err
}

func scanKeyword(row pgx.Row) (*models.Keyword, error) {
	var k models.Keyword
	err := row.Scan(
		&k.CanonicalKey,
		&k.DisplayName,
		&k.Usage.Total,
		&k.Usage.Lecture,
		&k.Usage.Document,
		&k.Usage.Collection,
		&k.FirstSeenAt,
		&k.LastUsedAt,
		&k.IsActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeywordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// GetKeyword retrieves one ledger row by canonical key.
func (d *DB) GetKeyword(ctx context.Context, key string) (*models.Keyword, error) {
	query := `SELECT ` + keywordColumns + ` FROM keywords WHERE canonical_key = $1`
	return scanKeyword(d.Pool.QueryRow(ctx, query, key))
}

// TopKeywords returns the most used keywords for the trending endpoint.
func (d *DB) TopKeywords(ctx context.Context, limit int) ([]models.Keyword, error) {
	query := `
		SELECT ` + keywordColumns + `
		FROM keywords
		ORDER BY usage_total DESC, canonical_key ASC
		LIMIT $1
	`
	rows, err := d.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanKeywords(rows)
}

// AllKeywords returns every ledger row, used by the metrics collector.
func (d *DB) AllKeywords(ctx context.Context) ([]models.Keyword, error) {
	rows, err := d.Pool.Query(ctx, `SELECT `+keywordColumns+` FROM keywords`)
	if err != nil {
		return nil, err
	}
	return scanKeywords(rows)
}

func scanKeywords(rows pgx.Rows) ([]models.Keyword, error) {
	defer rows.Close()

	var out []models.Keyword
	for rows.Next() {
		var k models.Keyword
		if err := rows.Scan(
			&k.CanonicalKey,
			&k.DisplayName,
			&k.Usage.Total,
			&k.Usage.Lecture,
			&k.Usage.Document,
			&k.Usage.Collection,
			&k.FirstSeenAt,
			&k.LastUsedAt,
			&k.IsActive,
		); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
