package keywords

import (
	"context"
	"log/slog"
)

// Store is the counter persistence the tracker writes to. Each increment and
// decrement must be a single atomic upsert/update on the underlying store;
// there is no atomicity across keys and none is assumed here.
type Store interface {
	// IncrementKeywordUsage upserts the counter row for pair.Key: on first
	// insert it records the display name and creation timestamp, and it
	// always bumps the bucket counter, the total, and last_used_at.
	IncrementKeywordUsage(ctx context.Context, bucket Bucket, pair Pair) error
	// DecrementKeywordUsage decrements the bucket counter and the total for
	// key and refreshes last_used_at. A missing row is a no-op, not an error.
	DecrementKeywordUsage(ctx context.Context, bucket Bucket, key string) error
	// SweepExhaustedKeywords deletes every row whose total usage is <= 0.
	SweepExhaustedKeywords(ctx context.Context) error
}

// Tracker applies content-lifecycle keyword updates to the usage ledger.
// Updates to different keys are independent atomic operations; a failure
// partway through leaves earlier keys applied. Callers treat these as
// best-effort statistics, not as part of the content mutation itself.
type Tracker struct {
	store Store
}

// NewTracker creates a tracker over the given counter store.
func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

// RecordCreate increments usage for every distinct keyword of a newly
// created content item in the given bucket.
func (t *Tracker) RecordCreate(ctx context.Context, bucket Bucket, raw []string) error {
	if !bucket.Valid() {
		return ErrInvalidBucket
	}
	pairs := Dedupe(raw)
	if len(pairs) == 0 {
		return nil
	}
	for _, p := range pairs {
		if err := t.store.IncrementKeywordUsage(ctx, bucket, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordUpdate applies a keyword delta for an updated content item:
// increments for added keys, decrements for removed keys, then sweeps
// rows whose total usage dropped to zero.
func (t *Tracker) RecordUpdate(ctx context.Context, bucket Bucket, delta Delta) error {
	if !bucket.Valid() {
		return ErrInvalidBucket
	}
	for _, p := range delta.Added {
		if err := t.store.IncrementKeywordUsage(ctx, bucket, p); err != nil {
			return err
		}
	}
	for _, p := range delta.Removed {
		if err := t.store.DecrementKeywordUsage(ctx, bucket, p.Key); err != nil {
			return err
		}
	}
	return t.store.SweepExhaustedKeywords(ctx)
}

// RecordDelete decrements usage for every distinct keyword of a deleted
// content item, then sweeps exhausted rows.
func (t *Tracker) RecordDelete(ctx context.Context, bucket Bucket, raw []string) error {
	if !bucket.Valid() {
		return ErrInvalidBucket
	}
	pairs := Dedupe(raw)
	if len(pairs) == 0 {
		return nil
	}
	for _, p := range pairs {
		if err := t.store.DecrementKeywordUsage(ctx, bucket, p.Key); err != nil {
			return err
		}
	}
	return t.store.SweepExhaustedKeywords(ctx)
}

// The async variants run the update in the background and only log failures.
// Content handlers use these so a ledger outage can never fail the content
// mutation that triggered it.

// RecordCreateAsync is the fire-and-forget form of RecordCreate.
func (t *Tracker) RecordCreateAsync(bucket Bucket, raw []string) {
	go func() {
		if err := t.RecordCreate(context.Background(), bucket, raw); err != nil {
			slog.Error("keyword usage create failed", "bucket", string(bucket), "error", err)
		}
	}()
}

// RecordUpdateAsync is the fire-and-forget form of RecordUpdate.
func (t *Tracker) RecordUpdateAsync(bucket Bucket, delta Delta) {
	go func() {
		if err := t.RecordUpdate(context.Background(), bucket, delta); err != nil {
			slog.Error("keyword usage update failed", "bucket", string(bucket), "error", err)
		}
	}()
}

// RecordDeleteAsync is the fire-and-forget form of RecordDelete.
func (t *Tracker) RecordDeleteAsync(bucket Bucket, raw []string) {
	go func() {
		if err := t.RecordDelete(context.Background(), bucket, raw); err != nil {
			slog.Error("keyword usage delete failed", "bucket", string(bucket), "error", err)
		}
	}()
}
