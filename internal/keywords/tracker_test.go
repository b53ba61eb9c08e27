package keywords

import (
	"context"
	"sync"
	"testing"
)

// fakeStore is an in-memory Store with per-key atomic updates, mirroring the
// database's upsert-and-increment semantics.
type fakeStore struct {
	mu    sync.Mutex
	rows  map[string]*fakeRow
	calls int
}

type fakeRow struct {
	displayName string
	total       int64
	byBucket    map[Bucket]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*fakeRow)}
}

func (s *fakeStore) IncrementKeywordUsage(_ context.Context, bucket Bucket, pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	row, ok := s.rows[pair.Key]
	if !ok {
		row = &fakeRow{displayName: pair.DisplayName, byBucket: make(map[Bucket]int64)}
		s.rows[pair.Key] = row
	}
	row.total++
	row.byBucket[bucket]++
	return nil
}

func (s *fakeStore) DecrementKeywordUsage(_ context.Context, bucket Bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	row, ok := s.rows[key]
	if !ok {
		return nil
	}
	row.total--
	row.byBucket[bucket]--
	return nil
}

func (s *fakeStore) SweepExhaustedKeywords(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, row := range s.rows {
		if row.total <= 0 {
			delete(s.rows, key)
		}
	}
	return nil
}

func TestTrackerInvalidBucket(t *testing.T) {
	store := newFakeStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	if err := tracker.RecordCreate(ctx, Bucket("quiz"), []string{"toeic"}); err != ErrInvalidBucket {
		t.Errorf("RecordCreate() error = %v, want ErrInvalidBucket", err)
	}
	if err := tracker.RecordUpdate(ctx, Bucket("quiz"), Delta{Added: []Pair{{"a", "a"}}}); err != ErrInvalidBucket {
		t.Errorf("RecordUpdate() error = %v, want ErrInvalidBucket", err)
	}
	if err := tracker.RecordDelete(ctx, Bucket(""), []string{"toeic"}); err != ErrInvalidBucket {
		t.Errorf("RecordDelete() error = %v, want ErrInvalidBucket", err)
	}
	if store.calls != 0 {
		t.Errorf("store received %d calls, want 0", store.calls)
	}
}

func TestTrackerCreateThenDeleteSweeps(t *testing.T) {
	store := newFakeStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	// Duplicate raw spellings count once.
	if err := tracker.RecordCreate(ctx, BucketLecture, []string{"toeic", "toeic"}); err != nil {
		t.Fatalf("RecordCreate() error = %v", err)
	}
	if row := store.rows["toeic"]; row == nil || row.total != 1 || row.byBucket[BucketLecture] != 1 {
		t.Fatalf("after create: row = %+v, want total=1 lecture=1", store.rows["toeic"])
	}

	if err := tracker.RecordDelete(ctx, BucketLecture, []string{"toeic"}); err != nil {
		t.Fatalf("RecordDelete() error = %v", err)
	}
	if _, ok := store.rows["toeic"]; ok {
		t.Error("row for \"toeic\" still present after usage reached zero")
	}
}

func TestTrackerUpdateSequence(t *testing.T) {
	store := newFakeStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	if err := tracker.RecordCreate(ctx, BucketDocument, []string{"toeic"}); err != nil {
		t.Fatalf("RecordCreate() error = %v", err)
	}

	delta := ComputeDelta([]string{"toeic"}, []string{"listening"})
	if err := tracker.RecordUpdate(ctx, BucketDocument, delta); err != nil {
		t.Fatalf("RecordUpdate() error = %v", err)
	}

	if _, ok := store.rows["toeic"]; ok {
		t.Error("\"toeic\" should have been swept after its usage reached zero")
	}
	row := store.rows["listening"]
	if row == nil {
		t.Fatal("\"listening\" row missing")
	}
	if row.total != 1 || row.byBucket[BucketDocument] != 1 {
		t.Errorf("listening usage = total %d, document %d; want 1, 1", row.total, row.byBucket[BucketDocument])
	}
}

func TestTrackerDecrementMissingRowIsNoop(t *testing.T) {
	store := newFakeStore()
	tracker := NewTracker(store)

	err := tracker.RecordDelete(context.Background(), BucketCollection, []string{"never seen"})
	if err != nil {
		t.Errorf("RecordDelete() on missing row error = %v, want nil", err)
	}
}

func TestTrackerConcurrentCreates(t *testing.T) {
	store := newFakeStore()
	tracker := NewTracker(store)
	ctx := context.Background()

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := tracker.RecordCreate(ctx, BucketLecture, []string{"toeic"}); err != nil {
				t.Errorf("RecordCreate() error = %v", err)
			}
		}()
	}
	wg.Wait()

	row := store.rows["toeic"]
	if row == nil {
		t.Fatal("row missing after concurrent creates")
	}
	if row.total != n || row.byBucket[BucketLecture] != n {
		t.Errorf("usage = total %d, lecture %d; want %d, %d", row.total, row.byBucket[BucketLecture], n, n)
	}
}
