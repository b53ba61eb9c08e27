package jobs

import (
	"context"
	"log"
	"time"

	"studyhub/internal/db"
)

// Sweeper periodically deletes keyword ledger rows whose total usage has
// dropped to zero. The tracker already sweeps after updates and deletes,
// so this is a safety net for rows orphaned by crashed async updates.
type Sweeper struct {
	db       *db.DB
	interval time.Duration
}

// NewSweeper creates a new ledger sweeper.
func NewSweeper(database *db.DB, interval time.Duration) *Sweeper {
	return &Sweeper{db: database, interval: interval}
}

// Start begins the background sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("Keyword sweeper started (interval: %v)", s.interval)

	// Run immediately on start
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Keyword sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.db.SweepExhaustedKeywords(ctx); err != nil {
		log.Printf("Keyword sweeper: sweep failed: %v", err)
	}
}
