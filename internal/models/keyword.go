package models

import "time"

// KeywordUsage holds the per-bucket usage counters plus the running total.
type KeywordUsage struct {
	Total      int64 `json:"total"`
	Lecture    int64 `json:"lecture"`
	Document   int64 `json:"document"`
	Collection int64 `json:"collection"`
}

// Keyword is one row of the keyword usage ledger, keyed by canonical form.
// DisplayName keeps the first-seen raw spelling. IsActive is set at creation
// and never cleared here; it is reserved for a moderation feature.
type Keyword struct {
	CanonicalKey string       `json:"canonical_key"`
	DisplayName  string       `json:"display_name"`
	Usage        KeywordUsage `json:"usage"`
	FirstSeenAt  time.Time    `json:"first_seen_at"`
	LastUsedAt   time.Time    `json:"last_used_at"`
	IsActive     bool         `json:"is_active"`
}
