// Package keywords implements the keyword usage ledger: normalization of raw
// tag strings into canonical comparison keys, deduplication, delta computation
// between old and new tag sets, and the per-bucket usage tracking entry points.
package keywords

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Bucket is the content-type dimension a usage count is attributed to.
// The set is closed; anything else is a programmer error.
type Bucket string

// Known buckets.
const (
	BucketLecture    Bucket = "lecture"
	BucketDocument   Bucket = "document"
	BucketCollection Bucket = "collection"
)

// ErrInvalidBucket is returned when a tracking call names an unknown bucket.
// The store is never touched in that case.
var ErrInvalidBucket = errors.New("invalid keyword bucket: use lecture, document or collection")

// Valid reports whether b is one of the known buckets.
func (b Bucket) Valid() bool {
	return b == BucketLecture || b == BucketDocument || b == BucketCollection
}

// Pair couples the first-seen raw spelling of a tag with its canonical key.
type Pair struct {
	DisplayName string
	Key         string
}

// Delta is the symmetric difference between two tag sets, by canonical key.
type Delta struct {
	Added   []Pair
	Removed []Pair
}

// Empty reports whether the delta carries no changes.
func (d Delta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Normalize maps a raw tag to its canonical comparison key: accents folded to
// base letters, lowercased, every run of characters outside [a-z0-9] collapsed
// to a single space, trimmed. Pure and total; Normalize(Normalize(s)) == Normalize(s).
// Safe for concurrent use.
func Normalize(raw string) string {
	// The chain carries internal buffers, so it must be built per call
	// rather than shared package-wide.
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(stripMarks, raw)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// ParseList turns client keyword input into a clean list of raw tags. Input
// that looks like a JSON array of strings is parsed as such; anything else,
// including malformed JSON, falls back to comma splitting. Elements are
// coerced to strings, trimmed, and empties dropped. Never fails.
func ParseList(input string) []string {
	t := strings.TrimSpace(input)
	if t == "" {
		return nil
	}

	if strings.HasPrefix(t, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(t), &arr); err == nil {
			out := make([]string, 0, len(arr))
			for _, v := range arr {
				s := strings.TrimSpace(coerce(v))
				if s != "" {
					out = append(out, s)
				}
			}
			return out
		}
	}

	return CleanList(strings.Split(t, ","))
}

// CleanList trims a pre-built tag list and drops empty entries.
func CleanList(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerce(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Dedupe produces unique (display name, canonical key) pairs from a raw tag
// list. The first occurrence of each canonical key wins, later duplicates are
// dropped even when spelled differently, and output keeps input order.
func Dedupe(raw []string) []Pair {
	seen := make(map[string]struct{}, len(raw))
	out := make([]Pair, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r)
		if name == "" {
			continue
		}
		key := Normalize(name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Pair{DisplayName: name, Key: key})
	}
	return out
}

// ComputeDelta computes the symmetric difference of canonical keys between an
// old and a new raw tag list. Keys present in both are untouched. Each added
// or removed key carries the first-seen raw spelling from its list, so the
// ledger can record a proper display name on first insert.
func ComputeDelta(oldRaw, newRaw []string) Delta {
	oldPairs := Dedupe(oldRaw)
	newPairs := Dedupe(newRaw)

	oldKeys := make(map[string]struct{}, len(oldPairs))
	for _, p := range oldPairs {
		oldKeys[p.Key] = struct{}{}
	}
	newKeys := make(map[string]struct{}, len(newPairs))
	for _, p := range newPairs {
		newKeys[p.Key] = struct{}{}
	}

	var d Delta
	for _, p := range newPairs {
		if _, ok := oldKeys[p.Key]; !ok {
			d.Added = append(d.Added, p)
		}
	}
	for _, p := range oldPairs {
		if _, ok := newKeys[p.Key]; !ok {
			d.Removed = append(d.Removed, p)
		}
	}
	return d
}
