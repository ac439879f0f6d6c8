// Package history persists the append-only interaction log plus its
// denormalized side tables: dangerous moments, pattern occurrences and
// the user watchlist. Backed by modernc.org/sqlite (pure Go, no CGo).
package history

import (
	"context"
	"errors"
	"time"

	"giniguardian/internal/model"
)

var (
	// ErrInvalidEntry rejects malformed watchlist input before any write.
	ErrInvalidEntry = errors.New("invalid watchlist entry")
	// ErrNotFound is returned for lookups on absent rows.
	ErrNotFound = errors.New("record not found")
)

// Store is the interaction log contract. Interactions are append-only:
// the interface deliberately exposes no update or delete for them.
type Store interface {
	// Append writes one interaction and, in the same transaction, the
	// conditional dangerous-moment copy and the pattern-occurrence
	// upsert. The record's CreatedAt is assigned here if unset and is
	// immutable afterwards.
	Append(ctx context.Context, interaction *model.Interaction) error

	// Recent returns the last n interactions for a session, newest first.
	Recent(ctx context.Context, sessionID string, n int) ([]model.Interaction, error)

	// TopDangerous returns high-risk moments ordered by score descending.
	TopDangerous(ctx context.Context, sessionID string, limit int) ([]model.DangerousMoment, error)

	// CountSince counts interactions at or after t.
	CountSince(ctx context.Context, sessionID string, t time.Time) (int, error)

	// HourlyPattern returns occurrence aggregates grouped by
	// hour-of-day, day-of-week and label.
	HourlyPattern(ctx context.Context, sessionID string) ([]model.PatternOccurrence, error)

	// RecordOutcome bumps a labeled pattern occurrence (gate overrides
	// and successful interventions are tracked this way).
	RecordOutcome(ctx context.Context, sessionID, label string, at time.Time) error

	// Watchlist CRUD. Entries are created and deleted by explicit user
	// action only; valuation is never stored.
	AddWatch(ctx context.Context, entry model.WatchlistEntry) error
	ListWatch(ctx context.Context) ([]model.WatchlistEntry, error)
	RemoveWatch(ctx context.Context, symbol string) error

	Close() error
}
