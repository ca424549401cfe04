package fact

import (
	"context"
	"time"
)

// TTLResolver resolves the time-to-live for a given attribute, matching
// internal/config's FactConfig.TTLFor (longest matching prefix, falling
// back to a configured default).
type TTLResolver interface {
	TTLFor(attribute string) (time.Duration, bool)
}

// Store is the Fact persistence contract. Both the in-memory default and
// the optional Postgres-backed implementation (internal/store/entdb)
// satisfy it.
type Store interface {
	// Upsert records a new observation for (entity, attribute), applying the
	// conflict-resolution rule from spec §4.10, and returns the resulting
	// Active fact (which may be the newly inserted one, or the pre-existing
	// Active fact if the new observation lost the confidence comparison).
	Upsert(ctx context.Context, f Fact) (Fact, error)

	// Get looks a single fact up by id.
	Get(ctx context.Context, id string) (Fact, error)

	// Query runs a filtered read over the store.
	Query(ctx context.Context, q Query) ([]Fact, error)

	// History returns the superseded/deprecated entries for an
	// (entity, attribute) pair, oldest first.
	History(ctx context.Context, entity, attribute string) ([]HistoryEntry, error)

	// SweepStale transitions every Active fact whose last_seen is older than
	// its TTL to Stale, returning the count transitioned.
	SweepStale(ctx context.Context, now time.Time) (int, error)
}
