package entdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jjgarcianorway/annad/internal/fact"
)

// FactStore is the Postgres-backed fact.Store implementation. It mirrors
// fact.MemStore's conflict-resolution rule exactly, but enforces the
// at-most-one-Active invariant with a row lock plus the database's own
// idx_facts_one_active partial unique index as a backstop.
type FactStore struct {
	client *Client
	ttl    fact.TTLResolver
}

// NewFactStore wraps client as a fact.Store. ttl may be nil, in which case
// SweepStale never transitions anything, matching fact.MemStore's contract.
func NewFactStore(client *Client, ttl fact.TTLResolver) *FactStore {
	return &FactStore{client: client, ttl: ttl}
}

var _ fact.Store = (*FactStore)(nil)

func (s *FactStore) Upsert(ctx context.Context, f fact.Fact) (fact.Fact, error) {
	tx, err := s.client.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fact.Fact{}, fmt.Errorf("entdb: begin upsert tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	now := time.Now()

	var existing fact.Fact
	var hasActive bool
	row := tx.QueryRow(ctx, `
		SELECT id, entity, attribute, value, source, first_seen, last_seen, confidence, status
		FROM facts WHERE entity = $1 AND attribute = $2 AND status = 'active'
		FOR UPDATE`, f.Entity, f.Attribute)
	switch err := row.Scan(&existing.ID, &existing.Entity, &existing.Attribute, &existing.Value,
		&existing.Source, &existing.FirstSeen, &existing.LastSeen, &existing.Confidence, &existing.Status); err {
	case nil:
		hasActive = true
	case pgx.ErrNoRows:
		hasActive = false
	default:
		return fact.Fact{}, fmt.Errorf("entdb: lookup active fact: %w", err)
	}

	if !hasActive {
		f.ID = uuid.NewString()
		f.FirstSeen = now
		f.LastSeen = now
		f.Status = fact.StatusActive
		if err := insertFact(ctx, tx, f); err != nil {
			return fact.Fact{}, err
		}
		return f, tx.Commit(ctx)
	}

	if existing.Value == f.Value {
		existing.LastSeen = now
		if f.Confidence > existing.Confidence {
			existing.Confidence = f.Confidence
		}
		if err := updateFactSeenAndConfidence(ctx, tx, existing); err != nil {
			return fact.Fact{}, err
		}
		return existing, tx.Commit(ctx)
	}

	if f.Confidence >= existing.Confidence {
		existing.Status = fact.StatusDeprecated
		if err := updateFactStatus(ctx, tx, existing.ID, fact.StatusDeprecated); err != nil {
			return fact.Fact{}, err
		}
		if err := insertHistory(ctx, tx, existing, "superseded by higher-or-equal-confidence observation", now); err != nil {
			return fact.Fact{}, err
		}

		f.ID = uuid.NewString()
		f.FirstSeen = now
		f.LastSeen = now
		f.Status = fact.StatusActive
		if err := insertFact(ctx, tx, f); err != nil {
			return fact.Fact{}, err
		}
		return f, tx.Commit(ctx)
	}

	f.ID = uuid.NewString()
	f.FirstSeen = now
	f.LastSeen = now
	f.Status = fact.StatusStale
	if err := insertFact(ctx, tx, f); err != nil {
		return fact.Fact{}, err
	}
	if err := insertHistory(ctx, tx, f, "lower-confidence observation did not displace Active", now); err != nil {
		return fact.Fact{}, err
	}
	return existing, tx.Commit(ctx)
}

func insertFact(ctx context.Context, tx pgx.Tx, f fact.Fact) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO facts (id, entity, attribute, value, source, first_seen, last_seen, confidence, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		f.ID, f.Entity, f.Attribute, f.Value, f.Source, f.FirstSeen, f.LastSeen, f.Confidence, f.Status)
	if err != nil {
		return fmt.Errorf("entdb: insert fact: %w", err)
	}
	return nil
}

func updateFactSeenAndConfidence(ctx context.Context, tx pgx.Tx, f fact.Fact) error {
	_, err := tx.Exec(ctx, `
		UPDATE facts SET last_seen = $2, confidence = $3, status = $4 WHERE id = $1`,
		f.ID, f.LastSeen, f.Confidence, fact.StatusActive)
	if err != nil {
		return fmt.Errorf("entdb: update fact: %w", err)
	}
	return nil
}

func updateFactStatus(ctx context.Context, tx pgx.Tx, id string, status fact.Status) error {
	_, err := tx.Exec(ctx, `UPDATE facts SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("entdb: update fact status: %w", err)
	}
	return nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, f fact.Fact, reason string, recordedAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO fact_history (entity, attribute, fact_id, value, source, first_seen, last_seen, confidence, status, reason, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		f.Entity, f.Attribute, f.ID, f.Value, f.Source, f.FirstSeen, f.LastSeen, f.Confidence, f.Status, reason, recordedAt)
	if err != nil {
		return fmt.Errorf("entdb: insert history: %w", err)
	}
	return nil
}

func (s *FactStore) Get(ctx context.Context, id string) (fact.Fact, error) {
	var f fact.Fact
	row := s.client.pool.QueryRow(ctx, `
		SELECT id, entity, attribute, value, source, first_seen, last_seen, confidence, status
		FROM facts WHERE id = $1`, id)
	err := row.Scan(&f.ID, &f.Entity, &f.Attribute, &f.Value, &f.Source, &f.FirstSeen, &f.LastSeen, &f.Confidence, &f.Status)
	if err == pgx.ErrNoRows {
		return fact.Fact{}, fact.ErrNotFound
	}
	if err != nil {
		return fact.Fact{}, fmt.Errorf("entdb: get fact: %w", err)
	}
	return f, nil
}

func (s *FactStore) Query(ctx context.Context, q fact.Query) ([]fact.Fact, error) {
	clauses := []string{"confidence >= $1"}
	args := []any{q.MinConfidence}

	if q.Entity != "" {
		if strings.HasSuffix(q.Entity, "*") {
			args = append(args, strings.TrimSuffix(q.Entity, "*")+"%")
			clauses = append(clauses, fmt.Sprintf("entity LIKE $%d", len(args)))
		} else {
			args = append(args, q.Entity)
			clauses = append(clauses, fmt.Sprintf("entity = $%d", len(args)))
		}
	}
	if q.Attribute != "" {
		args = append(args, q.Attribute)
		clauses = append(clauses, fmt.Sprintf("attribute = $%d", len(args)))
	}
	if len(q.Status) > 0 {
		statuses := make([]string, len(q.Status))
		for i, st := range q.Status {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if q.SeenAfter != nil {
		args = append(args, *q.SeenAfter)
		clauses = append(clauses, fmt.Sprintf("last_seen > $%d", len(args)))
	}

	query := "SELECT id, entity, attribute, value, source, first_seen, last_seen, confidence, status FROM facts WHERE " +
		strings.Join(clauses, " AND ") + " ORDER BY entity, attribute"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.client.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("entdb: query facts: %w", err)
	}
	defer rows.Close()

	var out []fact.Fact
	for rows.Next() {
		var f fact.Fact
		if err := rows.Scan(&f.ID, &f.Entity, &f.Attribute, &f.Value, &f.Source, &f.FirstSeen, &f.LastSeen, &f.Confidence, &f.Status); err != nil {
			return nil, fmt.Errorf("entdb: scan fact: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *FactStore) History(ctx context.Context, entity, attribute string) ([]fact.HistoryEntry, error) {
	rows, err := s.client.pool.Query(ctx, `
		SELECT fact_id, value, source, first_seen, last_seen, confidence, status, reason, recorded_at
		FROM fact_history WHERE entity = $1 AND attribute = $2 ORDER BY recorded_at ASC`, entity, attribute)
	if err != nil {
		return nil, fmt.Errorf("entdb: query history: %w", err)
	}
	defer rows.Close()

	var out []fact.HistoryEntry
	for rows.Next() {
		var h fact.HistoryEntry
		h.Fact.Entity = entity
		h.Fact.Attribute = attribute
		if err := rows.Scan(&h.Fact.ID, &h.Fact.Value, &h.Fact.Source, &h.Fact.FirstSeen, &h.Fact.LastSeen,
			&h.Fact.Confidence, &h.Fact.Status, &h.Reason, &h.RecordedAt); err != nil {
			return nil, fmt.Errorf("entdb: scan history: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// SweepStale transitions every Active fact whose last_seen has outlived its
// TTL to Stale, mirroring fact.MemStore.SweepStale.
func (s *FactStore) SweepStale(ctx context.Context, now time.Time) (int, error) {
	if s.ttl == nil {
		return 0, nil
	}

	rows, err := s.client.pool.Query(ctx, `
		SELECT id, attribute, last_seen FROM facts WHERE status = $1`, fact.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("entdb: query active facts: %w", err)
	}

	type candidate struct {
		id       string
		lastSeen time.Time
	}
	var toSweep []candidate
	for rows.Next() {
		var id, attribute string
		var lastSeen time.Time
		if err := rows.Scan(&id, &attribute, &lastSeen); err != nil {
			rows.Close()
			return 0, fmt.Errorf("entdb: scan active fact: %w", err)
		}
		d, _ := s.ttl.TTLFor(attribute)
		if d <= 0 {
			continue
		}
		if now.Sub(lastSeen) > d {
			toSweep = append(toSweep, candidate{id: id, lastSeen: lastSeen})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	count := 0
	for _, c := range toSweep {
		if _, err := s.client.pool.Exec(ctx, `UPDATE facts SET status = $2 WHERE id = $1`, c.id, fact.StatusStale); err != nil {
			return count, fmt.Errorf("entdb: sweep stale fact: %w", err)
		}
		count++
	}
	return count, nil
}
