package entdb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jjgarcianorway/annad/internal/knowledge"
)

// DocStore is the Postgres-backed knowledge.DocStore implementation.
// Keyword search is delegated to Postgres's own full-text index
// (websearch_to_tsquery against a GIN index) rather than reimplementing
// knowledge.InvertedIndex's BM25-lite ranking in SQL.
type DocStore struct {
	client *Client
}

// NewDocStore wraps client as a knowledge.DocStore.
func NewDocStore(client *Client) *DocStore {
	return &DocStore{client: client}
}

var _ knowledge.DocStore = (*DocStore)(nil)

func (s *DocStore) Upsert(ctx context.Context, d knowledge.Doc) error {
	_, err := s.client.pool.Exec(ctx, `
		INSERT INTO knowledge_docs (id, source, title, body, tags, computed_by, confidence, created_at, ttl_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			tags = EXCLUDED.tags,
			computed_by = EXCLUDED.computed_by,
			confidence = EXCLUDED.confidence,
			created_at = EXCLUDED.created_at,
			ttl_days = EXCLUDED.ttl_days`,
		d.ID, d.Source, d.Title, d.Body, d.Tags, d.Provenance.ComputedBy, d.Provenance.Confidence, d.Provenance.CreatedAt, d.TTLDays)
	if err != nil {
		return fmt.Errorf("entdb: upsert doc: %w", err)
	}
	return nil
}

func (s *DocStore) Get(ctx context.Context, id string) (knowledge.Doc, bool, error) {
	row := s.client.pool.QueryRow(ctx, `
		SELECT id, source, title, body, tags, computed_by, confidence, created_at, ttl_days
		FROM knowledge_docs WHERE id = $1`, id)
	d, err := scanDoc(row)
	if err == pgx.ErrNoRows {
		return knowledge.Doc{}, false, nil
	}
	if err != nil {
		return knowledge.Doc{}, false, fmt.Errorf("entdb: get doc: %w", err)
	}
	return d, true, nil
}

func (s *DocStore) Delete(ctx context.Context, id string) error {
	_, err := s.client.pool.Exec(ctx, `DELETE FROM knowledge_docs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("entdb: delete doc: %w", err)
	}
	return nil
}

func (s *DocStore) Search(ctx context.Context, query string, limit int) ([]knowledge.Doc, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.client.pool.Query(ctx, `
		SELECT id, source, title, body, tags, computed_by, confidence, created_at, ttl_days
		FROM knowledge_docs
		WHERE to_tsvector('english', title || ' ' || body) @@ websearch_to_tsquery('english', $1)
		ORDER BY ts_rank(to_tsvector('english', title || ' ' || body), websearch_to_tsquery('english', $1)) DESC
		LIMIT $2`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("entdb: search docs: %w", err)
	}
	defer rows.Close()

	var out []knowledge.Doc
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("entdb: scan doc: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *DocStore) List(ctx context.Context) ([]knowledge.Doc, error) {
	rows, err := s.client.pool.Query(ctx, `
		SELECT id, source, title, body, tags, computed_by, confidence, created_at, ttl_days
		FROM knowledge_docs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("entdb: list docs: %w", err)
	}
	defer rows.Close()

	var out []knowledge.Doc
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("entdb: scan doc: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(row rowScanner) (knowledge.Doc, error) {
	var d knowledge.Doc
	err := row.Scan(&d.ID, &d.Source, &d.Title, &d.Body, &d.Tags,
		&d.Provenance.ComputedBy, &d.Provenance.Confidence, &d.Provenance.CreatedAt, &d.TTLDays)
	return d, err
}

// CreateTextSearchIndex builds the GIN index backing Search, matching the
// teacher's pattern of creating full-text indexes outside the ordinary
// migration chain once the table exists.
func CreateTextSearchIndex(ctx context.Context, c *Client) error {
	_, err := c.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_knowledge_docs_fulltext
		ON knowledge_docs USING gin(to_tsvector('english', title || ' ' || body))`)
	if err != nil {
		return fmt.Errorf("entdb: create fulltext index: %w", err)
	}
	return nil
}
