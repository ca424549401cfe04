package knowledge

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// cacheEntry holds fetched document text with the time it was retrieved.
type cacheEntry struct {
	body      string
	fetchedAt time.Time
}

// fetchCache is a thread-safe TTL cache for ingested document bodies,
// cleaned up lazily on Get rather than by a background sweep.
type fetchCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

func newFetchCache(ttl time.Duration) *fetchCache {
	return &fetchCache{entries: make(map[string]*cacheEntry), ttl: ttl}
}

func (c *fetchCache) get(url string) (string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if time.Since(entry.fetchedAt) > c.ttl {
		c.mu.Lock()
		if cur, ok := c.entries[url]; ok && time.Since(cur.fetchedAt) > c.ttl {
			delete(c.entries, url)
		}
		c.mu.Unlock()
		return "", false
	}
	return entry.body, true
}

func (c *fetchCache) set(url, body string) {
	c.mu.Lock()
	c.entries[url] = &cacheEntry{body: body, fetchedAt: time.Now()}
	c.mu.Unlock()
}

// Ingester fetches external evidence (ArchWiki articles, AUR package pages,
// curated recipes) and converts them into KnowledgeDocs for the DocStore.
// It is the only part of the pipeline that performs network I/O; everything
// else consumes the resulting Docs as already-fetched, already-tagged
// evidence.
type Ingester struct {
	httpClient *http.Client
	cache      *fetchCache
	logger     *slog.Logger
}

// NewIngester builds an Ingester with a bounded HTTP timeout and a 1-hour
// fetch cache, matching the teacher's runbook fetch-and-cache idiom.
func NewIngester(logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      newFetchCache(time.Hour),
		logger:     logger,
	}
}

// FetchArchWiki downloads a wiki article body from url and wraps it as a
// KnowledgeDoc tagged SourceArchWiki. ArchWiki content does not expire —
// TTLDays is 0.
func (ing *Ingester) FetchArchWiki(ctx context.Context, url, title string) (Doc, error) {
	body, err := ing.fetch(ctx, url)
	if err != nil {
		return Doc{}, fmt.Errorf("fetch archwiki article %s: %w", url, err)
	}
	return Doc{
		ID:     docID(url),
		Source: SourceArchWiki,
		Title:  title,
		Body:   body,
		Tags:   []string{"archwiki"},
		Provenance: Provenance{
			ComputedBy: "knowledge.Ingester.FetchArchWiki",
			Confidence: 0.8,
			CreatedAt:  time.Now(),
		},
	}, nil
}

// FetchAUR downloads an AUR package comment/description page and wraps it
// as a KnowledgeDoc tagged SourceAUR.
func (ing *Ingester) FetchAUR(ctx context.Context, url, pkgName string) (Doc, error) {
	body, err := ing.fetch(ctx, url)
	if err != nil {
		return Doc{}, fmt.Errorf("fetch AUR page for %s: %w", pkgName, err)
	}
	return Doc{
		ID:     docID(url),
		Source: SourceAUR,
		Title:  pkgName,
		Body:   body,
		Tags:   []string{"aur", pkgName},
		Provenance: Provenance{
			ComputedBy: "knowledge.Ingester.FetchAUR",
			Confidence: 0.6,
			CreatedAt:  time.Now(),
		},
	}, nil
}

// RecipeDoc converts a locally authored troubleshooting recipe (title + body
// already in hand, no network fetch) into a KnowledgeDoc. Every Recipe
// carries the flat RecipeTTLDays TTL.
func RecipeDoc(id, title, body string, tags []string) Doc {
	return Doc{
		ID:     id,
		Source: SourceRecipe,
		Title:  title,
		Body:   body,
		Tags:   tags,
		Provenance: Provenance{
			ComputedBy: "knowledge.RecipeDoc",
			Confidence: 1.0,
			CreatedAt:  time.Now(),
		},
		TTLDays: RecipeTTLDays,
	}
}

func (ing *Ingester) fetch(ctx context.Context, url string) (string, error) {
	if cached, ok := ing.cache.get(url); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := ing.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", url, err)
	}

	body := string(data)
	ing.cache.set(url, body)
	ing.logger.Debug("ingested knowledge document", "url", url, "bytes", len(data))
	return body, nil
}

func docID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:16]
}
