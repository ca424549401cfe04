package fact

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is the default, single-user-workstation-scale Store backend: an
// in-memory EAV table guarded by a single-writer RWMutex, matching the
// spec's "single-writer lock at upsert granularity; reads lock-free via
// snapshotting" requirement well enough for a process with one daemon.
type MemStore struct {
	mu      sync.RWMutex
	byID    map[string]Fact
	active  map[eavKey]string // entity+attribute -> fact id currently Active
	history map[eavKey][]HistoryEntry
	ttl     TTLResolver
}

// NewMemStore builds an empty store. ttl may be nil, in which case
// SweepStale never transitions anything (useful in tests that don't care
// about staleness).
func NewMemStore(ttl TTLResolver) *MemStore {
	return &MemStore{
		byID:    make(map[string]Fact),
		active:  make(map[eavKey]string),
		history: make(map[eavKey][]HistoryEntry),
		ttl:     ttl,
	}
}

func (s *MemStore) Upsert(_ context.Context, f Fact) (Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	key := f.key()

	existingID, hasActive := s.active[key]
	if !hasActive {
		f.ID = newFactID()
		f.FirstSeen = now
		f.LastSeen = now
		f.Status = StatusActive
		s.byID[f.ID] = f
		s.active[key] = f.ID
		return f, nil
	}

	existing := s.byID[existingID]

	if existing.Value == f.Value {
		existing.LastSeen = now
		existing.Status = StatusActive
		if f.Confidence > existing.Confidence {
			existing.Confidence = f.Confidence
		}
		s.byID[existing.ID] = existing
		return existing, nil
	}

	// Different value: higher-or-equal confidence supersedes; the losing
	// observation is recorded but never becomes Active (spec §4.10).
	if f.Confidence >= existing.Confidence {
		existing.Status = StatusDeprecated
		s.byID[existing.ID] = existing
		s.history[key] = append(s.history[key], HistoryEntry{
			Fact:       existing,
			Reason:     "superseded by higher-or-equal-confidence observation",
			RecordedAt: now,
		})

		f.ID = newFactID()
		f.FirstSeen = now
		f.LastSeen = now
		f.Status = StatusActive
		s.byID[f.ID] = f
		s.active[key] = f.ID
		return f, nil
	}

	// Lower confidence: insert as a non-displacing shadow Stale record.
	f.ID = newFactID()
	f.FirstSeen = now
	f.LastSeen = now
	f.Status = StatusStale
	s.byID[f.ID] = f
	s.history[key] = append(s.history[key], HistoryEntry{
		Fact:       f,
		Reason:     "lower-confidence observation did not displace Active",
		RecordedAt: now,
	})
	return existing, nil
}

func (s *MemStore) Get(_ context.Context, id string) (Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.byID[id]
	if !ok {
		return Fact{}, ErrNotFound
	}
	return f, nil
}

func (s *MemStore) Query(_ context.Context, q Query) ([]Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Fact
	for _, f := range s.byID {
		if !q.matchesEntity(f.Entity) {
			continue
		}
		if q.Attribute != "" && q.Attribute != f.Attribute {
			continue
		}
		if f.Confidence < q.MinConfidence {
			continue
		}
		if !q.matchesStatus(f.Status) {
			continue
		}
		if q.SeenAfter != nil && f.LastSeen.Before(*q.SeenAfter) {
			continue
		}
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}
		return out[i].Attribute < out[j].Attribute
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemStore) History(_ context.Context, entity, attribute string) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.history[eavKey{entity: entity, attribute: attribute}]
	out := make([]HistoryEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *MemStore) SweepStale(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl == nil {
		return 0, nil
	}

	count := 0
	for id, f := range s.byID {
		if f.Status != StatusActive {
			continue
		}
		ttl, _ := s.ttl.TTLFor(f.Attribute)
		if ttl <= 0 {
			continue
		}
		if now.Sub(f.LastSeen) > ttl {
			f.Status = StatusStale
			s.byID[id] = f
			count++
		}
	}
	return count, nil
}

func newFactID() string {
	return uuid.NewString()
}
