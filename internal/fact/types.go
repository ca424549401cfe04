// Package fact implements the entity-attribute-value ground-truth store:
// upsert-with-conflict-resolution, TTL-driven staleness, and prefix-aware
// queries. A single writer serializes upserts; readers see a consistent
// snapshot (spec §5 "Fact store: single-writer lock at upsert granularity;
// reads lock-free via snapshotting").
package fact

import (
	"strings"
	"time"
)

// Status is the closed lifecycle state of a Fact.
type Status string

const (
	StatusActive     Status = "active"
	StatusStale      Status = "stale"
	StatusDeprecated Status = "deprecated"
	StatusConflicted Status = "conflicted"
)

// Fact is one entity-attribute-value ground-truth record (spec §3).
type Fact struct {
	ID         string
	Entity     string // e.g. "cpu:0", "pkg:vim", "svc:nginx"
	Attribute  string // e.g. "cores", "state", "used_bytes"
	Value      string
	Source     string // "probe:<id>:<timestamp>" or "llm:<reasoning>:<timestamp>"
	FirstSeen  time.Time
	LastSeen   time.Time
	Confidence float64
	Status     Status
}

// key returns the (entity, attribute) identity used for the at-most-one-
// Active invariant.
func (f Fact) key() eavKey {
	return eavKey{entity: f.Entity, attribute: f.Attribute}
}

type eavKey struct {
	entity    string
	attribute string
}

// HistoryEntry records a superseded or deprecated Fact, written whenever an
// upsert displaces a previous Active value (spec §4.10).
type HistoryEntry struct {
	Fact      Fact
	Reason    string
	RecordedAt time.Time
}

// Query is the read filter over the store (spec §4.10 FactQuery). Entity
// supports a trailing "*" for prefix match.
type Query struct {
	Entity        string
	Attribute     string
	MinConfidence float64
	Status        []Status
	SeenAfter     *time.Time
	Limit         int
}

func (q Query) matchesEntity(entity string) bool {
	if q.Entity == "" {
		return true
	}
	if strings.HasSuffix(q.Entity, "*") {
		return strings.HasPrefix(entity, strings.TrimSuffix(q.Entity, "*"))
	}
	return q.Entity == entity
}

func (q Query) matchesStatus(s Status) bool {
	if len(q.Status) == 0 {
		return true
	}
	for _, want := range q.Status {
		if want == s {
			return true
		}
	}
	return false
}
