// Package knowledge implements the append-indexed free-text evidence store:
// KnowledgeDocs tagged by source, and a BM25-lite InvertedIndex over their
// bodies for keyword search (spec §4.10).
package knowledge

import "time"

// SourceKind is the closed set of KnowledgeDoc origins (spec §3).
type SourceKind string

const (
	SourceRecipe      SourceKind = "recipe"
	SourceArchWiki    SourceKind = "archwiki"
	SourceAUR         SourceKind = "aur"
	SourcePackageFact SourceKind = "package_fact"
	SourceSystemFact  SourceKind = "system_fact"
)

// Provenance records who computed a document and how much to trust it.
type Provenance struct {
	ComputedBy string
	Confidence float64
	CreatedAt  time.Time
}

// Doc is one KnowledgeDoc (spec §3).
type Doc struct {
	ID         string
	Source     SourceKind
	Title      string
	Body       string
	Tags       []string
	Provenance Provenance
	TTLDays    int
}

// Expired reports whether the doc has outlived its TTL as of now. TTLDays
// <= 0 means the doc never expires.
func (d Doc) Expired(now time.Time) bool {
	if d.TTLDays <= 0 {
		return false
	}
	return now.Sub(d.Provenance.CreatedAt) > time.Duration(d.TTLDays)*24*time.Hour
}

// RecipeTTLDays is the flat TTL applied to every Recipe-sourced doc
// (Open Question decision, see DESIGN.md: the prototype's conversion.rs
// applies one constant rather than a per-kind table).
const RecipeTTLDays = 30
