package knowledge

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenSplit matches every run of characters that is NOT alphanumeric, '_',
// or '-' — the exact tokenizer boundary from the prototype's index.rs.
var tokenSplit = regexp.MustCompile(`[^a-z0-9_-]+`)

// Tokenize lowercases and splits on non-alphanumeric/_/- runs, dropping
// tokens shorter than 2 characters.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	raw := tokenSplit.Split(lower, -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if len(t) >= 2 {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

type posting struct {
	docIDs    []string
	termFreqs []uint32
}

// InvertedIndex is a pure derived view over a set of KnowledgeDocs: token ->
// posting list, doc lengths, and corpus statistics for BM25-lite scoring.
// Rebuilding from the same docs always yields identical posting lists.
type InvertedIndex struct {
	postings     map[string]*posting
	docLengths   map[string]uint32
	avgDocLength float64
	docCount     int
}

// NewInvertedIndex returns an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{
		postings:   make(map[string]*posting),
		docLengths: make(map[string]uint32),
	}
}

// AddDocument indexes (or re-indexes, on update) a document's searchable
// text under docID.
func (idx *InvertedIndex) AddDocument(docID, text string) {
	if _, exists := idx.docLengths[docID]; exists {
		idx.RemoveDocument(docID)
	}
	tokens := Tokenize(text)
	idx.docLengths[docID] = uint32(len(tokens))
	idx.recomputeAverage()

	counts := map[string]uint32{}
	for _, tok := range tokens {
		counts[tok]++
	}

	for tok, freq := range counts {
		p, ok := idx.postings[tok]
		if !ok {
			p = &posting{}
			idx.postings[tok] = p
		}
		updated := false
		for i, id := range p.docIDs {
			if id == docID {
				p.termFreqs[i] = freq
				updated = true
				break
			}
		}
		if !updated {
			p.docIDs = append(p.docIDs, docID)
			p.termFreqs = append(p.termFreqs, freq)
		}
	}
}

// RemoveDocument removes docID from the index: its length entry, and its
// postings from every token's posting list. Tokens left with no postings
// are dropped entirely.
func (idx *InvertedIndex) RemoveDocument(docID string) {
	delete(idx.docLengths, docID)
	idx.recomputeAverage()

	for tok, p := range idx.postings {
		for i, id := range p.docIDs {
			if id == docID {
				p.docIDs = append(p.docIDs[:i], p.docIDs[i+1:]...)
				p.termFreqs = append(p.termFreqs[:i], p.termFreqs[i+1:]...)
				break
			}
		}
		if len(p.docIDs) == 0 {
			delete(idx.postings, tok)
		}
	}
}

func (idx *InvertedIndex) recomputeAverage() {
	idx.docCount = len(idx.docLengths)
	if idx.docCount == 0 {
		idx.avgDocLength = 0
		return
	}
	var total uint32
	for _, l := range idx.docLengths {
		total += l
	}
	idx.avgDocLength = float64(total) / float64(idx.docCount)
}

// ScoredDoc is one search hit.
type ScoredDoc struct {
	DocID string
	Score int32
}

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// Search scores the corpus against query using BM25-lite and returns the
// top `limit` hits, integer scores floored at ×1000, tie-broken by doc_id
// ascending for determinism.
func (idx *InvertedIndex) Search(query string, limit int) []ScoredDoc {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	scores := map[string]float64{}
	avgLen := idx.avgDocLength
	if avgLen < 1 {
		avgLen = 1
	}

	for _, tok := range queryTokens {
		p, ok := idx.postings[tok]
		if !ok {
			continue
		}
		n := float64(len(p.docIDs))
		idf := math.Log((float64(idx.docCount)-n+0.5)/(n+0.5) + 1.0)

		for i, docID := range p.docIDs {
			tf := float64(p.termFreqs[i])
			docLen := float64(idx.docLengths[docID])
			if docLen == 0 {
				docLen = 1
			}
			norm := 1.0 - bm25B + bm25B*(docLen/avgLen)
			tfScore := (tf * (bm25K1 + 1.0)) / (tf + bm25K1*norm)
			scores[docID] += idf * tfScore
		}
	}

	results := make([]ScoredDoc, 0, len(scores))
	for id, score := range scores {
		results = append(results, ScoredDoc{DocID: id, Score: int32(math.Floor(score * 1000))})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Len returns the number of indexed documents.
func (idx *InvertedIndex) Len() int { return idx.docCount }
