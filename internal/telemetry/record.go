// Package telemetry implements the local JSONL request log and its
// aggregation (spec §4.12).
package telemetry

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RequestRecord is one line of the telemetry JSONL file. Question text is
// never persisted raw — only its hash (spec §4.12: "Privacy: question text
// is hashed; no raw question persisted").
type RequestRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	QuestionHash   string    `json:"question_hash"`
	QueryClass     string    `json:"query_class"`
	RouteUsed      string    `json:"route_used"`
	ProbesCount    int       `json:"probes_count"`
	SpecialistUsed string    `json:"specialist_used,omitempty"`
	Reliability    int       `json:"reliability"`
	DurationMs     uint64    `json:"duration_ms"`
	EvidenceKinds  []string  `json:"evidence_kinds"`
	Team           string    `json:"team"`
	Success        bool      `json:"success"`
}

// HashQuestion derives the QuestionHash field from raw question text.
func HashQuestion(question string) string {
	sum := sha256.Sum256([]byte(question))
	return hex.EncodeToString(sum[:])
}
