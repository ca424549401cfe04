// Package llm implements the Translator Adapter: a fixed contract wrapping
// an external LLM collaborator, reachable over gRPC to a local model-runtime
// sidecar (spec §4.4). The core never depends on a specific LLM provider —
// only on the TranslatorTicket/LlmPrompt contract defined here.
package llm

// Intent is the closed classification of what the user wants.
type Intent string

const (
	IntentQuestion   Intent = "question"
	IntentCommand    Intent = "command"
	IntentDiagnostic Intent = "diagnostic"
)

// Domain is the closed subject-matter classification used to pick a
// clarification template and to scope probe suggestions.
type Domain string

const (
	DomainNetwork  Domain = "network"
	DomainStorage  Domain = "storage"
	DomainSecurity Domain = "security"
	DomainPackages Domain = "packages"
	DomainSystem   Domain = "system"
)

// TranslatorTicket is the Translator Adapter's output contract (spec §4.4).
type TranslatorTicket struct {
	Intent                Intent
	Domain                Domain
	Entities              []string
	NeedsProbes           []string
	ClarificationQuestion string
	AnswerContract        string
	Confidence            float64
}

// LlmPrompt is the input the core sends to the Translator Adapter: the raw
// query, the probe ids currently available (already filtered by cost by the
// caller), and a short transcript summary for context continuity.
type LlmPrompt struct {
	Query             string
	AvailableProbeIDs []string
	TranscriptSummary string
}

// clipConfidence clamps confidence into [0,1] (spec §4.4: "clip confidence
// to [0,1]").
func clipConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Validate enforces the adapter's structural contract in place: unknown
// probe ids (not present in knownProbeIDs) are dropped, and confidence is
// clipped to [0,1].
func (t *TranslatorTicket) Validate(knownProbeIDs map[string]bool) {
	t.Confidence = clipConfidence(t.Confidence)

	if len(t.NeedsProbes) == 0 {
		return
	}
	filtered := t.NeedsProbes[:0]
	for _, id := range t.NeedsProbes {
		if knownProbeIDs[id] {
			filtered = append(filtered, id)
		}
	}
	t.NeedsProbes = filtered
}
