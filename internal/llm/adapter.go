package llm

import (
	"context"
	"log/slog"
)

// translateMethod is the sidecar's unary RPC method name for the Translate
// call (spec §4.4's single wrapped LLM contract).
const translateMethod = "/anna.llm.v1.Sidecar/Translate"

type translateRequest struct {
	Query             string   `json:"query"`
	AvailableProbeIDs []string `json:"available_probe_ids"`
	TranscriptSummary string   `json:"transcript_summary"`
}

type translateReply struct {
	Intent                string   `json:"intent"`
	Domain                string   `json:"domain"`
	Entities              []string `json:"entities"`
	NeedsProbes           []string `json:"needs_probes"`
	ClarificationQuestion string   `json:"clarification_question"`
	AnswerContract        string   `json:"answer_contract"`
	Confidence            float64  `json:"confidence"`
}

// Adapter wraps a Transport behind the fixed TranslatorTicket contract,
// applying structural validation and the heuristic fallback on transport
// failure (spec §4.4).
type Adapter struct {
	transport Transport
	logger    *slog.Logger
}

// NewAdapter builds an Adapter over transport. logger may be nil.
func NewAdapter(transport Transport, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{transport: transport, logger: logger}
}

// Translate calls the sidecar and returns a validated TranslatorTicket. On
// any transport error it logs a warning and returns HeuristicFallback(prompt.Query)
// instead of propagating the error — the adapter's contract guarantees a
// usable ticket under all conditions.
func (a *Adapter) Translate(ctx context.Context, prompt LlmPrompt, knownProbeIDs map[string]bool) TranslatorTicket {
	req := translateRequest{
		Query:             prompt.Query,
		AvailableProbeIDs: prompt.AvailableProbeIDs,
		TranscriptSummary: prompt.TranscriptSummary,
	}
	var reply translateReply

	if err := a.transport.Complete(ctx, translateMethod, req, &reply); err != nil {
		a.logger.Warn("translator transport failed, using heuristic fallback",
			"error", err, "query_len", len(prompt.Query))
		return HeuristicFallback(prompt.Query)
	}

	ticket := TranslatorTicket{
		Intent:                Intent(reply.Intent),
		Domain:                Domain(reply.Domain),
		Entities:              reply.Entities,
		NeedsProbes:           reply.NeedsProbes,
		ClarificationQuestion: reply.ClarificationQuestion,
		AnswerContract:        reply.AnswerContract,
		Confidence:            reply.Confidence,
	}
	ticket.Validate(knownProbeIDs)
	return ticket
}
