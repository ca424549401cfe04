// Package triage applies the fixed gating policy to every TranslatorTicket
// before it reaches the Subproblem Orchestrator: a probe cap, a confidence
// gate, and an empty-probes clarification shortcut (spec §4.5).
package triage

import "github.com/jjgarcianorway/annad/internal/llm"

// MaxTriageProbes is the hard cap on needs_probes after triage (spec §4.5).
const MaxTriageProbes = 3

// ConfidenceThreshold is the confidence gate boundary. Strict less-than:
// confidence == ConfidenceThreshold passes (spec §4.5).
const ConfidenceThreshold = 0.7

// Outcome is the result of applying the policy to a ticket.
type Outcome struct {
	Ticket             llm.TranslatorTicket
	ProbeCapApplied    bool
	NeedsClarification bool
	ClarificationText  string
}

// Apply runs the probe cap, then the confidence gate, on ticket.
// fallbackTemplate supplies the clarification text when the ticket carries
// none (a closed per-domain table, per spec §4.5's "synthesize a
// domain-specific fallback from a closed table").
func Apply(ticket llm.TranslatorTicket, fallbackTemplate string) Outcome {
	out := Outcome{Ticket: ticket}

	if len(ticket.NeedsProbes) > MaxTriageProbes {
		out.Ticket.NeedsProbes = append([]string(nil), ticket.NeedsProbes[:MaxTriageProbes]...)
		out.ProbeCapApplied = true
	}

	if ticket.Confidence < ConfidenceThreshold {
		out.NeedsClarification = true
		out.ClarificationText = ticket.ClarificationQuestion
		if out.ClarificationText == "" {
			out.ClarificationText = fallbackTemplate
		}
		// Empty-probes + clarification: return clarification immediately;
		// do not run probes (spec §4.5).
		out.Ticket.NeedsProbes = nil
		return out
	}

	return out
}
