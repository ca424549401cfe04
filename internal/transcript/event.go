// Package transcript implements the append-only, capped event log owned by
// each Ticket (spec §4.11).
package transcript

import "encoding/json"

// Kind is the tagged-variant discriminator for a TranscriptEvent (spec §3).
// Unknown values survive a JSON round-trip unchanged, so a newer writer's
// event kinds never break an older reader.
type Kind string

const (
	KindMessage     Kind = "message"
	KindStageStart  Kind = "stage_start"
	KindStageEnd    Kind = "stage_end"
	KindProbeStart  Kind = "probe_start"
	KindProbeEnd    Kind = "probe_end"
	KindFinalAnswer Kind = "final_answer"
	KindNote        Kind = "note"
	KindUnknown     Kind = "unknown"
)

var knownKinds = map[Kind]bool{
	KindMessage:     true,
	KindStageStart:  true,
	KindStageEnd:    true,
	KindProbeStart:  true,
	KindProbeEnd:    true,
	KindFinalAnswer: true,
	KindNote:        true,
}

// Event is one entry in a ticket's transcript.
type Event struct {
	Kind      Kind
	ElapsedMs uint64
	From      string
	To        string
	Detail    map[string]string

	// rawKind preserves the original tag string when Kind is Unknown, so
	// MarshalJSON can write back exactly what was read (forward-compat
	// round trip).
	rawKind string
}

// wireEvent is the JSON-on-the-wire shape; Kind uses the raw tag string so
// unrecognized kinds are captured rather than rejected.
type wireEvent struct {
	Kind      string            `json:"kind"`
	ElapsedMs uint64            `json:"elapsed_ms"`
	From      string            `json:"from"`
	To        string            `json:"to,omitempty"`
	Detail    map[string]string `json:"detail,omitempty"`
}

// UnmarshalJSON maps unrecognized kind tags to KindUnknown while retaining
// the original tag text for re-serialization (spec §3: "Unknown variants
// survive round-trip").
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.ElapsedMs = w.ElapsedMs
	e.From = w.From
	e.To = w.To
	e.Detail = w.Detail

	k := Kind(w.Kind)
	if knownKinds[k] {
		e.Kind = k
		e.rawKind = ""
	} else {
		e.Kind = KindUnknown
		e.rawKind = w.Kind
	}
	return nil
}

// MarshalJSON writes the original tag string for Unknown events so a round
// trip through this type does not clobber a newer writer's event kind.
func (e Event) MarshalJSON() ([]byte, error) {
	kind := string(e.Kind)
	if e.Kind == KindUnknown && e.rawKind != "" {
		kind = e.rawKind
	}
	return json.Marshal(wireEvent{
		Kind:      kind,
		ElapsedMs: e.ElapsedMs,
		From:      e.From,
		To:        e.To,
		Detail:    e.Detail,
	})
}
