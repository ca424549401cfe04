package transcript

import (
	"encoding/json"
	"fmt"
)

// MaxEvents is the hard cap on events retained per ticket (spec §4.11:
// MAX_TRANSCRIPT_EVENTS).
const MaxEvents = 10000

// Transcript is the append-only, capped event log owned by one ticket. The
// zero value is not usable; construct with New.
type Transcript struct {
	events  []Event
	dropped int
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{events: make([]Event, 0, 64)}
}

// Append adds e to the log, or drops it once the cap is reached. Returns
// false when the event was dropped.
func (t *Transcript) Append(e Event) bool {
	if len(t.events) >= MaxEvents {
		t.dropped++
		return false
	}
	t.events = append(t.events, e)
	return true
}

// Events returns the retained events in append order.
func (t *Transcript) Events() []Event {
	return t.events
}

// Len is the number of retained events.
func (t *Transcript) Len() int {
	return len(t.events)
}

// DroppedCount is how many events were dropped after the cap was hit. It is
// in-memory only and never serialized (spec §4.11: "wire-compatibility with
// older readers").
func (t *Transcript) DroppedCount() int {
	return t.dropped
}

// WasCapped reports whether any event has ever been dropped.
func (t *Transcript) WasCapped() bool {
	return t.dropped > 0
}

// Diagnostic returns a user-facing explanation of the cap being hit, or ""
// if the transcript was never capped (spec §4.11: "a diagnostic event is
// surfaced to the user explaining that the cap was hit and applying a
// reliability penalty").
func (t *Transcript) Diagnostic() string {
	if !t.WasCapped() {
		return ""
	}
	return fmt.Sprintf(
		"transcript reached its %d-event cap; %d events were dropped and a reliability penalty was applied",
		MaxEvents, t.dropped,
	)
}

// wireTranscript is the JSON-on-the-wire shape: events only. DroppedCount is
// intentionally absent, so round-tripping a capped transcript through JSON
// resets the drop counter to zero on the receiving side (spec §8 scenario
// 5: "JSON round-trip preserves events but resets drop counter").
type wireTranscript struct {
	Events []Event `json:"events"`
}

// MarshalJSON serializes only the retained events.
func (t Transcript) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireTranscript{Events: t.events})
}

// UnmarshalJSON restores events and resets the drop counter.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var w wireTranscript
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.events = w.Events
	t.dropped = 0
	return nil
}
