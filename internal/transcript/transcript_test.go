package transcript

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendRetainsEventsInOrder(t *testing.T) {
	tr := New()
	tr.Append(Event{Kind: KindStageStart, ElapsedMs: 1, From: "router"})
	tr.Append(Event{Kind: KindStageEnd, ElapsedMs: 5, From: "router"})
	require.Equal(t, 2, tr.Len())
	assert.Equal(t, KindStageStart, tr.Events()[0].Kind)
	assert.False(t, tr.WasCapped())
	assert.Equal(t, "", tr.Diagnostic())
}

func TestAppendDropsBeyondCapAndTracksDropCount(t *testing.T) {
	tr := New()
	for i := 0; i < MaxEvents; i++ {
		require.True(t, tr.Append(Event{Kind: KindNote, ElapsedMs: uint64(i)}))
	}
	for i := 0; i < 5; i++ {
		require.False(t, tr.Append(Event{Kind: KindNote, ElapsedMs: uint64(MaxEvents + i)}))
	}

	assert.Equal(t, MaxEvents, tr.Len())
	assert.Equal(t, 5, tr.DroppedCount())
	assert.True(t, tr.WasCapped())
	diag := tr.Diagnostic()
	assert.Contains(t, diag, "transcript")
	assert.Contains(t, diag, "reliability penalty")
}

func TestJSONRoundTripPreservesEventsButResetsDropCounter(t *testing.T) {
	tr := New()
	for i := 0; i < MaxEvents+5; i++ {
		tr.Append(Event{Kind: KindNote, ElapsedMs: uint64(i)})
	}
	require.Equal(t, 5, tr.DroppedCount())

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	require.False(t, strings.Contains(string(data), "dropped"))

	var restored Transcript
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, MaxEvents, restored.Len())
	assert.Equal(t, 0, restored.DroppedCount())
	assert.False(t, restored.WasCapped())
}

func TestUnknownEventKindRoundTripsUnchanged(t *testing.T) {
	raw := `{"kind":"future_event_type","elapsed_ms":42,"from":"x"}`
	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, KindUnknown, e.Kind)

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"kind":"future_event_type"`)
}

func TestKnownEventKindRoundTrips(t *testing.T) {
	raw := `{"kind":"probe_start","elapsed_ms":10,"from":"runner","to":"mem.info"}`
	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, KindProbeStart, e.Kind)
	assert.Equal(t, "mem.info", e.To)

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"kind":"probe_start"`)
}
