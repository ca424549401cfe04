package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashQuestionIsDeterministicAndDoesNotLeakText(t *testing.T) {
	h1 := HashQuestion("how much memory is free")
	h2 := HashQuestion("how much memory is free")
	assert.Equal(t, h1, h2)
	assert.NotContains(t, h1, "memory")
	assert.Len(t, h1, 64)
}

func TestWriterAppendsJSONLAndFsyncs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "telemetry.jsonl")
	w, err := NewWriter(path)
	require.NoError(t, err)

	rec := RequestRecord{
		Timestamp:   time.Unix(0, 0).UTC(),
		QueryClass:  "MemoryUsage",
		RouteUsed:   "deterministic",
		ProbesCount: 1,
		Reliability: 80,
		DurationMs:  120,
		Team:        "sysadmin",
		Success:     true,
	}
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := bytes.Count(data, []byte("\n"))
	assert.Equal(t, 2, lines)
}

func TestReadAllSkipsMalformedLines(t *testing.T) {
	input := `{"query_class":"DiskUsage","route_used":"rag_first","reliability":60,"success":true}
not valid json
{"query_class":"ServiceStatus","route_used":"llm","reliability":40,"success":false}
`
	records := ReadAll(bytes.NewBufferString(input), nil)
	require.Len(t, records, 2)
	assert.Equal(t, "DiskUsage", records[0].QueryClass)
	assert.Equal(t, "ServiceStatus", records[1].QueryClass)
}

func TestSummarizeComputesAveragesAndCounts(t *testing.T) {
	records := []RequestRecord{
		{QueryClass: "MemoryUsage", RouteUsed: "deterministic", Reliability: 100, DurationMs: 100, Success: true},
		{QueryClass: "MemoryUsage", RouteUsed: "deterministic", Reliability: 60, DurationMs: 200, Success: false},
		{QueryClass: "DiskUsage", RouteUsed: "rag_first", Reliability: 80, DurationMs: 300, Success: true},
	}
	agg := Summarize(records)

	assert.Equal(t, 3, agg.TotalRequests)
	assert.Equal(t, 2, agg.SuccessCount)
	assert.Equal(t, 2, agg.ByQueryClass["MemoryUsage"])
	assert.Equal(t, 1, agg.ByQueryClass["DiskUsage"])
	assert.Equal(t, 2, agg.ByRoute["deterministic"])
	assert.InDelta(t, 80.0, agg.AverageReliability, 0.001)
	assert.InDelta(t, 200.0, agg.AverageDurationMs, 0.001)
}

func TestSummarizeEmptyInputIsZeroValue(t *testing.T) {
	agg := Summarize(nil)
	assert.Equal(t, 0, agg.TotalRequests)
	assert.Equal(t, 0.0, agg.AverageReliability)
}
