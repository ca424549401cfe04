package probe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := &Catalog{probes: map[string]Definition{}}
	errs := c.ApplyOverrides(map[string]Definition{
		"ok":      {Command: "echo", Args: []string{"hello"}, Cost: CostCheap},
		"fail":    {Command: "false", Cost: CostCheap},
		"timeout": {Command: "sleep", Args: []string{"5"}, Cost: CostCheap},
	})
	require.Empty(t, errs)
	return c
}

func TestRunnerExecutePreservesSubmissionOrder(t *testing.T) {
	r := NewRunner(testCatalog(t), 8, 1<<20)
	results := r.Execute(context.Background(), []string{"ok", "fail", "ok"})
	require.Len(t, results, 3)
	assert.Equal(t, "ok", results[0].ProbeID)
	assert.Equal(t, "fail", results[1].ProbeID)
	assert.Equal(t, "ok", results[2].ProbeID)
	assert.Equal(t, 0, results[0].ExitCode)
	assert.NotEqual(t, 0, results[1].ExitCode)
}

func TestRunnerTimeoutProducesSentinelResult(t *testing.T) {
	r := NewRunner(testCatalog(t), 1, 1<<20)
	results := r.Execute(context.Background(), []string{"timeout"})
	require.Len(t, results, 1)
	assert.Equal(t, -1, results[0].ExitCode)
	assert.Equal(t, "timeout", results[0].Stderr)
}

func TestRunnerUnknownProbeDoesNotAbortBatch(t *testing.T) {
	r := NewRunner(testCatalog(t), 8, 1<<20)
	results := r.Execute(context.Background(), []string{"ok", "nonexistent"})
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].ExitCode)
	assert.Equal(t, -2, results[1].ExitCode)
}

func TestCapBytesTruncatesAndFlags(t *testing.T) {
	out, truncated := capBytes([]byte("0123456789"), 5)
	assert.True(t, truncated)
	assert.Equal(t, "01234", string(out))

	out, truncated = capBytes([]byte("abc"), 5)
	assert.False(t, truncated)
	assert.Equal(t, "abc", string(out))
}
