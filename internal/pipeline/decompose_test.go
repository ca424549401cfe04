package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjgarcianorway/annad/internal/orchestrator"
)

func TestStaticDecomposerOneSubproblemPerProbe(t *testing.T) {
	d := &StaticDecomposer{ProbeIDs: []string{"mem.free", "disk.df"}}
	out, err := d.Decompose(context.Background(), "is my system ok?", nil)
	require.NoError(t, err)

	require.Len(t, out.Subproblems, 2)
	assert.True(t, out.DecompositionComplete)
	assert.Equal(t, []string{"mem.free"}, out.Subproblems[0].RequiredProbes)
	assert.Equal(t, []string{"disk.df"}, out.Subproblems[1].RequiredProbes)
	assert.Equal(t, orchestrator.StatusPending, out.Subproblems[0].Status)
}

func TestStaticDecomposerRespectsMaxSubproblems(t *testing.T) {
	d := &StaticDecomposer{
		ProbeIDs:       []string{"mem.free", "disk.df", "svc.status_all", "cpu.lscpu"},
		MaxSubproblems: 2,
	}
	out, err := d.Decompose(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Len(t, out.Subproblems, 2)
}

func TestStaticDecomposerDefaultsToOrchestratorMax(t *testing.T) {
	ids := make([]string, orchestrator.MaxSubproblems+3)
	for i := range ids {
		ids[i] = "mem.free"
	}
	d := &StaticDecomposer{ProbeIDs: ids}
	out, err := d.Decompose(context.Background(), "q", nil)
	require.NoError(t, err)
	assert.Len(t, out.Subproblems, orchestrator.MaxSubproblems)
}

func TestProbesForQuestionKeywordMapping(t *testing.T) {
	assert.Equal(t, []string{"mem.free"}, ProbesForQuestion("how much RAM is free?"))
	assert.Equal(t, []string{"disk.df"}, ProbesForQuestion("how much disk space is left?"))
	assert.Equal(t, []string{"svc.status_all"}, ProbesForQuestion("which service failed?"))
	assert.Equal(t, []string{"mem.free"}, ProbesForQuestion("what time is it?"), "unmatched questions fall back to memory")
}
