package pipeline

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jjgarcianorway/annad/internal/fact"
	"github.com/jjgarcianorway/annad/internal/knowledge"
	"github.com/jjgarcianorway/annad/internal/llm"
	"github.com/jjgarcianorway/annad/internal/probe"
	"github.com/jjgarcianorway/annad/internal/scorer"
)

// stubTransport returns a fixed reply regardless of request, letting tests
// drive the translator deterministically without a real sidecar.
type stubTransport struct {
	reply string
}

func (s *stubTransport) Complete(_ context.Context, _ string, _ any, response any) error {
	return json.Unmarshal([]byte(s.reply), response)
}

func (s *stubTransport) Close() error { return nil }

func newTestService(t *testing.T, reply string) *Service {
	t.Helper()
	c := probe.StandardCatalog()
	errs := c.ApplyOverrides(map[string]probe.Definition{
		"disk.df":        {Description: "fixture", Command: "echo", Args: []string{"-n", dfOutput}, Cost: probe.CostCheap},
		"mem.free":       {Description: "fixture", Command: "echo", Args: []string{"-n", freeOutput}, Cost: probe.CostCheap},
		"svc.status_all": {Description: "fixture", Command: "echo", Args: []string{"-n", systemctlFailedOutput}, Cost: probe.CostCheap},
	})
	require.Empty(t, errs)

	return &Service{
		Catalog:           c,
		Runner:            probe.NewRunner(c, 4, 1<<16),
		Translator:        llm.NewAdapter(&stubTransport{reply: reply}, nil),
		Facts:             fact.NewMemStore(nil),
		Docs:              knowledge.NewMemDocStore(),
		FallbackTemplate:  "Could you say more?",
		ResolvedThreshold: 60,
		Tickets:           NewTicketStore(0),
	}
}

func TestHandleQueryHappyPathResolvesWithHighReliability(t *testing.T) {
	reply := `{"intent":"question","domain":"storage","needs_probes":["disk.df"],"confidence":0.9}`
	svc := newTestService(t, reply)

	result := svc.HandleQuery(context.Background(), "how much disk space is left?")

	require.NotNil(t, result.Ticket)
	assert.NotEmpty(t, result.Answer)
	assert.Equal(t, scorer.BandHigh, result.Reliability.Band)

	stored, ok := svc.Tickets.Get(result.TranscriptID)
	require.True(t, ok)
	assert.Equal(t, result.Ticket.ID, stored.ID)
}

func TestHandleQueryLowConfidenceAsksForClarification(t *testing.T) {
	reply := `{"intent":"question","domain":"system","confidence":0.1}`
	svc := newTestService(t, reply)

	result := svc.HandleQuery(context.Background(), "what's going on")

	assert.Equal(t, "Could you say more?", result.Answer)
	assert.Equal(t, scorer.BandVeryLow, result.Reliability.Band)
}

func TestHandleQueryRAGFirstShortCircuitsOnKnowledgeHit(t *testing.T) {
	reply := `{"intent":"question","domain":"packages","confidence":0.9}`
	svc := newTestService(t, reply)

	require.NoError(t, svc.Docs.Upsert(context.Background(), knowledge.Doc{
		ID:    "doc-1",
		Title: "Installed packages overview",
		Body:  "You have 240 packages installed via pacman.",
	}))

	result := svc.HandleQuery(context.Background(), "what packages are installed?")

	assert.Equal(t, "You have 240 packages installed via pacman.", result.Answer)
	assert.Equal(t, scorer.BandHigh, result.Reliability.Band)
}

func TestHandleQueryRAGFirstMissFallsBackToProbes(t *testing.T) {
	reply := `{"intent":"question","domain":"packages","confidence":0.9}`
	svc := newTestService(t, reply)

	result := svc.HandleQuery(context.Background(), "what packages are installed?")

	require.NotNil(t, result.Ticket)
	assert.NotEqual(t, "", result.Ticket.ID)
}

func TestHandleQueryRecordsFactsFromProbeEvidence(t *testing.T) {
	reply := `{"intent":"question","domain":"storage","needs_probes":["disk.df"],"confidence":0.9}`
	svc := newTestService(t, reply)

	svc.HandleQuery(context.Background(), "how much disk space is left?")

	facts, err := svc.Facts.Query(context.Background(), fact.Query{Entity: "disk:/"})
	require.NoError(t, err)
	assert.NotEmpty(t, facts)
}
