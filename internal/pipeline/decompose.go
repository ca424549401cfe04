package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/jjgarcianorway/annad/internal/orchestrator"
)

// StaticDecomposer turns a fixed probe-id list into one Subproblem per
// probe, the simplest decomposition the orchestrator's contract allows. It
// never calls out to the LLM: for the closed set of probe-backed domains
// this daemon answers (memory/disk/service/process), a one-probe-one-
// subproblem split is always sufficient, and skipping the round trip keeps
// the common path fast and deterministic (spec §4.6 allows any Decomposer
// implementation so long as it respects MaxSubproblems).
type StaticDecomposer struct {
	ProbeIDs       []string
	MaxSubproblems int
}

var _ orchestrator.Decomposer = (*StaticDecomposer)(nil)

func (d *StaticDecomposer) Decompose(_ context.Context, _ string, _ []orchestrator.KnownFact) (orchestrator.JuniorDecomposition, error) {
	probeIDs := d.ProbeIDs
	max := d.MaxSubproblems
	if max <= 0 {
		max = orchestrator.MaxSubproblems
	}
	if len(probeIDs) > max {
		probeIDs = probeIDs[:max]
	}

	subs := make([]orchestrator.Subproblem, 0, len(probeIDs))
	for i, id := range probeIDs {
		subs = append(subs, orchestrator.Subproblem{
			ID:             subproblemID(i),
			Description:    "answer using " + id,
			RequiredProbes: []string{id},
			Status:         orchestrator.StatusPending,
		})
	}

	return orchestrator.JuniorDecomposition{
		Subproblems:           subs,
		DecompositionComplete: true,
		Reasoning:             "one subproblem per required probe",
	}, nil
}

func subproblemID(i int) string {
	return "sp-" + strconv.Itoa(i)
}

// ProbesForQuestion maps a free-text question to the probe ids needed to
// answer it, by keyword — the same closed vocabulary the router's Classify
// uses, kept separate here because triage already narrowed NeedsProbes by
// the time the orchestrator runs; this is the fallback used when a ticket
// carries no probe hints of its own (e.g. the heuristic fallback ticket).
func ProbesForQuestion(question string) []string {
	q := strings.ToLower(question)
	var ids []string
	switch {
	case strings.Contains(q, "memory") || strings.Contains(q, "ram"):
		ids = append(ids, "mem.free")
	case strings.Contains(q, "disk") || strings.Contains(q, "space") || strings.Contains(q, "storage"):
		ids = append(ids, "disk.df")
	case strings.Contains(q, "service") || strings.Contains(q, "failed") || strings.Contains(q, "systemd"):
		ids = append(ids, "svc.status_all")
	default:
		ids = append(ids, "mem.free")
	}
	return ids
}
