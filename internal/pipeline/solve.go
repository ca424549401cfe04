package pipeline

import (
	"context"
	"strings"

	"github.com/jjgarcianorway/annad/internal/answerer"
	"github.com/jjgarcianorway/annad/internal/guard"
	"github.com/jjgarcianorway/annad/internal/orchestrator"
	"github.com/jjgarcianorway/annad/internal/parser"
)

// StaticSolver parses the raw probe stdout a Subproblem accumulated and
// renders it through the fixed answerer templates (spec §4.7). Because each
// Subproblem here carries exactly one probe id (StaticDecomposer's
// contract), Solve only looks at the most recent Evidence entry.
type StaticSolver struct {
	// Collected fills in as subproblems solve, so the pipeline can assemble
	// a guard.Evidence bundle afterward without re-parsing probe output.
	Collected *guard.Evidence
}

var _ orchestrator.Solver = (*StaticSolver)(nil)

func (s *StaticSolver) Solve(_ context.Context, sp orchestrator.Subproblem) (orchestrator.SolveSubproblem, error) {
	if len(sp.RequiredProbes) == 0 || len(sp.Evidence) == 0 {
		return orchestrator.SolveSubproblem{SubproblemID: sp.ID, Confidence: 0}, nil
	}

	probeID := sp.RequiredProbes[0]
	stdout := sp.Evidence[len(sp.Evidence)-1]

	switch {
	case strings.HasPrefix(probeID, "mem."):
		mem, err := parser.ParseFree(probeID, stdout)
		if err != nil {
			return orchestrator.SolveSubproblem{SubproblemID: sp.ID, Confidence: 0}, nil
		}
		if s.Collected != nil {
			s.Collected.Memory = &mem
		}
		return orchestrator.SolveSubproblem{SubproblemID: sp.ID, PartialAnswer: answerer.Memory(mem), Confidence: 90}, nil

	case strings.HasPrefix(probeID, "disk."):
		entries, err := parser.ParseDF(probeID, stdout)
		if err != nil {
			return orchestrator.SolveSubproblem{SubproblemID: sp.ID, Confidence: 0}, nil
		}
		if s.Collected != nil {
			s.Collected.Disk = entries
		}
		return orchestrator.SolveSubproblem{SubproblemID: sp.ID, PartialAnswer: answerer.Disk(entries), Confidence: 90}, nil

	case strings.HasPrefix(probeID, "svc."):
		services, err := parser.ParseSystemctlFailed(probeID, stdout)
		if err != nil {
			return orchestrator.SolveSubproblem{SubproblemID: sp.ID, Confidence: 0}, nil
		}
		if s.Collected != nil {
			s.Collected.Services = services
		}
		return orchestrator.SolveSubproblem{SubproblemID: sp.ID, PartialAnswer: answerer.Services(services), Confidence: 90}, nil

	default:
		return orchestrator.SolveSubproblem{SubproblemID: sp.ID, Confidence: 0}, nil
	}
}

// StaticSynthesizer joins every Solved subproblem's PartialAnswer into the
// final text and scores the result by solved/total coverage (spec §4.6
// step 5; the internal Scores here are the orchestrator's own self-
// assessment, distinct from the user-visible scorer.Score).
type StaticSynthesizer struct{}

var _ orchestrator.Synthesizer = (*StaticSynthesizer)(nil)

func (StaticSynthesizer) Synthesize(_ context.Context, subs []orchestrator.Subproblem) (orchestrator.SynthesizeResult, error) {
	var lines []string
	var summaries []orchestrator.SubproblemSummary
	solved := 0

	for _, sp := range subs {
		if sp.Status != orchestrator.StatusSolved {
			continue
		}
		solved++
		lines = append(lines, sp.PartialAnswer)
		summaries = append(summaries, orchestrator.SubproblemSummary{
			ID:          sp.ID,
			Description: sp.Description,
			Answer:      sp.PartialAnswer,
			ProbesUsed:  sp.RequiredProbes,
		})
	}

	coverage := uint8(0)
	if len(subs) > 0 {
		coverage = uint8(solved * 100 / len(subs))
	}

	return orchestrator.SynthesizeResult{
		Text:                strings.Join(lines, " "),
		SubproblemSummaries: summaries,
		Scores: orchestrator.Scores{
			EvidenceCoverage:    coverage,
			ReasoningConfidence: 90,
			SubproblemCoverage:  coverage,
			Overall:             coverage,
		},
	}, nil
}
