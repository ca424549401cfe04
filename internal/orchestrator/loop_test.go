package orchestrator

import (
	"context"
	"testing"
)

type scriptedDecomposer struct {
	decomposition JuniorDecomposition
}

func (d scriptedDecomposer) Decompose(_ context.Context, _ string, _ []KnownFact) (JuniorDecomposition, error) {
	return d.decomposition, nil
}

// confidenceBySubproblem solves every subproblem with a fixed confidence,
// keyed by subproblem id; subproblems absent from the map get 0.
type confidenceBySubproblem map[string]uint8

func (c confidenceBySubproblem) Solve(_ context.Context, sp Subproblem) (SolveSubproblem, error) {
	return SolveSubproblem{
		SubproblemID:  sp.ID,
		PartialAnswer: "answer for " + sp.ID,
		Confidence:    c[sp.ID],
	}, nil
}

type recordingSynthesizer struct {
	calledWith []Subproblem
}

func (s *recordingSynthesizer) Synthesize(_ context.Context, subs []Subproblem) (SynthesizeResult, error) {
	s.calledWith = subs
	return SynthesizeResult{Text: "final answer"}, nil
}

func newTestEngine(decomposer Decomposer, solver Solver, mentor Mentor, synth Synthesizer) *Engine {
	return &Engine{
		Decomposer:  decomposer,
		Runner:      NewSubproblemRunner(&fakeProbeRunner{}, 4),
		Solver:      solver,
		Mentor:      mentor,
		Synthesizer: synth,
	}
}

func TestEngineRunResolvesAllConfidentSubproblemsInOneIteration(t *testing.T) {
	decomposer := scriptedDecomposer{decomposition: JuniorDecomposition{
		Subproblems: []Subproblem{
			{ID: "sp1", RequiredProbes: []string{"mem.info"}},
		},
	}}
	synth := &recordingSynthesizer{}
	engine := newTestEngine(decomposer, confidenceBySubproblem{"sp1": 90}, nil, synth)

	out := engine.Run(context.Background(), "is memory ok?", nil, nil)

	if out.CannotAnswer {
		t.Fatalf("expected answerable outcome, got %+v", out)
	}
	if out.Final.Text != "final answer" {
		t.Fatalf("got %+v", out.Final)
	}
	if out.Subproblems[0].Status != StatusSolved {
		t.Fatalf("expected solved, got %+v", out.Subproblems[0])
	}
	if out.Iterations != 1 {
		t.Fatalf("expected 1 iteration, got %d", out.Iterations)
	}
}

func TestEngineRunEscalatesToMentorWhenBlockedPersists(t *testing.T) {
	decomposer := scriptedDecomposer{decomposition: JuniorDecomposition{
		Subproblems: []Subproblem{
			{ID: "sp1", RequiredProbes: []string{"unknown.probe"}},
		},
	}}
	mentorCalls := 0
	mentor := mentorFunc(func(_ context.Context, mc MentorContext) (SeniorMentor, error) {
		mentorCalls++
		return SeniorMentor{
			Kind: MentorSuggestApproach,
			KeySubproblems: []SuggestedSubproblem{
				{Description: "alternate angle", SuggestedProbes: []string{"mem.info"}},
			},
		}, nil
	})
	synth := &recordingSynthesizer{}
	engine := newTestEngine(decomposer, confidenceBySubproblem{}, mentor, synth)

	out := engine.Run(context.Background(), "why is this broken?", nil, nil)

	if mentorCalls == 0 {
		t.Fatal("expected mentor to be consulted")
	}
	if !out.WasEscalated {
		t.Fatalf("expected escalation flag set, got %+v", out)
	}
}

func TestEngineRunReturnsCannotAnswerWhenAllBlockedAndNoMentor(t *testing.T) {
	decomposer := scriptedDecomposer{decomposition: JuniorDecomposition{
		Subproblems: []Subproblem{
			{ID: "sp1", RequiredProbes: []string{"mem.info"}},
		},
	}}
	engine := newTestEngine(decomposer, confidenceBySubproblem{}, nil, &recordingSynthesizer{})

	out := engine.Run(context.Background(), "mystery question", nil, nil)

	if !out.CannotAnswer {
		t.Fatalf("expected cannot-answer once the only subproblem stays blocked with no mentor, got %+v", out)
	}
	if out.Subproblems[0].Status != StatusBlocked {
		t.Fatalf("expected subproblem blocked, got %+v", out.Subproblems[0])
	}
}

type mentorFunc func(ctx context.Context, mc MentorContext) (SeniorMentor, error)

func (f mentorFunc) Review(ctx context.Context, mc MentorContext) (SeniorMentor, error) {
	return f(ctx, mc)
}
