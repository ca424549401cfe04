package orchestrator

import (
	"context"
	"log/slog"
)

// MaxIterations bounds the decompose/solve loop (spec §4.6: MAX_ITERATIONS).
const MaxIterations = 8

// MaxSubproblems bounds a decomposition (spec §4.6: MAX_SUBPROBLEMS).
const MaxSubproblems = 5

// MinConfidenceForSynthesis is the threshold a subproblem's solve
// confidence must meet to transition to Solved (spec §4.6 step 3:
// MIN_CONFIDENCE_FOR_SYNTHESIS).
const MinConfidenceForSynthesis uint8 = 70

// blockedStreakLimit is how many consecutive iterations a non-zero blocked
// count is tolerated before forcing a mentor escalation (spec §4.6 step 4:
// "blocked_count > 0 persists for 2 iterations").
const blockedStreakLimit = 2

// Decomposer breaks a question into subproblems (spec §4.6 step 1).
type Decomposer interface {
	Decompose(ctx context.Context, question string, facts []KnownFact) (JuniorDecomposition, error)
}

// Solver attempts to solve a single subproblem from its accumulated
// evidence (spec §4.6 step 3).
type Solver interface {
	Solve(ctx context.Context, sp Subproblem) (SolveSubproblem, error)
}

// Synthesizer assembles the final answer from solved subproblems (spec
// §4.6 step 5).
type Synthesizer interface {
	Synthesize(ctx context.Context, subs []Subproblem) (SynthesizeResult, error)
}

// Engine wires the decomposer/runner/solver/mentor/synthesizer together
// into the bounded loop. All fields are required except Mentor, which may
// be nil if escalation is unsupported (blocked subproblems then simply stay
// Blocked; the loop ends early once every subproblem has been Blocked for
// blockedStreakLimit iterations).
type Engine struct {
	Decomposer  Decomposer
	Runner      *SubproblemRunner
	Solver      Solver
	Mentor      Mentor
	Synthesizer Synthesizer
	Logger      *slog.Logger
}

// Run executes the bounded decompose → probe → solve → (mentor) →
// synthesize loop for one question (spec §4.6).
func (e *Engine) Run(ctx context.Context, question string, facts []KnownFact, knownProbeIDs map[string]bool) Outcome {
	logger := e.logger()

	decomposition, err := e.Decomposer.Decompose(ctx, question, facts)
	if err != nil {
		logger.Error("orchestrator: decomposition failed", "error", err)
		return Outcome{CannotAnswer: true}
	}
	decomposition = ValidateDecomposition(decomposition, knownProbeIDs, MaxSubproblems)
	subs := decomposition.Subproblems

	wasEscalated := false
	blockedStreak := 0
	iterationsRun := 0

	for iteration := 1; iteration <= MaxIterations; iteration++ {
		iterationsRun = iteration
		subs = e.Runner.RunPending(ctx, subs)
		subs = e.solveAll(ctx, subs)

		solved, blocked := countByStatus(subs)
		if solved == len(subs) {
			break
		}

		if blocked > 0 {
			blockedStreak++
		} else {
			blockedStreak = 0
		}

		if blockedStreak >= blockedStreakLimit {
			if e.Mentor != nil {
				mc := BuildMentorContext(question, subs, "subproblems remain blocked")
				verdict, err := e.Mentor.Review(ctx, mc)
				if err != nil {
					logger.Warn("orchestrator: mentor review failed", "error", err)
				} else {
					subs = ApplySeniorMentor(verdict, subs, MaxSubproblems)
					wasEscalated = true
					blockedStreak = 0
					continue
				}
			}
			if allBlocked(subs) {
				break
			}
		}
	}

	if allBlocked(subs) {
		return Outcome{
			Subproblems:  subs,
			Iterations:   iterationsRun,
			WasEscalated: wasEscalated,
			CannotAnswer: true,
		}
	}

	final, err := e.Synthesizer.Synthesize(ctx, subs)
	if err != nil {
		logger.Error("orchestrator: synthesis failed", "error", err)
		return Outcome{
			Subproblems:  subs,
			WasEscalated: wasEscalated,
			CannotAnswer: true,
		}
	}

	return Outcome{
		Final:        final,
		Subproblems:  subs,
		Iterations:   iterationsRun,
		WasEscalated: wasEscalated,
	}
}

// solveAll runs the Solve step over every subproblem that has evidence but
// is not yet terminal, applying the confidence gate (spec §4.6 step 3).
func (e *Engine) solveAll(ctx context.Context, subs []Subproblem) []Subproblem {
	out := append([]Subproblem(nil), subs...)
	for i, sp := range out {
		if sp.Status == StatusSolved || sp.Status == StatusBlocked {
			continue
		}
		if len(sp.Evidence) == 0 {
			continue
		}
		result, err := e.Solver.Solve(ctx, sp)
		if err != nil {
			e.logger().Warn("orchestrator: solve failed", "subproblem_id", sp.ID, "error", err)
			continue
		}
		if result.Confidence >= MinConfidenceForSynthesis {
			out[i].Status = StatusSolved
			out[i].PartialAnswer = result.PartialAnswer
		} else if allProbesRan(sp) {
			out[i].Status = StatusBlocked
			out[i].PartialAnswer = result.PartialAnswer
		}
	}
	return out
}

// allProbesRan reports whether every required probe for sp already has
// evidence recorded — the precondition for giving up and marking it
// Blocked (spec §4.6 step 3: "Else transition to Blocked after all probes
// have run").
func allProbesRan(sp Subproblem) bool {
	return len(sp.Evidence) >= len(sp.RequiredProbes)
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}
