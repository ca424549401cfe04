// Package orchestrator implements the bounded subproblem-decomposition loop
// (spec §4.6): decompose the question into subproblems, run probes per
// subproblem, solve each with LLM assistance, escalate blocked subproblems
// to a senior mentor, and synthesize a final answer once the iteration
// budget or the solved set allows it.
package orchestrator

// SubproblemStatus is the closed set of states a Subproblem moves through.
type SubproblemStatus string

const (
	StatusPending    SubproblemStatus = "pending"
	StatusInProgress SubproblemStatus = "in_progress"
	StatusSolved     SubproblemStatus = "solved"
	StatusBlocked    SubproblemStatus = "blocked"
)

// Subproblem is a scoped question with its own probe set and status, owned
// by a ticket (spec §3).
type Subproblem struct {
	ID             string
	Description    string
	RequiredProbes []string
	RelevantFacts  []string
	Status         SubproblemStatus
	Evidence       []string
	PartialAnswer  string
}

// KnownFact is a fact-store hint surfaced to the decomposition step.
type KnownFact struct {
	Key          string
	Value        string
	Trust        float64
	LastVerified string
}

// JuniorDecomposition is the LLM's breakdown of the question into
// subproblems (spec §4.6 step 1).
type JuniorDecomposition struct {
	Subproblems            []Subproblem
	KnownFacts             []KnownFact
	DecompositionComplete  bool
	Reasoning              string
}

// SolveSubproblem is the LLM's verdict on one subproblem after its probes
// have run (spec §4.6 step 3).
type SolveSubproblem struct {
	SubproblemID  string
	PartialAnswer string
	Confidence    uint8
}

// MentorContext is handed to the senior mentor when escalating (spec §4.6
// step 4).
type MentorContext struct {
	OriginalQuestion   string
	CurrentSubproblems []Subproblem
	SolvedCount        int
	BlockedCount       int
	SpecificIssue      string
}

// MentorResponseKind distinguishes the shape of a SeniorMentor response.
type MentorResponseKind string

const (
	MentorApproveApproach   MentorResponseKind = "approve_approach"
	MentorRefineSubproblems MentorResponseKind = "refine_subproblems"
	MentorSuggestApproach   MentorResponseKind = "suggest_approach"
)

// SuggestedSubproblem is a subproblem proposed by the senior mentor.
type SuggestedSubproblem struct {
	Description     string
	SuggestedProbes []string
	Reason          string
}

// SubproblemMerge folds several subproblem ids into one.
type SubproblemMerge struct {
	MergeIDs          []string
	MergedDescription string
	Reason            string
}

// SeniorMentor is the senior reviewer's verdict when escalated.
type SeniorMentor struct {
	Kind                MentorResponseKind
	Feedback            string
	SuggestedAdditions  []SuggestedSubproblem
	SuggestedRemovals   []string
	SuggestedMerges     []SubproblemMerge
	NewApproach         string
	KeySubproblems      []SuggestedSubproblem
}

// SubproblemSummary feeds the synthesis step.
type SubproblemSummary struct {
	ID          string
	Description string
	Answer      string
	ProbesUsed  []string
}

// Scores is the orchestrator's internal self-assessment, used only to drive
// Solve/Synthesize decisions — not the user-visible reliability score (spec
// §9: "internal hints to the orchestrator, not user-visible").
type Scores struct {
	EvidenceCoverage    uint8
	ReasoningConfidence uint8
	SubproblemCoverage  uint8
	Overall             uint8
}

// SynthesizeResult is the final answer assembled from solved subproblems
// (spec §4.6 step 5).
type SynthesizeResult struct {
	Text                 string
	SubproblemSummaries  []SubproblemSummary
	Scores               Scores
}

// Outcome is the terminal result of a Run call.
type Outcome struct {
	Final           SynthesizeResult
	Subproblems     []Subproblem
	Iterations      int
	WasEscalated    bool
	CannotAnswer    bool
}
