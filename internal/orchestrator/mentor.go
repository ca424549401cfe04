package orchestrator

import (
	"context"
	"strconv"
)

// Mentor reviews the current subproblem state when the loop is stuck (spec
// §4.6 step 4).
type Mentor interface {
	Review(ctx context.Context, mc MentorContext) (SeniorMentor, error)
}

// BuildMentorContext snapshots the current state for a mentor escalation.
func BuildMentorContext(question string, subs []Subproblem, issue string) MentorContext {
	solved, blocked := countByStatus(subs)
	return MentorContext{
		OriginalQuestion:   question,
		CurrentSubproblems: append([]Subproblem(nil), subs...),
		SolvedCount:        solved,
		BlockedCount:       blocked,
		SpecificIssue:      issue,
	}
}

// ApplySeniorMentor folds the mentor's verdict into the subproblem list:
// ApproveApproach leaves subs untouched, RefineSubproblems applies
// additions/removals/merges, and SuggestApproach replaces the list
// wholesale with the mentor's key subproblems (spec §4.6 step 4: "Senior
// output is applied to the state").
func ApplySeniorMentor(verdict SeniorMentor, subs []Subproblem, maxSubproblems int) []Subproblem {
	switch verdict.Kind {
	case MentorApproveApproach:
		return subs

	case MentorSuggestApproach:
		return newSubproblemsFromSuggestions(verdict.KeySubproblems, maxSubproblems)

	case MentorRefineSubproblems:
		return refineSubproblems(verdict, subs, maxSubproblems)

	default:
		return subs
	}
}

func refineSubproblems(verdict SeniorMentor, subs []Subproblem, maxSubproblems int) []Subproblem {
	removed := make(map[string]bool, len(verdict.SuggestedRemovals))
	for _, id := range verdict.SuggestedRemovals {
		removed[id] = true
	}

	out := make([]Subproblem, 0, len(subs))
	for _, sp := range subs {
		if removed[sp.ID] {
			continue
		}
		out = append(out, sp)
	}

	for _, merge := range verdict.SuggestedMerges {
		out = applyMerge(out, merge)
	}

	for i, suggestion := range verdict.SuggestedAdditions {
		if len(out) >= maxSubproblems {
			break
		}
		out = append(out, Subproblem{
			ID:             syntheticSubproblemID("mentor", i),
			Description:    suggestion.Description,
			RequiredProbes: suggestion.SuggestedProbes,
			Status:         StatusPending,
		})
	}

	if len(out) > maxSubproblems {
		out = out[:maxSubproblems]
	}
	return out
}

func applyMerge(subs []Subproblem, merge SubproblemMerge) []Subproblem {
	merging := make(map[string]bool, len(merge.MergeIDs))
	for _, id := range merge.MergeIDs {
		merging[id] = true
	}

	out := make([]Subproblem, 0, len(subs))
	merged := false
	for _, sp := range subs {
		if !merging[sp.ID] {
			out = append(out, sp)
			continue
		}
		if !merged {
			out = append(out, Subproblem{
				ID:          sp.ID,
				Description: merge.MergedDescription,
				Status:      StatusPending,
			})
			merged = true
		}
	}
	return out
}

func newSubproblemsFromSuggestions(suggestions []SuggestedSubproblem, maxSubproblems int) []Subproblem {
	if len(suggestions) > maxSubproblems {
		suggestions = suggestions[:maxSubproblems]
	}
	out := make([]Subproblem, 0, len(suggestions))
	for i, s := range suggestions {
		out = append(out, Subproblem{
			ID:             syntheticSubproblemID("approach", i),
			Description:    s.Description,
			RequiredProbes: s.SuggestedProbes,
			Status:         StatusPending,
		})
	}
	return out
}

func syntheticSubproblemID(prefix string, index int) string {
	return prefix + "-" + strconv.Itoa(index)
}
