// Package ticket implements the lifecycle unit of work from query to final
// answer (spec §3, §4).
package ticket

import (
	"time"

	"github.com/google/uuid"

	"github.com/jjgarcianorway/annad/internal/orchestrator"
	"github.com/jjgarcianorway/annad/internal/scorer"
	"github.com/jjgarcianorway/annad/internal/transcript"
)

// Status is one of the closed set of ticket lifecycle states (spec §3:
// "New → Assigned → InProgress → (PendingUser | Escalated) →
// (Resolved | Closed)").
type Status string

const (
	StatusNew         Status = "new"
	StatusAssigned    Status = "assigned"
	StatusInProgress  Status = "in_progress"
	StatusPendingUser Status = "pending_user"
	StatusEscalated   Status = "escalated"
	StatusResolved    Status = "resolved"
	StatusClosed      Status = "closed"
)

// terminal is the closed set of states a ticket cannot leave.
var terminal = map[Status]bool{
	StatusResolved: true,
	StatusClosed:   true,
}

// transitions enumerates the only legal status-to-status moves.
var transitions = map[Status][]Status{
	StatusNew:         {StatusAssigned},
	StatusAssigned:    {StatusInProgress},
	StatusInProgress:  {StatusPendingUser, StatusEscalated, StatusResolved, StatusClosed},
	StatusPendingUser: {StatusInProgress, StatusClosed},
	StatusEscalated:   {StatusInProgress, StatusResolved, StatusClosed},
}

// Ticket is the state machine owning one query's processing (spec §3).
type Ticket struct {
	ID           string
	CaseNumber   string
	Query        string
	Team         string
	Status       Status
	WasEscalated bool
	ResolutionMs *uint64
	Reliability  *scorer.Score
	Subproblems  []orchestrator.Subproblem
	Transcript   *transcript.Transcript
	CreatedAt    time.Time
}

// New opens a ticket in the New state, carrying a freshly generated id and
// case number.
func New(query, team string, now time.Time) *Ticket {
	id := uuid.NewString()
	return &Ticket{
		ID:         id,
		CaseNumber: caseNumberFrom(id, now),
		Query:      query,
		Team:       team,
		Status:     StatusNew,
		Transcript: transcript.New(),
		CreatedAt:  now,
	}
}

func caseNumberFrom(id string, now time.Time) string {
	return now.Format("20060102") + "-" + id[:8]
}

// Transition moves the ticket to next if the move is legal, recording the
// attempt's validity. It is a no-op (returning false) on an illegal move or
// once the ticket has reached a terminal state.
func (t *Ticket) Transition(next Status) bool {
	if terminal[t.Status] {
		return false
	}
	for _, allowed := range transitions[t.Status] {
		if allowed == next {
			t.Status = next
			if next == StatusEscalated {
				t.WasEscalated = true
			}
			return true
		}
	}
	return false
}

// IsTerminal reports whether the ticket has reached Resolved or Closed.
func (t *Ticket) IsTerminal() bool {
	return terminal[t.Status]
}

// Resolve closes out the ticket with its final reliability score and
// elapsed resolution time, choosing Resolved vs. Closed per spec §4.6 step
// 6: "Resolved if confidence >= threshold, else Closed".
func (t *Ticket) Resolve(score scorer.Score, resolutionMs uint64, resolvedThreshold int) bool {
	final := StatusClosed
	if score.Value >= resolvedThreshold {
		final = StatusResolved
	}
	if !t.Transition(final) {
		return false
	}
	t.Reliability = &score
	t.ResolutionMs = &resolutionMs
	return true
}
