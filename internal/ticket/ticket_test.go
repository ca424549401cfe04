package ticket

import (
	"testing"
	"time"

	"github.com/jjgarcianorway/annad/internal/scorer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketStartsInNewState(t *testing.T) {
	tk := New("is memory ok?", "sysadmin", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, StatusNew, tk.Status)
	assert.NotEmpty(t, tk.ID)
	assert.NotEmpty(t, tk.CaseNumber)
	assert.False(t, tk.IsTerminal())
}

func TestTransitionFollowsLegalPath(t *testing.T) {
	tk := New("q", "team", time.Now())
	require.True(t, tk.Transition(StatusAssigned))
	require.True(t, tk.Transition(StatusInProgress))
	require.True(t, tk.Transition(StatusPendingUser))
	require.True(t, tk.Transition(StatusInProgress))
	require.True(t, tk.Transition(StatusResolved))
	assert.True(t, tk.IsTerminal())
}

func TestTransitionRejectsIllegalJump(t *testing.T) {
	tk := New("q", "team", time.Now())
	assert.False(t, tk.Transition(StatusResolved))
	assert.Equal(t, StatusNew, tk.Status)
}

func TestTransitionNoopOnceTerminal(t *testing.T) {
	tk := New("q", "team", time.Now())
	tk.Transition(StatusAssigned)
	tk.Transition(StatusInProgress)
	tk.Transition(StatusClosed)
	assert.False(t, tk.Transition(StatusResolved))
	assert.Equal(t, StatusClosed, tk.Status)
}

func TestTransitionToEscalatedSetsWasEscalated(t *testing.T) {
	tk := New("q", "team", time.Now())
	tk.Transition(StatusAssigned)
	tk.Transition(StatusInProgress)
	require.True(t, tk.Transition(StatusEscalated))
	assert.True(t, tk.WasEscalated)
}

func TestResolveChoosesResolvedAboveThreshold(t *testing.T) {
	tk := New("q", "team", time.Now())
	tk.Transition(StatusAssigned)
	tk.Transition(StatusInProgress)
	require.True(t, tk.Resolve(scorer.Score{Value: 80, Band: scorer.BandHigh}, 1200, 60))
	assert.Equal(t, StatusResolved, tk.Status)
	require.NotNil(t, tk.Reliability)
	assert.Equal(t, 80, tk.Reliability.Value)
	require.NotNil(t, tk.ResolutionMs)
	assert.Equal(t, uint64(1200), *tk.ResolutionMs)
}

func TestResolveChoosesClosedBelowThreshold(t *testing.T) {
	tk := New("q", "team", time.Now())
	tk.Transition(StatusAssigned)
	tk.Transition(StatusInProgress)
	require.True(t, tk.Resolve(scorer.Score{Value: 20, Band: scorer.BandVeryLow}, 900, 60))
	assert.Equal(t, StatusClosed, tk.Status)
}
