package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// votingSnapshot puts n living players straight into the voting phase.
func votingSnapshot(t *testing.T, n int, now time.Time) (*state.Snapshot, Rules) {
	t.Helper()
	s, r := startedGame(t, n, now)
	require.True(t, TransitionToGreenLight(s, r, now))
	require.True(t, TransitionToYellowLight(s, r, now))
	require.True(t, TransitionToRedLight(s, r, now))
	require.True(t, StartMeeting(s, r, now, "auto", ""))
	require.True(t, TransitionToVoting(s, r, now))
	return s, r
}

func TestAllVoted(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, _ := votingSnapshot(t, 5, now)

	assert.False(t, AllVoted(s))
	for _, id := range s.Voting.Eligible {
		SubmitVote(s, id, "", now)
	}
	assert.True(t, AllVoted(s))
}

func TestResolveVotes_UniquePlurality(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := votingSnapshot(t, 5, now)

	// 3 votes against p3, 1 against p1, 1 abstain: p3 is executed
	SubmitVote(s, "p1", "p3", now)
	SubmitVote(s, "p2", "p3", now)
	SubmitVote(s, "p4", "p3", now)
	SubmitVote(s, "p5", "p1", now)
	SubmitVote(s, "p3", "", now)

	require.True(t, ResolveVotes(s, r, now, false))

	assert.Equal(t, state.PhaseExecution, s.Phase)
	require.NotNil(t, s.Execution)
	assert.Equal(t, state.ExecReasonVote, s.Execution.Reason)
	assert.Equal(t, "p3", s.Execution.ExecutedID)

	executed := s.PlayerByID("p3")
	assert.False(t, executed.Alive)

	// Executions are public immediately
	require.Len(t, s.Deaths, 1)
	assert.Equal(t, state.DeathCauseVote, s.Deaths[0].Cause)
	assert.True(t, s.Deaths[0].Revealed)

	// History records the round
	require.Len(t, s.VotingHistory, 1)
	assert.Equal(t, "p3", s.VotingHistory[0].ExecutedID)
	assert.Len(t, s.VotingHistory[0].Votes, 5)
}

func TestResolveVotes_Tie(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := votingSnapshot(t, 5, now)

	SubmitVote(s, "p1", "p3", now)
	SubmitVote(s, "p2", "p3", now)
	SubmitVote(s, "p3", "p1", now)
	SubmitVote(s, "p4", "p1", now)
	SubmitVote(s, "p5", "p2", now)

	require.True(t, ResolveVotes(s, r, now, false))
	assert.Equal(t, state.ExecReasonTie, s.Execution.Reason)
	assert.Empty(t, s.Execution.ExecutedID)
	assert.Empty(t, s.Deaths)
	assert.Len(t, s.LivingPlayers(), 5)
}

func TestResolveVotes_QuorumMiss(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := votingSnapshot(t, 5, now)

	// Only 2 real votes among 5 eligible: below the majority quorum of 3,
	// even though both point at the same target
	SubmitVote(s, "p1", "p3", now)
	SubmitVote(s, "p2", "p3", now)
	SubmitVote(s, "p3", "", now)
	SubmitVote(s, "p4", "", now)
	SubmitVote(s, "p5", "", now)

	require.True(t, ResolveVotes(s, r, now, false))
	assert.Equal(t, state.ExecReasonSkip, s.Execution.Reason)
	assert.Empty(t, s.Execution.ExecutedID)
	assert.True(t, s.PlayerByID("p3").Alive)
}

func TestResolveVotes_ForcedFillsAbsenteesAsAbstain(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := votingSnapshot(t, 5, now)

	// Two voters act, three go silent until the deadline
	SubmitVote(s, "p1", "p3", now)
	SubmitVote(s, "p2", "p3", now)

	require.True(t, ResolveVotes(s, r, now, true))

	// Absentees counted as abstain: quorum missed
	assert.Equal(t, state.ExecReasonSkip, s.Execution.Reason)
	require.Len(t, s.VotingHistory, 1)
	assert.Len(t, s.VotingHistory[0].Votes, 5)
}

func TestResolveVotes_IncompleteWithoutForce(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := votingSnapshot(t, 5, now)

	SubmitVote(s, "p1", "p3", now)
	assert.False(t, ResolveVotes(s, r, now, false))
	assert.Equal(t, state.PhaseVoting, s.Phase)
}

func TestResolveVotes_WrongPhase(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	assert.False(t, ResolveVotes(s, r, now, true))
}

func TestTally(t *testing.T) {
	t.Parallel()

	v := &state.VotingState{Votes: map[string]state.Vote{
		"p1": {VoterID: "p1", TargetID: "p3"},
		"p2": {VoterID: "p2", TargetID: "p3"},
		"p3": {VoterID: "p3"},
		"p4": {VoterID: "p4", TargetID: "p1"},
	}}

	tally, skips := Tally(v)
	assert.Equal(t, 1, skips)
	assert.Equal(t, map[string]int{"p3": 2, "p1": 1}, tally)
}
