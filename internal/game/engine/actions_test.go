package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// redLightSnapshot drives n players into red light with everyone
// at a known location.
func redLightSnapshot(t *testing.T, n int, now time.Time) (*state.Snapshot, Rules) {
	t.Helper()
	s, r := startedGame(t, n, now)
	require.True(t, TransitionToGreenLight(s, r, now))
	for _, p := range s.Players {
		p.TargetLocation = s.ActiveLocations[0]
	}
	require.True(t, TransitionToYellowLight(s, r, now))
	require.True(t, TransitionToRedLight(s, r, now))
	return s, r
}

func TestResolveKill(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, _ := redLightSnapshot(t, 5, now)

	killer, target := s.Players[0], s.Players[1]
	ResolveKill(s, killer, target, now)

	assert.False(t, target.Alive)
	assert.True(t, killer.UsedKill)

	// The death stays hidden until a meeting reveals it
	require.Len(t, s.Deaths, 1)
	d := s.Deaths[0]
	assert.False(t, d.Revealed)
	assert.Equal(t, state.DeathCauseKill, d.Cause)
	assert.Equal(t, killer.SessionID, d.KillerID)
	assert.Equal(t, target.Location, d.Location)
}

func TestResolveAssist_TransfersUpToConfiguredAmount(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := redLightSnapshot(t, 5, now)
	nowMs := now.UnixMilli()

	actor, target := s.Players[0], s.Players[1]
	target.Oxygen.Rebase(100, nowMs)

	amount := ResolveAssist(s, r, actor, target, now)

	assert.Equal(t, r.AssistOxygen, amount)
	assert.Equal(t, r.OxygenMax-r.AssistOxygen, actor.Oxygen.BaseValue)
	assert.Equal(t, 100+r.AssistOxygen, target.Oxygen.BaseValue)
	assert.True(t, actor.AssistedTargets[target.SessionID])
}

func TestResolveAssist_CappedByTargetHeadroom(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := redLightSnapshot(t, 5, now)
	nowMs := now.UnixMilli()

	actor, target := s.Players[0], s.Players[1]
	// Target is only 20 below the ceiling
	target.Oxygen.Rebase(r.OxygenMax-20, nowMs)

	amount := ResolveAssist(s, r, actor, target, now)
	assert.Equal(t, 20.0, amount)
	assert.Equal(t, r.OxygenMax, target.Oxygen.BaseValue)
}

func TestResolveAssist_CappedByActorReserve(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := redLightSnapshot(t, 5, now)
	nowMs := now.UnixMilli()

	actor, target := s.Players[0], s.Players[1]
	actor.Oxygen.Rebase(15, nowMs)
	target.Oxygen.Rebase(100, nowMs)

	amount := ResolveAssist(s, r, actor, target, now)
	assert.Equal(t, 15.0, amount)
	assert.Equal(t, 0.0, actor.Oxygen.BaseValue)
	assert.Equal(t, 115.0, target.Oxygen.BaseValue)
}

func TestStartTask_StateMachine(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, _ := redLightSnapshot(t, 5, now)

	first, second := s.Players[0], s.Players[1]

	task := StartTask(s, first, now)
	assert.Equal(t, state.TaskWaiting, task.Status)
	assert.Equal(t, first.SessionID, task.StarterID)

	// The starter joining again does not activate the task
	task = StartTask(s, first, now)
	assert.Equal(t, state.TaskWaiting, task.Status)
	assert.Len(t, task.Participants, 1)

	// A second participant flips it to active
	task = StartTask(s, second, now)
	assert.Equal(t, state.TaskActive, task.Status)
	assert.ElementsMatch(t, []string{first.SessionID, second.SessionID}, task.Participants)
}

func TestCompleteTask_SuccessRefillsParticipants(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := redLightSnapshot(t, 5, now)
	nowMs := now.UnixMilli()

	first, second := s.Players[0], s.Players[1]
	first.Oxygen.Rebase(100, nowMs)
	second.Oxygen.Rebase(r.OxygenMax-10, nowMs)

	StartTask(s, first, now)
	task := StartTask(s, second, now)
	require.Equal(t, state.TaskActive, task.Status)

	CompleteTask(s, r, task, true, now)

	assert.Equal(t, state.TaskResolved, task.Status)
	require.NotNil(t, task.Success)
	assert.True(t, *task.Success)
	assert.Equal(t, 100+r.TaskRefill, first.Oxygen.BaseValue)
	// Refill never overflows the ceiling
	assert.Equal(t, r.OxygenMax, second.Oxygen.BaseValue)
	// Bystanders untouched
	assert.Equal(t, r.OxygenMax, s.Players[2].Oxygen.BaseValue)
}

func TestCompleteTask_FailureLeaksLocation(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := redLightSnapshot(t, 5, now)

	first, second := s.Players[0], s.Players[1]
	StartTask(s, first, now)
	task := StartTask(s, second, now)

	// Move one player away before the failure lands
	s.Players[4].Location = s.ActiveLocations[1]

	CompleteTask(s, r, task, false, now)

	for _, p := range s.Players[:4] {
		assert.Equal(t, r.OxygenDrain+r.LeakDrain, p.Oxygen.DrainRate, "seat %d", p.Seat)
	}
	assert.Equal(t, r.OxygenDrain, s.Players[4].Oxygen.DrainRate)
}
