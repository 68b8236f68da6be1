package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/config"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

func testRules() Rules {
	return RulesFromConfig(&config.Default().Game)
}

// newLobby builds a lobby snapshot with n seated players p1..pn.
func newLobby(n int) *state.Snapshot {
	s := state.New("123456")
	for i := 1; i <= n; i++ {
		s.Players = append(s.Players, &state.Player{
			Seat:      i,
			SessionID: fmt.Sprintf("p%d", i),
			Name:      fmt.Sprintf("Player%d", i),
			Alive:     true,
		})
	}
	return s
}

// startedGame builds a snapshot that already passed role assignment.
func startedGame(t *testing.T, n int, now time.Time) (*state.Snapshot, Rules) {
	t.Helper()
	s := newLobby(n)
	r := testRules()
	require.True(t, StartGame(s, r, now))
	return s, r
}

func TestStartGame(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 8, now)

	assert.Equal(t, state.PhaseRoleReveal, s.Phase)
	assert.Equal(t, now.UnixMilli()+r.RoleReveal.Milliseconds(), s.Deadline)

	ducks := 0
	for _, p := range s.Players {
		require.NotEmpty(t, p.Role)
		if p.Role == state.RoleDuck {
			ducks++
		}
		assert.True(t, p.Alive)
		assert.Equal(t, r.OxygenMax, p.Oxygen.BaseValue)
		assert.Equal(t, r.OxygenDrain, p.Oxygen.DrainRate)
	}
	assert.Equal(t, 2, ducks) // 8 players / ratio 4

	// Life codes: one per player, pairwise distinct, version bumped
	assert.Equal(t, 1, s.LifeCodes.Version)
	assert.Len(t, s.LifeCodes.Codes, 8)
	seen := map[string]bool{}
	for _, code := range s.LifeCodes.Codes {
		assert.Len(t, code, 2)
		assert.False(t, seen[code], "life codes must be pairwise distinct")
		seen[code] = true
	}

	assert.GreaterOrEqual(t, len(s.ActiveLocations), 3)
}

func TestStartGame_OnlyFromLobby(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	assert.False(t, StartGame(s, r, now))
}

func TestDuckCount(t *testing.T) {
	t.Parallel()

	r := testRules()
	assert.Equal(t, 1, r.DuckCount(5)) // floor(5/4) = 1
	assert.Equal(t, 2, r.DuckCount(8))
	assert.Equal(t, 1, r.DuckCount(3)) // at least one duck
}

func TestTransitionToGreenLight_ResetsRound(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)

	s.Players[0].UsedKill = true
	s.Players[1].AssistedTargets = map[string]bool{"p1": true}
	s.Meeting = &state.MeetingState{Trigger: "auto"}
	s.Tasks["dock"] = &state.TaskState{Location: "dock", Status: state.TaskActive}

	require.True(t, TransitionToGreenLight(s, r, now))

	assert.Equal(t, state.PhaseGreenLight, s.Phase)
	assert.Equal(t, 1, s.RoundCount)
	assert.Nil(t, s.Meeting)
	assert.Empty(t, s.Tasks)
	assert.False(t, s.Players[0].UsedKill)
	assert.Nil(t, s.Players[1].AssistedTargets)

	// Roles and codes survive the round boundary
	assert.NotEmpty(t, s.Players[0].Role)
	assert.Len(t, s.LifeCodes.Codes, 5)
}

func TestTransitionToGreenLight_WrongPhase(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	require.True(t, TransitionToGreenLight(s, r, now))

	// green -> green is not a legal transition
	assert.False(t, TransitionToGreenLight(s, r, now))
	assert.Equal(t, 1, s.RoundCount)
}

func TestTransitionToYellowLight_LocksLocations(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	require.True(t, TransitionToGreenLight(s, r, now))

	s.Players[0].TargetLocation = s.ActiveLocations[2]

	require.True(t, TransitionToYellowLight(s, r, now))
	assert.Equal(t, state.PhaseYellow, s.Phase)

	// Explicit choice is kept
	assert.Equal(t, s.ActiveLocations[2], s.Players[0].Location)

	// Everyone without a choice got a deterministic location from the pool
	for _, p := range s.Players[1:] {
		assert.Contains(t, s.ActiveLocations, p.Location)
	}
	// Seat-based fallback is deterministic
	assert.Equal(t, s.ActiveLocations[1], s.Players[1].Location)
}

func TestRedLightRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	require.True(t, TransitionToGreenLight(s, r, now))
	require.True(t, TransitionToYellowLight(s, r, now))
	require.True(t, TransitionToRedLight(s, r, now))

	assert.Equal(t, state.PhaseRedLight, s.Phase)
	assert.Equal(t, state.RedLightFirstHalf, s.Round.RedLightHalf)

	// No bodies: red light flows straight into the next round
	require.True(t, AdvanceAfterRedLight(s, r, now))
	assert.Equal(t, state.PhaseGreenLight, s.Phase)
	assert.Equal(t, 2, s.RoundCount)
}

func TestAdvanceAfterRedLight_AutoMeeting(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	require.True(t, TransitionToGreenLight(s, r, now))
	require.True(t, TransitionToYellowLight(s, r, now))
	require.True(t, TransitionToRedLight(s, r, now))

	s.Players[1].Alive = false
	s.Deaths = append(s.Deaths, state.DeathRecord{
		PlayerID: "p2", Seat: 2, Cause: state.DeathCauseKill, Location: s.Players[1].Location,
	})

	require.True(t, AdvanceAfterRedLight(s, r, now))
	assert.Equal(t, state.PhaseMeeting, s.Phase)
	require.NotNil(t, s.Meeting)
	assert.Equal(t, "auto", s.Meeting.Trigger)
	assert.Empty(t, s.Meeting.InitiatorID)

	// Meeting reveals every pending death
	for _, d := range s.Deaths {
		assert.True(t, d.Revealed)
	}
}

func TestExtendMeeting_OnlyOnce(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	require.True(t, TransitionToGreenLight(s, r, now))
	require.True(t, TransitionToYellowLight(s, r, now))
	require.True(t, TransitionToRedLight(s, r, now))
	require.True(t, StartMeeting(s, r, now, "report", "p1"))

	deadline := s.Deadline
	require.True(t, ExtendMeeting(s, r))
	assert.Equal(t, deadline+r.MeetingExt.Milliseconds(), s.Deadline)

	assert.False(t, ExtendMeeting(s, r))
	assert.Equal(t, deadline+r.MeetingExt.Milliseconds(), s.Deadline)
}

func TestTransitionToVoting_EligibleSnapshot(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	require.True(t, TransitionToGreenLight(s, r, now))
	require.True(t, TransitionToYellowLight(s, r, now))
	require.True(t, TransitionToRedLight(s, r, now))

	s.Players[2].Alive = false
	require.True(t, StartMeeting(s, r, now, "auto", ""))
	require.True(t, TransitionToVoting(s, r, now))

	require.NotNil(t, s.Voting)
	assert.ElementsMatch(t, []string{"p1", "p2", "p4", "p5"}, s.Voting.Eligible)
	assert.Nil(t, s.Meeting)
}

func TestTogglePause(t *testing.T) {
	t.Parallel()

	start := time.UnixMilli(1_000_000)
	s, r := startedGame(t, 5, start)
	require.True(t, TransitionToGreenLight(s, r, start))

	deadline := s.Deadline
	p := s.Players[0]

	// Pause 10s into the phase
	pauseAt := start.Add(10 * time.Second)
	require.True(t, TogglePause(s, pauseAt))
	assert.True(t, s.Paused)
	assert.Equal(t, deadline-pauseAt.UnixMilli(), s.PauseRemainingMs)

	// Oxygen froze at the derived value
	frozen := p.Oxygen.BaseValue
	assert.Equal(t, r.OxygenMax-10, frozen)
	assert.Equal(t, frozen, s.OxygenAt(p, pauseAt.Add(time.Hour).UnixMilli()))

	// Resume an hour later: remaining time is restored, oxygen untouched
	resumeAt := pauseAt.Add(time.Hour)
	require.True(t, TogglePause(s, resumeAt))
	assert.False(t, s.Paused)
	assert.Equal(t, resumeAt.UnixMilli()+(deadline-pauseAt.UnixMilli()), s.Deadline)
	assert.Equal(t, frozen, p.Oxygen.BaseValue)

	// The rotation anchor shifted by the paused span
	assert.Equal(t, start.UnixMilli()+time.Hour.Milliseconds(), s.PhaseStartedAt)
}

func TestTogglePause_NotInLobby(t *testing.T) {
	t.Parallel()

	s := newLobby(5)
	assert.False(t, TogglePause(s, time.Now()))
}
