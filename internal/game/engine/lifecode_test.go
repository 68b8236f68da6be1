package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

func TestRotateLifeCodes_OncePerRedLight(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, _ := redLightSnapshot(t, 5, now)
	require.Equal(t, state.RedLightFirstHalf, s.Round.RedLightHalf)

	before := s.LifeCodes.Version
	require.True(t, RotateLifeCodes(s, now))

	assert.Equal(t, before+1, s.LifeCodes.Version)
	assert.Equal(t, state.RedLightSecondHalf, s.Round.RedLightHalf)

	// Second trigger in the same red light is a no-op
	assert.False(t, RotateLifeCodes(s, now))
	assert.Equal(t, before+1, s.LifeCodes.Version)
}

func TestRotateLifeCodes_OnlyDuringRedLight(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, r := startedGame(t, 5, now)
	assert.False(t, RotateLifeCodes(s, now))

	require.True(t, TransitionToGreenLight(s, r, now))
	assert.False(t, RotateLifeCodes(s, now))
}

func TestRotateLifeCodes_SkipsDeadPlayers(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, _ := redLightSnapshot(t, 5, now)

	s.Players[2].Alive = false
	require.True(t, RotateLifeCodes(s, now))

	assert.Len(t, s.LifeCodes.Codes, 4)
	_, hasDead := s.LifeCodes.Codes["p3"]
	assert.False(t, hasDead)

	// Still pairwise distinct
	seen := map[string]bool{}
	for _, code := range s.LifeCodes.Codes {
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestCodeMatches(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s, _ := redLightSnapshot(t, 5, now)

	target := s.Players[1]
	code := s.LifeCodes.Codes[target.SessionID]

	assert.True(t, CodeMatches(s, target, code))
	assert.False(t, CodeMatches(s, target, "xx"))

	// A stale code stops matching after rotation
	require.True(t, RotateLifeCodes(s, now))
	if s.LifeCodes.Codes[target.SessionID] != code {
		assert.False(t, CodeMatches(s, target, code))
	}
}
