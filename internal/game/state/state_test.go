package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOxygenValueAt(t *testing.T) {
	t.Parallel()

	o := OxygenState{BaseValue: 300, DrainRate: 1, BaseTimestamp: 10_000}

	assert.Equal(t, 300.0, o.ValueAt(10_000))
	assert.Equal(t, 299.5, o.ValueAt(10_500))
	assert.Equal(t, 270.0, o.ValueAt(40_000))

	// Clock skew before the base timestamp must not inflate the value
	assert.Equal(t, 300.0, o.ValueAt(5_000))

	// Never below zero
	assert.Equal(t, 0.0, o.ValueAt(10_000+400_000))
}

func TestOxygenCeil(t *testing.T) {
	t.Parallel()

	// A player at 269.1 still shows 270 until the full second elapses
	assert.Equal(t, 270, Ceil(269.1))
	assert.Equal(t, 270, Ceil(270.0))
	assert.Equal(t, 0, Ceil(0.0))
	assert.Equal(t, 1, Ceil(0.2))
}

func TestOxygenRebase(t *testing.T) {
	t.Parallel()

	o := OxygenState{BaseValue: 300, DrainRate: 2, BaseTimestamp: 0}
	o.Rebase(o.ValueAt(30_000), 30_000)

	assert.Equal(t, 240.0, o.BaseValue)
	assert.Equal(t, int64(30_000), o.BaseTimestamp)
	assert.Equal(t, 240, o.Display)
	// Derivation continues seamlessly from the new base
	assert.Equal(t, 238.0, o.ValueAt(31_000))
}

func TestOxygenAt_FrozenOutsideMovement(t *testing.T) {
	t.Parallel()

	s := New("123456")
	p := &Player{Seat: 1, SessionID: "p1", Alive: true,
		Oxygen: OxygenState{BaseValue: 100, DrainRate: 1, BaseTimestamp: 0}}
	s.Players = append(s.Players, p)

	// Meetings freeze oxygen at the base value no matter how much
	// wall clock time passes
	s.Phase = PhaseMeeting
	assert.Equal(t, 100.0, s.OxygenAt(p, 50_000))

	// Movement phases derive from the base
	s.Phase = PhaseRedLight
	assert.Equal(t, 50.0, s.OxygenAt(p, 50_000))

	// Pause freezes even during movement
	s.Paused = true
	assert.Equal(t, 100.0, s.OxygenAt(p, 50_000))
}

func TestUnrevealedDeaths(t *testing.T) {
	t.Parallel()

	s := New("123456")
	s.Deaths = []DeathRecord{
		{PlayerID: "p1", Location: "dock", Revealed: true},
		{PlayerID: "p2", Location: "cabin"},
		{PlayerID: "p3", Location: "dock"},
	}

	require.Equal(t, []int{1, 2}, s.UnrevealedDeaths())
	assert.True(t, s.UnrevealedDeathAt("cabin"))
	assert.True(t, s.UnrevealedDeathAt("dock"))
	assert.False(t, s.UnrevealedDeathAt("lake"))
}

func TestLivingByFaction(t *testing.T) {
	t.Parallel()

	s := New("123456")
	s.Players = []*Player{
		{Seat: 1, Role: RoleGoose, Alive: true},
		{Seat: 2, Role: RoleGoose, Alive: false},
		{Seat: 3, Role: RoleDuck, Alive: true},
		{Seat: 4, Role: RoleGoose, Alive: true},
	}

	geese, ducks := s.LivingByFaction()
	assert.Equal(t, 2, geese)
	assert.Equal(t, 1, ducks)
}

func TestRoleFaction(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FactionDuck, RoleDuck.Faction())
	assert.Equal(t, FactionGoose, RoleGoose.Faction())
}

func TestPhaseIsMovement(t *testing.T) {
	t.Parallel()

	assert.True(t, PhaseGreenLight.IsMovement())
	assert.True(t, PhaseYellow.IsMovement())
	assert.True(t, PhaseRedLight.IsMovement())
	assert.False(t, PhaseMeeting.IsMovement())
	assert.False(t, PhaseVoting.IsMovement())
	assert.False(t, PhaseLobby.IsMovement())
}
