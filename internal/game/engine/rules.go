package engine

import (
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/config"
)

// 默认地点池，按玩家数截取前若干个作为本局可用地点
var defaultLocations = []string{"dock", "forest", "cabin", "lake", "meadow", "cave"}

// Rules 一局游戏的全部数值规则，从配置构建后只读
type Rules struct {
	DuckRatio int // 每多少名玩家分配一只鸭子

	RoleReveal  time.Duration
	GreenLight  time.Duration
	YellowLight time.Duration
	RedLight    time.Duration
	Meeting     time.Duration
	MeetingExt  time.Duration
	Voting      time.Duration
	Execution   time.Duration

	OxygenMax    float64
	OxygenDrain  float64
	AssistOxygen float64
	TaskRefill   float64
	LeakDrain    float64
}

// RulesFromConfig 由游戏配置构建规则
func RulesFromConfig(g *config.GameConfig) Rules {
	return Rules{
		DuckRatio:    g.DuckRatio,
		RoleReveal:   g.RoleRevealDuration(),
		GreenLight:   g.GreenLightDuration(),
		YellowLight:  g.YellowLightDuration(),
		RedLight:     g.RedLightDuration(),
		Meeting:      g.MeetingDuration(),
		MeetingExt:   g.MeetingExtDuration(),
		Voting:       g.VotingDuration(),
		Execution:    g.ExecutionDuration(),
		OxygenMax:    g.OxygenMax,
		OxygenDrain:  g.OxygenDrain,
		AssistOxygen: g.AssistOxygen,
		TaskRefill:   g.TaskRefill,
		LeakDrain:    g.LeakDrain,
	}
}

// DuckCount 按玩家数计算鸭子数量，至少一只
func (r Rules) DuckCount(players int) int {
	n := players / r.DuckRatio
	if n < 1 {
		n = 1
	}
	return n
}

// Locations 按玩家数选出本局地点
func Locations(players int) []string {
	n := players/2 + 1
	if n < 3 {
		n = 3
	}
	if n > len(defaultLocations) {
		n = len(defaultLocations)
	}
	locs := make([]string, n)
	copy(locs, defaultLocations[:n])
	return locs
}
