package engine

import (
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// TickOxygen 每秒刷新一次存活玩家的氧气显示值。
// 真实值始终由基准推导，tick 只负责把向上取整后的显示值写回快照。
func TickOxygen(s *state.Snapshot, now time.Time) bool {
	if s.Frozen() || !s.OxygenDraining() {
		return false
	}

	nowMs := now.UnixMilli()
	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		p.Oxygen.Display = state.Ceil(p.Oxygen.ValueAt(nowMs))
	}
	return true
}

// CheckOxygenDeath 返回本 tick 氧气归零的玩家并标记死亡。
// 死亡记录默认不公开，留待会议披露。
func CheckOxygenDeath(s *state.Snapshot, now time.Time) []*state.Player {
	if s.Frozen() || !s.OxygenDraining() {
		return nil
	}

	nowMs := now.UnixMilli()
	var dead []*state.Player
	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		if p.Oxygen.ValueAt(nowMs) > 0 {
			continue
		}
		p.Alive = false
		p.Oxygen.Rebase(0, nowMs)
		s.Deaths = append(s.Deaths, state.DeathRecord{
			PlayerID: p.SessionID,
			Seat:     p.Seat,
			Cause:    state.DeathCauseOxygen,
			Location: p.Location,
			Round:    s.RoundCount,
		})
		dead = append(dead, p)
	}
	return dead
}
