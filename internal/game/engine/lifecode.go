package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// assignLifeCodes 为所有存活玩家分配两两不同的两位数字码并递增版本号
func assignLifeCodes(s *state.Snapshot) {
	// 00..99 共 100 个码，远多于房间上限
	perm := rand.Perm(100)

	codes := make(map[string]string, len(s.Players))
	i := 0
	for _, p := range s.Players {
		if !p.Alive && s.Phase != state.PhaseLobby {
			continue
		}
		codes[p.SessionID] = fmt.Sprintf("%02d", perm[i])
		i++
	}

	s.LifeCodes.Codes = codes
	s.LifeCodes.Version++
}

// RotateLifeCodes 红灯半场换码。只在前半场触发一次，
// 触发后翻转半场标记，保证本轮不会重复换码。
func RotateLifeCodes(s *state.Snapshot, now time.Time) bool {
	if s.Frozen() || s.Phase != state.PhaseRedLight {
		return false
	}
	if s.Round.RedLightHalf != state.RedLightFirstHalf {
		return false
	}

	assignLifeCodes(s)
	s.Round.RedLightHalf = state.RedLightSecondHalf
	return true
}

// CodeMatches 校验提交的码是否是目标玩家的当前生命码
func CodeMatches(s *state.Snapshot, target *state.Player, code string) bool {
	current, ok := s.LifeCodes.Codes[target.SessionID]
	return ok && current == code
}
