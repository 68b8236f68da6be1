package engine

import (
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// 终局原因
const (
	WinReasonDucksEliminated = "all_ducks_eliminated" // 鸭子全部出局
	WinReasonDucksOutnumber  = "ducks_outnumber"      // 鸭子人数追平存活鹅
	WinReasonNoSurvivors     = "no_survivors"         // 无人生还
)

// CheckWinCondition 对玩家与死亡记录的纯谓词，满足则返回终局结果。
// 每次重新审视房间时都先于任何阶段动作求值，
// 阶段中途的死亡（例如氧气耗尽）也能立即终结整局。
func CheckWinCondition(s *state.Snapshot) *state.GameResult {
	if s.Frozen() {
		return nil
	}
	// 身份尚未分配时谓词无意义
	if s.Phase == state.PhaseLobby || s.Phase == state.PhaseRoleReveal {
		return nil
	}

	geese, ducks := s.LivingByFaction()

	switch {
	case ducks == 0 && geese == 0:
		return &state.GameResult{Winner: state.FactionDuck, Reason: WinReasonNoSurvivors}
	case ducks == 0:
		return &state.GameResult{Winner: state.FactionGoose, Reason: WinReasonDucksEliminated}
	case ducks >= geese:
		return &state.GameResult{Winner: state.FactionDuck, Reason: WinReasonDucksOutnumber}
	}
	return nil
}

// FinalizeGame 设置终局结果并进入 game_over。幂等：已终局的快照原样保留。
func FinalizeGame(s *state.Snapshot, result *state.GameResult, now time.Time) bool {
	if s.Frozen() || result == nil {
		return false
	}

	nowMs := now.UnixMilli()
	s.RebaseOxygen(nowMs)

	result.EndedAt = nowMs
	s.GameResult = result
	s.Phase = state.PhaseGameOver
	s.Deadline = 0
	s.Paused = false
	s.PauseRemainingMs = 0
	return true
}
