// Package engine 实现单个房间的阶段状态机与动作结算。
//
// 所有转换函数都以当前快照为输入原地推进到下一个合法状态。
// 对不适用阶段的调用一律静默忽略并返回 false：过期计时器回调
// 竞争早退路径是预期现象，不是错误信号。
package engine

import (
	"math/rand/v2"
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// StartGame 从 lobby 进入亮身份阶段：分配身份、初始化氧气与生命码
func StartGame(s *state.Snapshot, r Rules, now time.Time) bool {
	if s.Engine != state.EngineJoker || s.Phase != state.PhaseLobby || s.Frozen() {
		return false
	}

	nowMs := now.UnixMilli()

	// 随机分配鸭子
	ducks := r.DuckCount(len(s.Players))
	order := rand.Perm(len(s.Players))
	for i, idx := range order {
		if i < ducks {
			s.Players[idx].Role = state.RoleDuck
		} else {
			s.Players[idx].Role = state.RoleGoose
		}
	}

	// 初始化玩家状态
	s.ActiveLocations = Locations(len(s.Players))
	for _, p := range s.Players {
		p.Alive = true
		p.Oxygen = state.OxygenState{
			BaseValue:     r.OxygenMax,
			DrainRate:     r.OxygenDrain,
			BaseTimestamp: nowMs,
			Display:       state.Ceil(r.OxygenMax),
		}
	}

	// 首版生命码
	assignLifeCodes(s)

	s.Phase = state.PhaseRoleReveal
	s.RoundCount = 0
	s.PhaseStartedAt = nowMs
	s.Deadline = nowMs + r.RoleReveal.Milliseconds()
	return true
}

// TransitionToGreenLight 进入下一轮移动阶段：清空本轮临时标记，保留身份与生命码
func TransitionToGreenLight(s *state.Snapshot, r Rules, now time.Time) bool {
	if s.Frozen() {
		return false
	}
	switch s.Phase {
	case state.PhaseRoleReveal, state.PhaseRedLight, state.PhaseExecution:
	default:
		return false
	}

	nowMs := now.UnixMilli()
	s.RebaseOxygen(nowMs) // 先换基准再改阶段，冻结规则才取对值

	s.Phase = state.PhaseGreenLight
	s.RoundCount++
	s.PhaseStartedAt = nowMs
	s.Deadline = nowMs + r.GreenLight.Milliseconds()

	s.Round = state.RoundState{}
	s.Meeting = nil
	s.Voting = nil
	s.Execution = nil
	s.Tasks = make(map[string]*state.TaskState)

	for _, p := range s.Players {
		p.UsedKill = false
		p.AssistedTargets = nil
		p.Arrived = false
		p.TargetLocation = ""
	}
	return true
}

// TransitionToYellowLight 锁定目的地为实际位置，未选择者按座位确定性兜底
func TransitionToYellowLight(s *state.Snapshot, r Rules, now time.Time) bool {
	if s.Frozen() || s.Phase != state.PhaseGreenLight {
		return false
	}

	nowMs := now.UnixMilli()
	s.RebaseOxygen(nowMs)

	locs := s.ActiveLocations
	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		if p.TargetLocation == "" {
			p.TargetLocation = locs[(p.Seat-1)%len(locs)]
		}
		p.Location = p.TargetLocation
		p.Arrived = false
	}

	s.Phase = state.PhaseYellow
	s.PhaseStartedAt = nowMs
	s.Deadline = nowMs + r.YellowLight.Milliseconds()
	return true
}

// TransitionToRedLight 打开行动窗口，标记红灯前半场
func TransitionToRedLight(s *state.Snapshot, r Rules, now time.Time) bool {
	if s.Frozen() || s.Phase != state.PhaseYellow {
		return false
	}

	nowMs := now.UnixMilli()
	s.RebaseOxygen(nowMs)

	s.Phase = state.PhaseRedLight
	s.Round.RedLightHalf = state.RedLightFirstHalf
	s.PhaseStartedAt = nowMs
	s.Deadline = nowMs + r.RedLight.Milliseconds()
	return true
}

// AdvanceAfterRedLight 红灯结束：有未公开死亡则自动开会，否则直接进下一轮绿灯
func AdvanceAfterRedLight(s *state.Snapshot, r Rules, now time.Time) bool {
	if s.Frozen() || s.Phase != state.PhaseRedLight {
		return false
	}
	if len(s.UnrevealedDeaths()) > 0 {
		return StartMeeting(s, r, now, "auto", "")
	}
	return TransitionToGreenLight(s, r, now)
}

// StartMeeting 进入会议：公开所有未披露的死亡
func StartMeeting(s *state.Snapshot, r Rules, now time.Time, trigger, initiatorID string) bool {
	if s.Frozen() || s.Phase != state.PhaseRedLight {
		return false
	}

	nowMs := now.UnixMilli()
	s.RebaseOxygen(nowMs) // 会议期间氧气冻结

	for i := range s.Deaths {
		s.Deaths[i].Revealed = true
	}

	s.Phase = state.PhaseMeeting
	s.Meeting = &state.MeetingState{
		Trigger:     trigger,
		InitiatorID: initiatorID,
	}
	s.PhaseStartedAt = nowMs
	s.Deadline = nowMs + r.Meeting.Milliseconds()
	return true
}

// ExtendMeeting 延长讨论，每场会议最多一次
func ExtendMeeting(s *state.Snapshot, r Rules) bool {
	if s.Frozen() || s.Phase != state.PhaseMeeting || s.Meeting == nil || s.Meeting.Extended {
		return false
	}
	s.Meeting.Extended = true
	s.Deadline += r.MeetingExt.Milliseconds()
	return true
}

// TransitionToVoting 固化选民名单为当前存活玩家，清空历史选票
func TransitionToVoting(s *state.Snapshot, r Rules, now time.Time) bool {
	if s.Frozen() || s.Phase != state.PhaseMeeting {
		return false
	}

	nowMs := now.UnixMilli()

	eligible := make([]string, 0, len(s.Players))
	for _, p := range s.Players {
		if p.Alive && p.SessionID != "" {
			eligible = append(eligible, p.SessionID)
		}
	}

	s.Phase = state.PhaseVoting
	s.Meeting = nil
	s.Voting = &state.VotingState{
		Eligible: eligible,
		Votes:    make(map[string]state.Vote),
	}
	s.PhaseStartedAt = nowMs
	s.Deadline = nowMs + r.Voting.Milliseconds()
	return true
}

// TogglePause 冻结或恢复剩余时间与氧气
func TogglePause(s *state.Snapshot, now time.Time) bool {
	if s.Frozen() || s.Phase == state.PhaseLobby || s.Phase == state.PhaseGameOver {
		return false
	}

	nowMs := now.UnixMilli()

	if !s.Paused {
		remaining := s.Deadline - nowMs
		if remaining < 0 {
			remaining = 0
		}
		s.RebaseOxygen(nowMs) // 仍在消耗规则下取最后的推导值
		s.Paused = true
		s.PauseRemainingMs = remaining
		s.PausedAt = nowMs
		return true
	}

	// 恢复：按剩余时间重算截止，红灯锚点整体平移
	s.RebaseOxygen(nowMs)
	pausedSpan := nowMs - s.PausedAt
	if pausedSpan > 0 {
		s.PhaseStartedAt += pausedSpan
	}
	s.Paused = false
	s.Deadline = nowMs + s.PauseRemainingMs
	s.PauseRemainingMs = 0
	s.PausedAt = 0
	return true
}
