package room

import (
	"encoding/json"
	"log"
	"slices"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/apperrors"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/engine"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/metrics"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
)

// 动作网关：所有入站意图先在当前阶段与玩家状态上校验，
// 校验失败返回枚举原因且不产生任何变更。

// actorLocked 定位发起意图的玩家。所有动作共用的基础校验。
func (r *Room) actorLocked(clientID string) (*state.Player, *apperrors.GameError) {
	s := r.snap
	if s.Engine != state.EngineJoker || s.Phase == state.PhaseLobby {
		return nil, apperrors.ErrGameNotStart
	}
	if s.Frozen() {
		return nil, apperrors.ErrWrongPhase
	}
	p := s.PlayerByID(clientID)
	if p == nil {
		return nil, apperrors.ErrNotInRoom
	}
	return p, nil
}

// HandleSelectLocation 绿灯阶段选择目的地
func (r *Room) HandleSelectLocation(clientID, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return apperrors.ErrGamePaused
	case s.Phase != state.PhaseGreenLight:
		return apperrors.ErrWrongPhase
	case !p.Alive:
		return apperrors.ErrPlayerDead
	case !slices.Contains(s.ActiveLocations, location):
		return apperrors.ErrBadLocation
	}

	p.TargetLocation = location
	r.broadcastLocked()
	return nil
}

// HandleConfirmArrival 黄灯阶段确认到达
func (r *Room) HandleConfirmArrival(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return apperrors.ErrGamePaused
	case s.Phase != state.PhaseYellow:
		return apperrors.ErrWrongPhase
	case !p.Alive:
		return apperrors.ErrPlayerDead
	case p.Location == "":
		return apperrors.ErrNoLocation
	}

	p.Arrived = true
	r.broadcastLocked()
	return nil
}

// HandleLifeCodeAction 红灯阶段提交生命码，kind 区分击杀与援助。
// 码本身标识目标：在存活玩家的当前码表中不命中即拒绝。
func (r *Room) HandleLifeCodeAction(clientID, code, kind string) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	actor, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return nil, gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return nil, apperrors.ErrGamePaused
	case s.Phase != state.PhaseRedLight:
		return nil, apperrors.ErrWrongPhase
	case !actor.Alive:
		return nil, apperrors.ErrPlayerDead
	}

	// 用码定位目标
	var target *state.Player
	for _, p := range s.Players {
		if p.Alive && p.SessionID != clientID && engine.CodeMatches(s, p, code) {
			target = p
			break
		}
	}
	if target == nil {
		return nil, apperrors.ErrInvalidCode
	}
	if target.Location != actor.Location {
		return nil, apperrors.ErrWrongPlace
	}

	now := r.now()

	switch kind {
	case protocol.LifeCodeKindKill:
		if actor.Role != state.RoleDuck {
			return nil, apperrors.ErrNoAbility
		}
		if actor.UsedKill {
			return nil, apperrors.ErrAlreadyActed
		}
		engine.ResolveKill(s, actor, target, now)
		metrics.Deaths.WithLabelValues(state.DeathCauseKill).Inc()
		log.Printf("🗡️ 房间 %s 座位 %d 击杀了座位 %d", r.Code, actor.Seat, target.Seat)
		r.syncLocked(now) // 死亡可能直接终局
		data, _ := json.Marshal(map[string]int{"target_seat": target.Seat})
		return data, nil

	case protocol.LifeCodeKindAssist:
		if actor.AssistedTargets[target.SessionID] {
			return nil, apperrors.ErrAlreadyActed
		}
		amount := engine.ResolveAssist(s, r.rules, actor, target, now)
		log.Printf("🫧 房间 %s 座位 %d 向座位 %d 输送了 %.0f 氧气", r.Code, actor.Seat, target.Seat, amount)
		r.broadcastLocked()
		data, _ := json.Marshal(map[string]float64{"amount": amount})
		return data, nil
	}

	return nil, apperrors.ErrInvalidMsg
}

// HandleVote 投票阶段提交选票，目标为空表示弃票
func (r *Room) HandleVote(clientID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return apperrors.ErrGamePaused
	case s.Phase != state.PhaseVoting || s.Voting == nil:
		return apperrors.ErrWrongPhase
	case !slices.Contains(s.Voting.Eligible, clientID):
		return apperrors.ErrNotEligible
	}
	if _, voted := s.Voting.Votes[clientID]; voted {
		return apperrors.ErrAlreadyActed
	}
	if targetID != "" {
		target := s.PlayerByID(targetID)
		if target == nil || !target.Alive {
			return apperrors.ErrNoTarget
		}
	}

	now := r.now()
	engine.SubmitVote(s, clientID, targetID, now)

	// 全员投毕则立即结算：先取消计时器，作废的超时才不会事后重复结算
	if engine.AllVoted(s) {
		r.sched.Clear()
		engine.ResolveVotes(s, r.rules, now, false)
		log.Printf("🗳️ 房间 %s 全员投毕，提前结算（%s）", r.Code, s.Execution.Reason)
		r.syncLocked(now)
		return nil
	}

	r.broadcastLocked()
	return nil
}

// HandleReport 红灯阶段报告尸体，触发会议
func (r *Room) HandleReport(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return apperrors.ErrGamePaused
	case s.Phase != state.PhaseRedLight:
		return apperrors.ErrWrongPhase
	case !p.Alive:
		return apperrors.ErrPlayerDead
	case !s.UnrevealedDeathAt(p.Location):
		return apperrors.ErrNoCorpse
	}

	now := r.now()

	// 先取消红灯阶段的计时链（含半场换码），再做早退转换
	r.sched.Clear()
	engine.StartMeeting(s, r.rules, now, "report", clientID)
	metrics.PhaseTransitions.WithLabelValues(s.Phase.String()).Inc()
	log.Printf("📢 房间 %s 座位 %d 报告了尸体，进入会议", r.Code, p.Seat)
	r.syncLocked(now)
	return nil
}

// HandleMeetingStartVote 讨论提前结束进入投票。
// 报告触发的会议只有发起者可以提前；自动会议任何存活玩家都可以。
func (r *Room) HandleMeetingStartVote(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return apperrors.ErrGamePaused
	case s.Phase != state.PhaseMeeting || s.Meeting == nil:
		return apperrors.ErrWrongPhase
	case !p.Alive:
		return apperrors.ErrPlayerDead
	}
	if s.Meeting.InitiatorID != "" && s.Meeting.InitiatorID != clientID {
		return apperrors.ErrNotInitiator
	}

	now := r.now()
	r.sched.Clear()
	engine.TransitionToVoting(s, r.rules, now)
	metrics.PhaseTransitions.WithLabelValues(s.Phase.String()).Inc()
	r.syncLocked(now)
	return nil
}

// HandleMeetingExtend 延长会议，每场最多一次
func (r *Room) HandleMeetingExtend(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return apperrors.ErrGamePaused
	case s.Phase != state.PhaseMeeting || s.Meeting == nil:
		return apperrors.ErrWrongPhase
	case !p.Alive:
		return apperrors.ErrPlayerDead
	case s.Meeting.Extended:
		return apperrors.ErrExtended
	}

	engine.ExtendMeeting(s, r.rules)
	// 截止时间变了，(阶段, 截止) 去重键随之失效，重排会换上新计时器
	r.syncLocked(r.now())
	return nil
}

// HandleTogglePause 暂停冻结剩余时间，恢复按剩余时间重新起算
func (r *Room) HandleTogglePause(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}

	now := r.now()
	if !engine.TogglePause(r.snap, now) {
		return apperrors.ErrWrongPhase
	}

	if r.snap.Paused {
		r.sched.Clear()
		log.Printf("⏸️ 房间 %s 已暂停（剩余 %d ms）", r.Code, r.snap.PauseRemainingMs)
		r.broadcastLocked()
		return nil
	}

	log.Printf("▶️ 房间 %s 已恢复", r.Code)
	r.syncLocked(now)
	return nil
}

// HandleStartTask 在当前地点开启/加入共享任务
func (r *Room) HandleStartTask(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return apperrors.ErrGamePaused
	case s.Phase != state.PhaseYellow && s.Phase != state.PhaseRedLight:
		return apperrors.ErrWrongPhase
	case !p.Alive:
		return apperrors.ErrPlayerDead
	case p.Location == "":
		return apperrors.ErrNoLocation
	}

	if t := s.Tasks[p.Location]; t != nil {
		if t.Status == state.TaskActive || t.Status == state.TaskResolved {
			return apperrors.ErrTaskState
		}
		if t.Status == state.TaskWaiting && t.StarterID == clientID {
			return apperrors.ErrTaskState
		}
	}

	engine.StartTask(s, p, r.now())
	r.broadcastLocked()
	return nil
}

// HandleCompleteTask 提交任务结果。小游戏本身对核心不透明，只消费成功/失败。
func (r *Room) HandleCompleteTask(clientID string, success bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, gerr := r.actorLocked(clientID)
	if gerr != nil {
		return gerr
	}
	s := r.snap
	switch {
	case s.Paused:
		return apperrors.ErrGamePaused
	case s.Phase != state.PhaseYellow && s.Phase != state.PhaseRedLight:
		return apperrors.ErrWrongPhase
	case !p.Alive:
		return apperrors.ErrPlayerDead
	}

	task := s.Tasks[p.Location]
	if task == nil || task.Status != state.TaskActive {
		return apperrors.ErrTaskState
	}
	if !slices.Contains(task.Participants, clientID) {
		return apperrors.ErrTaskState
	}

	now := r.now()
	engine.CompleteTask(s, r.rules, task, success, now)
	if success {
		log.Printf("🔧 房间 %s %s 的任务完成，参与者获得氧气补给", r.Code, task.Location)
	} else {
		log.Printf("⚠️ 房间 %s %s 的任务失败，该地点氧气泄漏加速", r.Code, task.Location)
	}
	r.broadcastLocked()
	return nil
}
