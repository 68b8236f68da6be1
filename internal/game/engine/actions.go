package engine

import (
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// ResolveKill 击杀结算。校验由网关完成，这里只做状态变更：
// 目标死亡（不公开），击杀者消耗本轮唯一一次击杀机会。
func ResolveKill(s *state.Snapshot, killer, target *state.Player, now time.Time) {
	nowMs := now.UnixMilli()

	target.Alive = false
	target.Oxygen.Rebase(s.OxygenAt(target, nowMs), nowMs)
	killer.UsedKill = true

	s.Deaths = append(s.Deaths, state.DeathRecord{
		PlayerID: target.SessionID,
		Seat:     target.Seat,
		Cause:    state.DeathCauseKill,
		KillerID: killer.SessionID,
		Location: target.Location,
		Round:    s.RoundCount,
	})
}

// ResolveAssist 氧气援助结算：从施助者转移氧气到目标，
// 受施助者存量与目标上限双重封顶。返回实际转移量。
func ResolveAssist(s *state.Snapshot, r Rules, actor, target *state.Player, now time.Time) float64 {
	nowMs := now.UnixMilli()

	actorO2 := s.OxygenAt(actor, nowMs)
	targetO2 := s.OxygenAt(target, nowMs)

	amount := r.AssistOxygen
	if amount > actorO2 {
		amount = actorO2
	}
	if room := r.OxygenMax - targetO2; amount > room {
		amount = room
	}
	if amount < 0 {
		amount = 0
	}

	actor.Oxygen.Rebase(actorO2-amount, nowMs)
	target.Oxygen.Rebase(targetO2+amount, nowMs)

	if actor.AssistedTargets == nil {
		actor.AssistedTargets = make(map[string]bool)
	}
	actor.AssistedTargets[target.SessionID] = true

	return amount
}

// StartTask 推进某地点的任务状态机：idle → waiting（发起者等待）
// → active（第二名参与者加入）。返回推进后的任务。
func StartTask(s *state.Snapshot, actor *state.Player, now time.Time) *state.TaskState {
	loc := actor.Location
	task := s.Tasks[loc]
	if task == nil {
		task = &state.TaskState{Location: loc, Status: state.TaskIdle}
		s.Tasks[loc] = task
	}

	switch task.Status {
	case state.TaskIdle:
		task.Status = state.TaskWaiting
		task.StarterID = actor.SessionID
		task.Participants = []string{actor.SessionID}
		task.StartedAt = now.UnixMilli()
	case state.TaskWaiting:
		if task.StarterID != actor.SessionID {
			task.Status = state.TaskActive
			task.Participants = append(task.Participants, actor.SessionID)
		}
	}
	return task
}

// CompleteTask 以成功/失败信号结算任务。
// 成功：参与者获得氧气补给；失败：该地点所有存活玩家氧气泄漏加速。
func CompleteTask(s *state.Snapshot, r Rules, task *state.TaskState, success bool, now time.Time) {
	nowMs := now.UnixMilli()

	task.Status = state.TaskResolved
	task.Success = &success

	if success {
		for _, id := range task.Participants {
			p := s.PlayerByID(id)
			if p == nil || !p.Alive {
				continue
			}
			o2 := s.OxygenAt(p, nowMs) + r.TaskRefill
			if o2 > r.OxygenMax {
				o2 = r.OxygenMax
			}
			p.Oxygen.Rebase(o2, nowMs)
		}
		return
	}

	// 泄漏只影响任务所在地点的存活玩家
	for _, p := range s.Players {
		if !p.Alive || p.Location != task.Location {
			continue
		}
		p.Oxygen.Rebase(s.OxygenAt(p, nowMs), nowMs)
		p.Oxygen.DrainRate += r.LeakDrain
	}
}
