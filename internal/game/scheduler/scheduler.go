// Package scheduler 为单个房间持有全部计时器。
// 它是引擎唯一合法的延迟调用来源：每个 (阶段, 截止时间) 至多一条计时链。
package scheduler

import (
	"sync"
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/metrics"
)

// 计时器种类（指标标签）
const (
	KindPhaseEnd = "phase_end"
	KindRotation = "code_rotation"
)

// Target 计时器到期时的回调方。房间实现该接口，
// 回调内部自行加锁并用阶段/截止时间相等性守卫过期触发。
type Target interface {
	OnPhaseDeadline(phase state.Phase, deadline int64)
	OnCodeRotation(rotateAt int64)
}

// Scheduler 每个房间独占一个，显式生命周期：创建、重排、销毁。
// 不存在任何进程级全局计时器表。
type Scheduler struct {
	mu     sync.Mutex
	target Target

	phaseEnd *time.Timer
	rotation *time.Timer

	// 去重标记：同一 (阶段, 截止时间) 重复调度是空操作
	scheduled    bool
	lastPhase    state.Phase
	lastDeadline int64
}

// New 创建房间调度器
func New(target Target) *Scheduler {
	return &Scheduler{target: target}
}

// ScheduleForCurrentPhase 按快照的当前阶段与截止时间安排计时器。
//
// 去重键是 (阶段, 截止时间) 而非截止时间本身：同阶段重入且截止不变时
// 跳过，截止相同但阶段已变时照常重排。
// 红灯阶段安排两条独立计时链：半场换码与阶段结束，
// 换码时刻锚定在记录的阶段开始时间上，调度器中途重入不会重置换码时钟。
func (s *Scheduler) ScheduleForCurrentPhase(snap *state.Snapshot, now time.Time) {
	if snap.Engine != state.EngineJoker {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 终局、大厅、暂停：清掉一切，不再调度
	if snap.Frozen() || snap.Paused ||
		snap.Phase == state.PhaseLobby || snap.Phase == state.PhaseGameOver {
		s.clearLocked()
		return
	}

	if s.scheduled && s.lastPhase == snap.Phase && s.lastDeadline == snap.Deadline {
		metrics.TimerDedup.Inc()
		return
	}

	// 旧计时器先行取消，再建立新的计时链
	s.clearLocked()
	s.scheduled = true
	s.lastPhase = snap.Phase
	s.lastDeadline = snap.Deadline

	phase, deadline := snap.Phase, snap.Deadline
	s.phaseEnd = time.AfterFunc(delayUntil(deadline, now), func() {
		metrics.TimerFires.WithLabelValues(KindPhaseEnd).Inc()
		s.target.OnPhaseDeadline(phase, deadline)
	})

	// 红灯前半场追加换码计时器，锚点取自阶段开始时刻
	if phase == state.PhaseRedLight && snap.Round.RedLightHalf == state.RedLightFirstHalf {
		rotateAt := snap.PhaseStartedAt + (deadline-snap.PhaseStartedAt)/2
		s.rotation = time.AfterFunc(delayUntil(rotateAt, now), func() {
			metrics.TimerFires.WithLabelValues(KindRotation).Inc()
			s.target.OnCodeRotation(rotateAt)
		})
	}
}

// Clear 取消全部未触发的计时器并遗忘去重标记。
// 终局、房间销毁以及每条早退结算路径都必须先调用它，
// 防止已作废的超时事后触发重复结算。
func (s *Scheduler) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Scheduler) clearLocked() {
	if s.phaseEnd != nil {
		s.phaseEnd.Stop()
		s.phaseEnd = nil
	}
	if s.rotation != nil {
		s.rotation.Stop()
		s.rotation = nil
	}
	s.scheduled = false
	s.lastPhase = ""
	s.lastDeadline = 0
}

// delayUntil 计算到 deadlineMs 的延迟，晚触发的计时器立即执行而非负延迟
func delayUntil(deadlineMs int64, now time.Time) time.Duration {
	d := time.Duration(deadlineMs-now.UnixMilli()) * time.Millisecond
	if d < 0 {
		return 0
	}
	return d
}
