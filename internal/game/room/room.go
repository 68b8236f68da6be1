// Package room 将引擎、调度器与氧气循环组合成单个房间。
//
// 快照的全部变更都在房间锁内同步完成：要么来自计时器回调，
// 要么来自入站意图处理，正确性依赖顺序与幂等而非更细的互斥。
package room

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/engine"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/scheduler"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/metrics"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/storage"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/types"
)

// ResultRecorder 终局结果的落盘接口（排行榜与对局历史）
type ResultRecorder interface {
	SaveMatch(ctx context.Context, rec *storage.MatchRecord) error
	RecordPlayerResult(ctx context.Context, playerID, playerName string, isDuck, isWinner bool) error
}

// Room 一个游戏房间：权威快照 + 专属调度器 + 氧气循环
type Room struct {
	Code      string
	CreatedAt time.Time

	mu      sync.Mutex
	snap    *state.Snapshot
	rules   engine.Rules
	sched   *scheduler.Scheduler
	clients map[string]types.ClientInterface // sessionID -> 在线连接

	minPlayers int
	maxPlayers int

	recorder ResultRecorder // 可为 nil（无 Redis 时照常游戏）

	tickerOn   bool
	tickerStop chan struct{}
	closed     bool

	now func() time.Time // 测试注入时钟
}

func newRoom(code string, rules engine.Rules, minPlayers, maxPlayers int, recorder ResultRecorder) *Room {
	r := &Room{
		Code:       code,
		CreatedAt:  time.Now(),
		snap:       state.New(code),
		rules:      rules,
		clients:    make(map[string]types.ClientInterface),
		minPlayers: minPlayers,
		maxPlayers: maxPlayers,
		recorder:   recorder,
		now:        time.Now,
	}
	r.sched = scheduler.New(r)
	return r
}

// Snapshot 返回当前快照（调用方只应在广播序列化等只读场景使用）
func (r *Room) Snapshot() *state.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

// --- scheduler.Target ---

// OnPhaseDeadline 阶段截止计时器回调。
// 阶段或截止时间已变说明这是过期触发，安全忽略。
func (r *Room) OnPhaseDeadline(phase state.Phase, deadline int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.snap
	if r.closed || s.Frozen() || s.Paused || s.Phase != phase || s.Deadline != deadline {
		metrics.StaleTimerNoops.Inc()
		return
	}

	now := r.now()

	// 胜负判定先于任何阶段动作
	if engine.CheckWinCondition(s) != nil {
		r.syncLocked(now)
		return
	}

	switch phase {
	case state.PhaseRoleReveal:
		engine.TransitionToGreenLight(s, r.rules, now)
	case state.PhaseGreenLight:
		engine.TransitionToYellowLight(s, r.rules, now)
	case state.PhaseYellow:
		engine.TransitionToRedLight(s, r.rules, now)
	case state.PhaseRedLight:
		engine.AdvanceAfterRedLight(s, r.rules, now)
	case state.PhaseMeeting:
		engine.TransitionToVoting(s, r.rules, now)
	case state.PhaseVoting:
		engine.ResolveVotes(s, r.rules, now, true)
	case state.PhaseExecution:
		engine.TransitionToGreenLight(s, r.rules, now)
	default:
		return
	}

	metrics.PhaseTransitions.WithLabelValues(s.Phase.String()).Inc()
	log.Printf("⏱️ 房间 %s 进入 %s（第 %d 轮）", r.Code, s.Phase, s.RoundCount)
	r.syncLocked(now)
}

// OnCodeRotation 红灯半场换码计时器回调
func (r *Room) OnCodeRotation(rotateAt int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.snap.Paused {
		return
	}

	if !engine.RotateLifeCodes(r.snap, r.now()) {
		metrics.StaleTimerNoops.Inc()
		return
	}

	log.Printf("🔑 房间 %s 生命码已更换（版本 %d）", r.Code, r.snap.LifeCodes.Version)
	r.broadcastLocked()
}

// syncLocked 在每次变更后重新审视房间：
// 先判胜负并终局，再按当前阶段重排计时器与氧气循环，最后广播快照。
func (r *Room) syncLocked(now time.Time) {
	s := r.snap

	if result := engine.CheckWinCondition(s); result != nil {
		if engine.FinalizeGame(s, result, now) {
			r.sched.Clear()
			metrics.GamesFinished.WithLabelValues(string(result.Winner)).Inc()
			log.Printf("🏁 房间 %s 终局：%s 获胜（%s）", r.Code, result.Winner, result.Reason)
			r.recordResultsLocked()
		}
	}

	r.sched.ScheduleForCurrentPhase(s, now)

	// 氧气循环只在移动大阶段存在
	if s.Phase.IsMovement() && !s.Frozen() {
		r.startTickerLocked()
	} else {
		r.stopTickerLocked()
	}

	r.broadcastLocked()
}

// broadcastLocked 把完整快照推给房间内所有在线连接
func (r *Room) broadcastLocked() {
	msg := protocol.MustNewMessage(protocol.MsgSnapshot, protocol.SnapshotPayload{
		Timestamp: r.now().UnixMilli(),
		State:     r.snap,
	})
	for _, c := range r.clients {
		c.SendMessage(msg)
	}
}

// recordResultsLocked 终局后异步写入对局记录与排行榜
func (r *Room) recordResultsLocked() {
	if r.recorder == nil {
		return
	}

	s := r.snap
	rec := &storage.MatchRecord{
		RoomCode: r.Code,
		Winner:   string(s.GameResult.Winner),
		Reason:   s.GameResult.Reason,
		Rounds:   s.RoundCount,
		EndedAt:  s.GameResult.EndedAt,
	}
	type playerResult struct {
		id, name string
		isDuck   bool
		won      bool
	}
	results := make([]playerResult, 0, len(s.Players))
	for _, p := range s.Players {
		rec.Players = append(rec.Players, storage.MatchPlayer{
			PlayerID: p.SessionID,
			Name:     p.Name,
			Role:     string(p.Role),
			Alive:    p.Alive,
		})
		results = append(results, playerResult{
			id:     p.SessionID,
			name:   p.Name,
			isDuck: p.Role.Faction() == state.FactionDuck,
			won:    p.Role.Faction() == s.GameResult.Winner,
		})
	}

	recorder := r.recorder
	go func() {
		ctx := context.Background()
		if err := recorder.SaveMatch(ctx, rec); err != nil {
			log.Printf("保存对局记录失败: %v", err)
		}
		for _, pr := range results {
			if err := recorder.RecordPlayerResult(ctx, pr.id, pr.name, pr.isDuck, pr.won); err != nil {
				log.Printf("记录玩家战绩失败: %v", err)
			}
		}
	}()
}

// Teardown 取消全部计时器并停止氧气循环，此后房间不再接受任何事件
func (r *Room) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.sched.Clear()
	r.stopTickerLocked()
}
