// Package metrics 暴露服务端 Prometheus 指标。
// 只使用有界标签（阶段、死因、阵营等枚举值），不含任何玩家级标签。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RoomsActive 当前存在的房间数
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "joker_rooms_active",
		Help: "Current number of rooms",
	})

	// GamesStarted 已开局的对局总数
	GamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joker_games_started_total",
		Help: "Total games started",
	})

	// GamesFinished 按获胜阵营统计的终局总数
	GamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_games_finished_total",
		Help: "Total games finished",
	}, []string{"winner"})

	// PhaseTransitions 按目标阶段统计的阶段转换次数
	PhaseTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_phase_transitions_total",
		Help: "Total phase transitions",
	}, []string{"phase"})

	// Deaths 按死因统计的死亡次数
	Deaths = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_deaths_total",
		Help: "Total player deaths",
	}, []string{"cause"})

	// TimerFires 按计时器种类统计的触发次数
	TimerFires = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_timer_fires_total",
		Help: "Total room timer fires",
	}, []string{"kind"})

	// TimerDedup 因 (阶段, 截止时间) 去重而跳过的调度次数
	TimerDedup = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joker_timer_dedup_total",
		Help: "Scheduling calls skipped by (phase, deadline) dedup",
	})

	// StaleTimerNoops 过期计时器回调命中阶段守卫的次数
	StaleTimerNoops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "joker_stale_timer_noops_total",
		Help: "Timer callbacks ignored because the phase already moved on",
	})

	// WSConnectionsActive 当前 WebSocket 连接数
	WSConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "joker_ws_connections_active",
		Help: "Current WebSocket connections",
	})

	// ConnectionsRejected 被拒绝的连接数（有界 reason：rate_limit/origin/full）
	ConnectionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "joker_connections_rejected_total",
		Help: "Connections rejected before upgrade",
	}, []string{"reason"})
)
