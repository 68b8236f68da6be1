package room

import (
	"log"
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/engine"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/metrics"
)

// 氧气循环频率：每秒一跳
const oxygenTickInterval = time.Second

// startTickerLocked 进入移动大阶段时启动氧气循环
func (r *Room) startTickerLocked() {
	if r.tickerOn {
		return
	}
	r.tickerOn = true
	stop := make(chan struct{})
	r.tickerStop = stop
	go r.oxygenLoop(stop)
}

// stopTickerLocked 离开移动大阶段或房间销毁时停止氧气循环
func (r *Room) stopTickerLocked() {
	if !r.tickerOn {
		return
	}
	close(r.tickerStop)
	r.tickerOn = false
}

// oxygenLoop 每秒结算一次氧气。非移动阶段的 tick 直接跳过；
// 有人窒息时强制广播并复查胜负——死亡可以独立于任何阶段计时器终结整局。
func (r *Room) oxygenLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(oxygenTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.mu.Lock()
			s := r.snap
			if r.closed || s.Frozen() || !s.Phase.IsMovement() {
				r.mu.Unlock()
				continue
			}

			now := r.now()
			engine.TickOxygen(s, now)
			dead := engine.CheckOxygenDeath(s, now)
			if len(dead) > 0 {
				for _, p := range dead {
					metrics.Deaths.WithLabelValues(state.DeathCauseOxygen).Inc()
					log.Printf("💨 房间 %s 玩家 %s（座位 %d）氧气耗尽", r.Code, p.Name, p.Seat)
				}
				r.syncLocked(now)
			}
			r.mu.Unlock()
		}
	}
}
