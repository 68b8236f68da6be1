package state

import "math"

// OxygenState 氧气状态。当前值始终由基准值推导，绝不保存过期的绝对值。
type OxygenState struct {
	BaseValue     float64 `json:"base_value"`     // 基准时刻的氧气量（秒）
	DrainRate     float64 `json:"drain_rate"`     // 每秒消耗量
	BaseTimestamp int64   `json:"base_timestamp"` // 基准时刻（epoch ms）
	Display       int     `json:"display"`        // 供广播的显示值，由 tick 刷新
}

// ValueAt 计算 nowMs 时刻的推导氧气值，下限为 0
func (o *OxygenState) ValueAt(nowMs int64) float64 {
	elapsed := float64(nowMs-o.BaseTimestamp) / 1000.0
	if elapsed < 0 {
		elapsed = 0
	}
	v := o.BaseValue - o.DrainRate*elapsed
	if v < 0 {
		return 0
	}
	return v
}

// Ceil 向上取整的显示值。269.1 在整秒走完之前仍显示 270，
// 避免浮点截断导致的提前死亡。
func Ceil(v float64) int {
	return int(math.Ceil(v))
}

// Rebase 以 nowMs 时刻的推导值为新基准
func (o *OxygenState) Rebase(value float64, nowMs int64) {
	o.BaseValue = value
	o.BaseTimestamp = nowMs
	o.Display = Ceil(value)
}
