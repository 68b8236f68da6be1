package state

// Phase 游戏阶段
type Phase string

const (
	PhaseLobby      Phase = "lobby"       // 等待开局
	PhaseRoleReveal Phase = "role_reveal" // 亮身份
	PhaseGreenLight Phase = "green_light" // 移动阶段
	PhaseYellow     Phase = "yellow_light" // 到达确认
	PhaseRedLight   Phase = "red_light"   // 危险阶段
	PhaseMeeting    Phase = "meeting"     // 会议讨论
	PhaseVoting     Phase = "voting"      // 投票
	PhaseExecution  Phase = "execution"   // 处决公示
	PhaseGameOver   Phase = "game_over"   // 终局
)

// String 返回阶段的字符串表示
func (p Phase) String() string {
	return string(p)
}

// IsMovement 是否属于移动大阶段（绿/黄/红灯），只有这些阶段消耗氧气
func (p Phase) IsMovement() bool {
	switch p {
	case PhaseGreenLight, PhaseYellow, PhaseRedLight:
		return true
	}
	return false
}

// RedLightHalf 红灯阶段前后半场标记，用于保证换码只触发一次
type RedLightHalf string

const (
	RedLightFirstHalf  RedLightHalf = "first"
	RedLightSecondHalf RedLightHalf = "second"
)
