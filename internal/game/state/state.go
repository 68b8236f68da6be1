package state

// EngineJoker 引擎类型判别值。调度器与网关拒绝在不匹配的引擎上调用任何变更函数。
const EngineJoker = "joker"

// Role 秘密身份
type Role string

const (
	RoleGoose Role = "goose" // 鹅（平民阵营）
	RoleDuck  Role = "duck"  // 鸭（杀手阵营）
)

// Faction 胜负判定所属阵营
type Faction string

const (
	FactionGoose Faction = "goose"
	FactionDuck  Faction = "duck"
)

// Faction 返回身份所属阵营
func (r Role) Faction() Faction {
	if r == RoleDuck {
		return FactionDuck
	}
	return FactionGoose
}

// Player 座位上的一名玩家
type Player struct {
	Seat      int    `json:"seat"`                 // 座位号 1..N，入座后不变
	SessionID string `json:"session_id,omitempty"` // 连接身份，掉线时为空
	Name      string `json:"name"`
	Role      Role   `json:"role,omitempty"` // 开局分配一次，不再变更
	Alive     bool   `json:"alive"`

	Location       string `json:"location,omitempty"`        // 当前位置
	TargetLocation string `json:"target_location,omitempty"` // 绿灯阶段选择的目的地
	Arrived        bool   `json:"arrived"`                   // 黄灯阶段是否已确认到达

	Oxygen OxygenState `json:"oxygen"`

	// 本轮一次性标记，进入下一轮绿灯时清空
	UsedKill        bool            `json:"used_kill,omitempty"`
	AssistedTargets map[string]bool `json:"assisted_targets,omitempty"`
}

// LifeCodeState 生命码表。同一版本内所有存活玩家的码两两不同。
type LifeCodeState struct {
	Codes   map[string]string `json:"codes"`   // sessionID -> 两位数字码
	Version int               `json:"version"` // 每次换码严格递增
}

// Vote 一张选票。TargetID 为空表示弃票。
type Vote struct {
	VoterID     string `json:"voter_id"`
	TargetID    string `json:"target_id,omitempty"`
	SubmittedAt int64  `json:"submitted_at"`
}

// VotingState 投票阶段的临时状态
type VotingState struct {
	Eligible []string        `json:"eligible"` // 进入投票时的存活名单
	Votes    map[string]Vote `json:"votes"`    // voterID -> 选票
}

// 处决结果原因
const (
	ExecReasonVote = "vote" // 唯一多数，处决
	ExecReasonTie  = "tie"  // 平票，无人处决
	ExecReasonSkip = "skip" // 弃票过多未达法定人数
)

// ExecutionState 本轮投票的终局结果
type ExecutionState struct {
	ExecutedID   string `json:"executed_id,omitempty"`
	ExecutedRole Role   `json:"executed_role,omitempty"`
	Reason       string `json:"reason"`
}

// MeetingState 会议状态
type MeetingState struct {
	Trigger     string `json:"trigger"` // "report" 或 "auto"
	InitiatorID string `json:"initiator_id,omitempty"`
	Extended    bool   `json:"extended"` // 每场会议最多延长一次
}

// 死亡原因
const (
	DeathCauseKill   = "kill"
	DeathCauseOxygen = "oxygen"
	DeathCauseVote   = "vote"
)

// DeathRecord 死亡记录，追加后不可变；Revealed 仅在公开披露时置位
type DeathRecord struct {
	PlayerID string `json:"player_id"`
	Seat     int    `json:"seat"`
	Cause    string `json:"cause"`
	KillerID string `json:"killer_id,omitempty"`
	Location string `json:"location,omitempty"`
	Round    int    `json:"round"`
	Revealed bool   `json:"revealed"`
}

// VotingRecord 投票历史条目，追加后不可变
type VotingRecord struct {
	Round      int    `json:"round"`
	Votes      []Vote `json:"votes"`
	ExecutedID string `json:"executed_id,omitempty"`
	Reason     string `json:"reason"`
}

// TaskStatus 任务状态机：idle → waiting → active → resolved
type TaskStatus string

const (
	TaskIdle     TaskStatus = "idle"
	TaskWaiting  TaskStatus = "waiting"
	TaskActive   TaskStatus = "active"
	TaskResolved TaskStatus = "resolved"
)

// TaskState 某个地点的共享小任务。核心只消费成功/失败布尔信号。
type TaskState struct {
	Location     string     `json:"location"`
	Status       TaskStatus `json:"status"`
	StarterID    string     `json:"starter_id,omitempty"`
	Participants []string   `json:"participants,omitempty"`
	StartedAt    int64      `json:"started_at,omitempty"`
	Success      *bool      `json:"success,omitempty"`
}

// GameResult 终局结果，只允许设置一次
type GameResult struct {
	Winner  Faction `json:"winner"`
	Reason  string  `json:"reason"`
	EndedAt int64   `json:"ended_at"`
}

// RoundState 每轮的临时标记
type RoundState struct {
	RedLightHalf RedLightHalf `json:"red_light_half,omitempty"`
}

// Snapshot 单个房间的权威游戏状态。由引擎独占所有权，
// 调度器与氧气循环只在房间锁内同步读写，从不跨线程并发访问。
type Snapshot struct {
	Engine   string `json:"engine"` // 判别字段，恒为 EngineJoker
	RoomCode string `json:"room_code"`

	Phase          Phase `json:"phase"`
	RoundCount     int   `json:"round_count"`
	Deadline       int64 `json:"deadline,omitempty"`         // epoch ms，0 表示无
	PhaseStartedAt int64 `json:"phase_started_at,omitempty"` // 红灯换码计时的锚点

	Players         []*Player     `json:"players"`
	ActiveLocations []string      `json:"active_locations"`
	LifeCodes       LifeCodeState `json:"life_codes"`
	Round           RoundState    `json:"round"`

	Meeting   *MeetingState   `json:"meeting,omitempty"`
	Voting    *VotingState    `json:"voting,omitempty"`
	Execution *ExecutionState `json:"execution,omitempty"`

	Tasks map[string]*TaskState `json:"tasks,omitempty"` // location -> task

	Deaths        []DeathRecord  `json:"deaths"`
	VotingHistory []VotingRecord `json:"voting_history"`

	GameResult *GameResult `json:"game_result,omitempty"` // 设置后快照冻结

	Paused           bool  `json:"paused"`
	PauseRemainingMs int64 `json:"pause_remaining_ms,omitempty"`
	PausedAt         int64 `json:"paused_at,omitempty"`
}

// New 创建 lobby 状态的空快照
func New(roomCode string) *Snapshot {
	return &Snapshot{
		Engine:   EngineJoker,
		RoomCode: roomCode,
		Phase:    PhaseLobby,
		LifeCodes: LifeCodeState{
			Codes: make(map[string]string),
		},
		Tasks: make(map[string]*TaskState),
	}
}

// Frozen 终局后快照不再接受任何转换
func (s *Snapshot) Frozen() bool {
	return s.GameResult != nil
}

// PlayerByID 按连接身份查找玩家
func (s *Snapshot) PlayerByID(sessionID string) *Player {
	if sessionID == "" {
		return nil
	}
	for _, p := range s.Players {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

// PlayerBySeat 按座位号查找玩家
func (s *Snapshot) PlayerBySeat(seat int) *Player {
	for _, p := range s.Players {
		if p.Seat == seat {
			return p
		}
	}
	return nil
}

// LivingPlayers 返回存活玩家（座位序）
func (s *Snapshot) LivingPlayers() []*Player {
	living := make([]*Player, 0, len(s.Players))
	for _, p := range s.Players {
		if p.Alive {
			living = append(living, p)
		}
	}
	return living
}

// LivingByFaction 统计各阵营存活人数
func (s *Snapshot) LivingByFaction() (geese, ducks int) {
	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		if p.Role.Faction() == FactionDuck {
			ducks++
		} else {
			geese++
		}
	}
	return geese, ducks
}

// OxygenDraining 当前是否在消耗氧气
func (s *Snapshot) OxygenDraining() bool {
	return s.Phase.IsMovement() && !s.Paused
}

// OxygenAt 计算某玩家在 nowMs 时刻的氧气值。
// 非移动阶段或暂停时氧气冻结在基准值上。
func (s *Snapshot) OxygenAt(p *Player, nowMs int64) float64 {
	if !s.OxygenDraining() {
		return p.Oxygen.BaseValue
	}
	return p.Oxygen.ValueAt(nowMs)
}

// RebaseOxygen 将所有存活玩家的氧气基准更新到 nowMs 时刻。
// 必须在修改 Phase 或 Paused 之前调用，否则推导值会用错冻结规则。
func (s *Snapshot) RebaseOxygen(nowMs int64) {
	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		p.Oxygen.Rebase(s.OxygenAt(p, nowMs), nowMs)
	}
}

// UnrevealedDeaths 返回尚未公开的死亡记录索引
func (s *Snapshot) UnrevealedDeaths() []int {
	var idx []int
	for i := range s.Deaths {
		if !s.Deaths[i].Revealed {
			idx = append(idx, i)
		}
	}
	return idx
}

// UnrevealedDeathAt 某地点是否存在未公开的尸体
func (s *Snapshot) UnrevealedDeathAt(location string) bool {
	for i := range s.Deaths {
		if !s.Deaths[i].Revealed && s.Deaths[i].Location == location {
			return true
		}
	}
	return false
}
