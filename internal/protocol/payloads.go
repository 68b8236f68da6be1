package protocol

import (
	"encoding/json"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// --- 客户端 → 服务端 ---

// JoinRoomPayload 加入房间
type JoinRoomPayload struct {
	RoomCode string `json:"room_code"`
}

// SelectLocationPayload 绿灯阶段选择目的地
type SelectLocationPayload struct {
	Location string `json:"location"`
}

// 生命码动作类型
const (
	LifeCodeKindKill   = "kill"
	LifeCodeKindAssist = "assist"
)

// LifeCodeActionPayload 提交生命码动作
type LifeCodeActionPayload struct {
	Code string `json:"code"`
	Kind string `json:"kind"` // "kill" 或 "assist"
}

// VotePayload 投票，TargetID 为空表示弃票
type VotePayload struct {
	TargetID string `json:"target_id,omitempty"`
}

// CompleteTaskPayload 提交任务结果（小游戏结果对核心不透明，只消费布尔值）
type CompleteTaskPayload struct {
	Success bool `json:"success"`
}

// GetLeaderboardPayload 排行榜查询
type GetLeaderboardPayload struct {
	Limit int `json:"limit,omitempty"`
}

// --- 服务端 → 客户端 ---

// ConnectedPayload 连接成功
type ConnectedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// RoomCreatedPayload 房间创建成功
type RoomCreatedPayload struct {
	RoomCode string `json:"room_code"`
	Seat     int    `json:"seat"`
}

// RoomJoinedPayload 加入房间成功
type RoomJoinedPayload struct {
	RoomCode string `json:"room_code"`
	Seat     int    `json:"seat"`
}

// PlayerJoinedPayload 其他玩家加入
type PlayerJoinedPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Seat       int    `json:"seat"`
}

// PlayerLeftPayload 玩家离开
type PlayerLeftPayload struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

// SnapshotPayload 完整快照广播。核心不做任何可见性过滤，由展示层裁剪。
type SnapshotPayload struct {
	Timestamp int64           `json:"ts"`
	State     *state.Snapshot `json:"state"`
}

// StatsResultPayload 个人统计查询结果
type StatsResultPayload struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	TotalGames int     `json:"total_games"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"win_rate"`
	GooseGames int     `json:"goose_games"`
	GooseWins  int     `json:"goose_wins"`
	DuckGames  int     `json:"duck_games"`
	DuckWins   int     `json:"duck_wins"`
	Score      int     `json:"score"`
	Rank       int     `json:"rank"`
}

// LeaderboardEntryPayload 排行榜条目
type LeaderboardEntryPayload struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// LeaderboardResultPayload 排行榜查询结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntryPayload `json:"entries"`
}

// ActionResultPayload 意图处理结果
type ActionResultPayload struct {
	Action string          `json:"action"`
	OK     bool            `json:"ok"`
	Msg    string          `json:"msg,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
