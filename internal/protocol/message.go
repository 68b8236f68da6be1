package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing MessageType = "ping" // 心跳 ping

	// 房间操作
	MsgCreateRoom MessageType = "create_room" // 创建房间
	MsgJoinRoom   MessageType = "join_room"   // 加入房间
	MsgLeaveRoom  MessageType = "leave_room"  // 离开房间
	MsgStartGame  MessageType = "start_game"  // 房主开局

	// 游戏意图
	MsgSelectLocation MessageType = "select_location"         // 绿灯选择目的地
	MsgConfirmArrival MessageType = "confirm_arrival"         // 黄灯确认到达
	MsgLifeCodeAction MessageType = "submit_life_code_action" // 提交生命码（击杀/援助）
	MsgVote           MessageType = "vote"                    // 投票（目标为空表示弃票）
	MsgReport         MessageType = "report"                  // 报告尸体
	MsgMeetingVote    MessageType = "meeting_start_vote"      // 会议提前进入投票
	MsgMeetingExtend  MessageType = "meeting_extend"          // 延长会议
	MsgTogglePause    MessageType = "toggle_pause"            // 暂停/恢复
	MsgStartTask      MessageType = "start_task"              // 开启共享任务
	MsgCompleteTask   MessageType = "complete_task"           // 提交任务结果

	// 统计
	MsgGetStats       MessageType = "get_stats"       // 获取个人统计
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected MessageType = "connected" // 连接成功
	MsgPong      MessageType = "pong"      // 心跳 pong

	// 房间相关
	MsgRoomCreated  MessageType = "room_created"  // 房间创建成功
	MsgRoomJoined   MessageType = "room_joined"   // 加入房间成功
	MsgPlayerJoined MessageType = "player_joined" // 其他玩家加入
	MsgPlayerLeft   MessageType = "player_left"   // 玩家离开

	// 游戏流程
	MsgSnapshot     MessageType = "snapshot"      // 完整快照广播
	MsgActionResult MessageType = "action_result" // 意图处理结果

	// 统计
	MsgStatsResult       MessageType = "stats_result"       // 个人统计结果
	MsgLeaderboardResult MessageType = "leaderboard_result" // 排行榜结果

	// 错误
	MsgError MessageType = "error" // 错误消息
)
