package protocol

// 错误码
const (
	ErrCodeUnknown    = 1000
	ErrCodeInvalidMsg = 1001
	ErrCodeRateLimit  = 1002 // 速率限制

	ErrCodeRoomNotFound   = 2001
	ErrCodeRoomFull       = 2002
	ErrCodeNotInRoom      = 2003
	ErrCodeGameStarted    = 2004
	ErrCodeNotEnough      = 2005 // 人数不足
	ErrCodeNotHost        = 2006 // 只有房主可以开局

	ErrCodeGameNotStart = 3001
	ErrCodeWrongPhase   = 3002 // 阶段不允许该操作
	ErrCodePlayerDead   = 3003
	ErrCodeNoTarget     = 3004 // 目标不存在或已死亡
	ErrCodeWrongPlace   = 3005 // 不在同一地点
	ErrCodeInvalidCode  = 3006 // 生命码不匹配
	ErrCodeAlreadyActed = 3007 // 本轮已使用过该动作
	ErrCodeNotEligible  = 3008 // 不在选民名单中
	ErrCodeGamePaused   = 3009 // 游戏已暂停
	ErrCodeNoCorpse     = 3010 // 当前地点没有可报告的尸体
	ErrCodeTaskState    = 3011 // 任务状态不允许该操作
	ErrCodeNotInitiator = 3012 // 只有会议发起者可以提前投票
	ErrCodeExtended     = 3013 // 会议已延长过一次
	ErrCodeNoLocation   = 3014 // 尚未分配位置
	ErrCodeBadLocation  = 3015 // 无效的地点
	ErrCodeNoAbility    = 3016 // 身份不具备该能力
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:      "未知错误",
	ErrCodeInvalidMsg:   "无效的消息格式",
	ErrCodeRateLimit:    "请求过于频繁",
	ErrCodeRoomNotFound: "房间不存在",
	ErrCodeRoomFull:     "房间已满",
	ErrCodeNotInRoom:    "您不在房间中",
	ErrCodeGameStarted:  "游戏已开始",
	ErrCodeNotEnough:    "人数不足，无法开局",
	ErrCodeNotHost:      "只有房主可以开局",
	ErrCodeGameNotStart: "游戏尚未开始",
	ErrCodeWrongPhase:   "当前阶段不允许该操作",
	ErrCodePlayerDead:   "您已出局",
	ErrCodeNoTarget:     "目标不存在或已出局",
	ErrCodeWrongPlace:   "目标不在您所在的地点",
	ErrCodeInvalidCode:  "生命码不正确",
	ErrCodeAlreadyActed: "本轮已使用过该动作",
	ErrCodeNotEligible:  "您不具备投票资格",
	ErrCodeGamePaused:   "游戏已暂停",
	ErrCodeNoCorpse:     "这里没有可报告的尸体",
	ErrCodeTaskState:    "任务当前状态不允许该操作",
	ErrCodeNotInitiator: "只有会议发起者可以提前进入投票",
	ErrCodeExtended:     "本场会议已延长过",
	ErrCodeNoLocation:   "尚未分配位置",
	ErrCodeBadLocation:  "无效的地点",
	ErrCodeNoAbility:    "您的身份不具备这项能力",
}
