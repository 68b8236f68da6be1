package handlers

import (
	"errors"
	"log"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/apperrors"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/room"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/storage"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/types"
)

// ServerContext 处理器对服务器的依赖
type ServerContext interface {
	RoomManager() *room.RoomManager
	ResultStore() *storage.ResultStore // 可能为 nil
	GetOnlineCount() int
}

// Handler 消息处理器
type Handler struct {
	server ServerContext
}

// NewHandler 创建处理器
func NewHandler(s ServerContext) *Handler {
	return &Handler{server: s}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	switch msg.Type {
	// 连接操作
	case protocol.MsgPing:
		h.handlePing(client)

	// 房间操作
	case protocol.MsgCreateRoom:
		h.handleCreateRoom(client)
	case protocol.MsgJoinRoom:
		h.handleJoinRoom(client, msg)
	case protocol.MsgLeaveRoom:
		h.handleLeaveRoom(client)
	case protocol.MsgStartGame:
		h.handleStartGame(client)

	// 游戏操作
	case protocol.MsgSelectLocation:
		h.handleSelectLocation(client, msg)
	case protocol.MsgConfirmArrival:
		h.handleConfirmArrival(client)
	case protocol.MsgLifeCodeAction:
		h.handleLifeCodeAction(client, msg)
	case protocol.MsgVote:
		h.handleVote(client, msg)
	case protocol.MsgReport:
		h.handleReport(client)
	case protocol.MsgMeetingVote:
		h.handleMeetingStartVote(client)
	case protocol.MsgMeetingExtend:
		h.handleMeetingExtend(client)
	case protocol.MsgTogglePause:
		h.handleTogglePause(client)
	case protocol.MsgStartTask:
		h.handleStartTask(client)
	case protocol.MsgCompleteTask:
		h.handleCompleteTask(client, msg)

	// 战绩操作
	case protocol.MsgGetStats:
		h.handleGetStats(client)
	case protocol.MsgGetLeaderboard:
		h.handleGetLeaderboard(client, msg)

	default:
		log.Printf("⚠️  未知消息类型: '%s' (来自玩家: %s, ID: %s)", msg.Type, client.GetName(), client.GetID())
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
	}
}

// roomOf 找到客户端所在房间
func (h *Handler) roomOf(client types.ClientInterface) *room.Room {
	return h.server.RoomManager().GetRoom(client.GetRoom())
}

// sendError 把动作失败的原因回给客户端
func sendError(client types.ClientInterface, err error) {
	var gerr *apperrors.GameError
	if errors.As(err, &gerr) {
		client.SendMessage(protocol.NewErrorMessage(gerr.Code))
		return
	}
	client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, err.Error()))
}

// sendActionOK 通知动作成功
func sendActionOK(client types.ClientInterface, action string, data []byte) {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgActionResult, protocol.ActionResultPayload{
		Action: action,
		OK:     true,
		Data:   data,
	}))
}
