package handlers

import (
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/room"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/types"
)

// inRoom 找到客户端所在房间，不在房间时直接回错
func (h *Handler) inRoom(client types.ClientInterface) *room.Room {
	r := h.roomOf(client)
	if r == nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
	}
	return r
}

// handleSelectLocation 绿灯阶段选择目的地
func (h *Handler) handleSelectLocation(client types.ClientInterface, msg *protocol.Message) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	payload, err := protocol.ParsePayload[protocol.SelectLocationPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if err := r.HandleSelectLocation(client.GetID(), payload.Location); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgSelectLocation), nil)
}

// handleConfirmArrival 黄灯阶段确认到达
func (h *Handler) handleConfirmArrival(client types.ClientInterface) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	if err := r.HandleConfirmArrival(client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgConfirmArrival), nil)
}

// handleLifeCodeAction 红灯阶段提交生命码（击杀或援助）
func (h *Handler) handleLifeCodeAction(client types.ClientInterface, msg *protocol.Message) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	payload, err := protocol.ParsePayload[protocol.LifeCodeActionPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	data, err := r.HandleLifeCodeAction(client.GetID(), payload.Code, payload.Kind)
	if err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgLifeCodeAction), data)
}

// handleVote 投票阶段提交选票
func (h *Handler) handleVote(client types.ClientInterface, msg *protocol.Message) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	payload, err := protocol.ParsePayload[protocol.VotePayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if err := r.HandleVote(client.GetID(), payload.TargetID); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgVote), nil)
}

// handleReport 红灯阶段报告尸体
func (h *Handler) handleReport(client types.ClientInterface) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	if err := r.HandleReport(client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgReport), nil)
}

// handleMeetingStartVote 会议提前进入投票
func (h *Handler) handleMeetingStartVote(client types.ClientInterface) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	if err := r.HandleMeetingStartVote(client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgMeetingVote), nil)
}

// handleMeetingExtend 延长会议
func (h *Handler) handleMeetingExtend(client types.ClientInterface) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	if err := r.HandleMeetingExtend(client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgMeetingExtend), nil)
}

// handleTogglePause 暂停或恢复
func (h *Handler) handleTogglePause(client types.ClientInterface) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	if err := r.HandleTogglePause(client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgTogglePause), nil)
}

// handleStartTask 开启或加入共享任务
func (h *Handler) handleStartTask(client types.ClientInterface) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	if err := r.HandleStartTask(client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgStartTask), nil)
}

// handleCompleteTask 提交任务结果
func (h *Handler) handleCompleteTask(client types.ClientInterface, msg *protocol.Message) {
	r := h.inRoom(client)
	if r == nil {
		return
	}
	payload, err := protocol.ParsePayload[protocol.CompleteTaskPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}
	if err := r.HandleCompleteTask(client.GetID(), payload.Success); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgCompleteTask), nil)
}
