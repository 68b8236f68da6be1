package handlers

import (
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/types"
)

// handleCreateRoom 处理创建房间
func (h *Handler) handleCreateRoom(client types.ClientInterface) {
	// 如果已在房间中，先离开
	if client.GetRoom() != "" {
		h.server.RoomManager().LeaveRoom(client)
	}

	r, err := h.server.RoomManager().CreateRoom(client)
	if err != nil {
		sendError(client, err)
		return
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomCreated, protocol.RoomCreatedPayload{
		RoomCode: r.Code,
		Seat:     1,
	}))
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, err := protocol.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return
	}

	// 如果已在房间中，先离开
	if client.GetRoom() != "" && client.GetRoom() != payload.RoomCode {
		h.server.RoomManager().LeaveRoom(client)
	}

	r, err := h.server.RoomManager().JoinRoom(client, payload.RoomCode)
	if err != nil {
		sendError(client, err)
		return
	}

	var seat int
	if p := r.Snapshot().PlayerByID(client.GetID()); p != nil {
		seat = p.Seat
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		Seat:     seat,
	}))
}

// handleLeaveRoom 处理离开房间
func (h *Handler) handleLeaveRoom(client types.ClientInterface) {
	h.server.RoomManager().LeaveRoom(client)
}

// handleStartGame 房主开局
func (h *Handler) handleStartGame(client types.ClientInterface) {
	r := h.roomOf(client)
	if r == nil {
		client.SendMessage(protocol.NewErrorMessage(protocol.ErrCodeNotInRoom))
		return
	}
	if err := r.StartGame(client.GetID()); err != nil {
		sendError(client, err)
		return
	}
	sendActionOK(client, string(protocol.MsgStartGame), nil)
}
