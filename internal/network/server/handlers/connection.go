package handlers

import (
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/types"
)

// handlePing 心跳响应
func (h *Handler) handlePing(client types.ClientInterface) {
	client.SendMessage(protocol.MustNewMessage(protocol.MsgPong, nil))
}
