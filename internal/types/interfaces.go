package types

import (
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
)

// ClientInterface 客户端接口 - 避免 room 与网络层的循环依赖
type ClientInterface interface {
	GetID() string
	GetName() string
	GetRoom() string
	SetRoom(roomCode string)
	SendMessage(msg *protocol.Message)
	Close()
}
