package room

import (
	"log"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/apperrors"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/engine"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/metrics"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/types"
)

// AddClient 玩家加入房间。对局开始后座位表即冻结，
// 之后的 AddClient 只允许已有座位的玩家重连。
func (r *Room) AddClient(client types.ClientInterface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return apperrors.ErrRoomNotFound
	}

	s := r.snap

	// 重连：座位还在就恢复连接并补发快照
	if p := s.PlayerByID(client.GetID()); p != nil {
		r.clients[client.GetID()] = client
		log.Printf("🔄 玩家 %s 重连到房间 %s（座位 %d）", client.GetName(), r.Code, p.Seat)
		r.broadcastLocked()
		return nil
	}

	if s.Phase != state.PhaseLobby {
		return apperrors.ErrGameStarted
	}
	if len(s.Players) >= r.maxPlayers {
		return apperrors.ErrRoomFull
	}

	p := &state.Player{
		Seat:      len(s.Players) + 1,
		SessionID: client.GetID(),
		Name:      client.GetName(),
		Alive:     true,
	}
	s.Players = append(s.Players, p)
	r.clients[client.GetID()] = client

	log.Printf("👤 玩家 %s 加入房间 %s（座位 %d，%d/%d）",
		client.GetName(), r.Code, p.Seat, len(s.Players), r.maxPlayers)

	r.notifyJoinedLocked(client, p)
	return nil
}

// RemoveClient 玩家离开。大厅阶段释放座位并重排座号，
// 对局中只断开连接，座位与角色保留等待重连。
func (r *Room) RemoveClient(clientID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	client, ok := r.clients[clientID]
	if !ok {
		return
	}
	delete(r.clients, clientID)

	s := r.snap
	if s.Phase != state.PhaseLobby {
		log.Printf("🔌 玩家 %s 掉线，房间 %s 保留其座位", clientID, r.Code)
		r.broadcastLocked()
		return
	}

	for i, p := range s.Players {
		if p.SessionID == clientID {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			break
		}
	}
	for i, p := range s.Players {
		p.Seat = i + 1
	}

	log.Printf("👋 玩家 %s 离开房间 %s（剩余 %d 人）", client.GetName(), r.Code, len(s.Players))
	r.notifyLeftLocked(clientID, client.GetName())
}

// StartGame 房主（1 号座）发起开局
func (r *Room) StartGame(clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return apperrors.ErrRoomNotFound
	}

	s := r.snap
	host := s.PlayerBySeat(1)
	if host == nil || host.SessionID != clientID {
		return apperrors.ErrNotHost
	}
	if s.Phase != state.PhaseLobby {
		return apperrors.ErrGameStarted
	}
	if len(s.Players) < r.minPlayers {
		return apperrors.ErrNotEnough
	}

	now := r.now()
	engine.StartGame(s, r.rules, now)
	metrics.GamesStarted.Inc()
	log.Printf("🎮 房间 %s 开局：%d 名玩家，%d 只鸭子", r.Code, len(s.Players), r.rules.DuckCount(len(s.Players)))
	r.syncLocked(now)
	return nil
}

// PlayerCount 当前座位数
func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snap.Players)
}

// Empty 房间内没有任何在线连接
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients) == 0
}

// Finished 对局已终局
func (r *Room) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.Frozen()
}

// InLobby 尚未开局
func (r *Room) InLobby() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.Phase == state.PhaseLobby
}

func (r *Room) notifyJoinedLocked(client types.ClientInterface, p *state.Player) {
	joined := protocol.MustNewMessage(protocol.MsgPlayerJoined, protocol.PlayerJoinedPayload{
		PlayerID:   p.SessionID,
		PlayerName: p.Name,
		Seat:       p.Seat,
	})
	for id, c := range r.clients {
		if id == p.SessionID {
			continue
		}
		c.SendMessage(joined)
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgRoomJoined, protocol.RoomJoinedPayload{
		RoomCode: r.Code,
		Seat:     p.Seat,
	}))
	r.broadcastLocked()
}

func (r *Room) notifyLeftLocked(playerID, playerName string) {
	left := protocol.MustNewMessage(protocol.MsgPlayerLeft, protocol.PlayerLeftPayload{
		PlayerID:   playerID,
		PlayerName: playerName,
	})
	for _, c := range r.clients {
		c.SendMessage(left)
	}
	r.broadcastLocked()
}
