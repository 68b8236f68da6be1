package room

import (
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/apperrors"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/config"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/engine"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/metrics"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/types"
)

const (
	roomCodeLength = 6            // 房间号长度
	roomCodeChars  = "0123456789" // 房间号字符集
)

// RoomManager 管理全部房间的创建、查找与清理
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	rules       engine.Rules
	minPlayers  int
	maxPlayers  int
	recorder    ResultRecorder
	roomTimeout time.Duration
}

func NewRoomManager(cfg *config.GameConfig, recorder ResultRecorder, roomTimeout time.Duration) *RoomManager {
	rm := &RoomManager{
		rooms:       make(map[string]*Room),
		rules:       engine.RulesFromConfig(cfg),
		minPlayers:  cfg.MinPlayers,
		maxPlayers:  cfg.MaxPlayers,
		recorder:    recorder,
		roomTimeout: roomTimeout,
	}

	// 启动房间清理协程
	go rm.cleanupLoop()

	return rm
}

// CreateRoom 创建房间并让创建者入座
func (rm *RoomManager) CreateRoom(client types.ClientInterface) (*Room, error) {
	rm.mu.Lock()
	code := rm.generateRoomCode()
	room := newRoom(code, rm.rules, rm.minPlayers, rm.maxPlayers, rm.recorder)
	rm.rooms[code] = room
	rm.mu.Unlock()

	if err := room.AddClient(client); err != nil {
		rm.mu.Lock()
		delete(rm.rooms, code)
		rm.mu.Unlock()
		return nil, err
	}
	client.SetRoom(code)
	metrics.RoomsActive.Inc()

	log.Printf("🏠 房间 %s 已创建，玩家 %s", code, client.GetName())
	return room, nil
}

// JoinRoom 加入房间
func (rm *RoomManager) JoinRoom(client types.ClientInterface, code string) (*Room, error) {
	rm.mu.RLock()
	room, exists := rm.rooms[code]
	rm.mu.RUnlock()
	if !exists {
		return nil, apperrors.ErrRoomNotFound
	}

	if err := room.AddClient(client); err != nil {
		return nil, err
	}
	client.SetRoom(code)
	return room, nil
}

// LeaveRoom 离开房间。大厅中空房随即解散，对局中保留座位等待重连。
func (rm *RoomManager) LeaveRoom(client types.ClientInterface) {
	code := client.GetRoom()
	if code == "" {
		return
	}

	rm.mu.RLock()
	room, exists := rm.rooms[code]
	rm.mu.RUnlock()
	if !exists {
		return
	}

	room.RemoveClient(client.GetID())
	client.SetRoom("")

	if room.InLobby() && room.PlayerCount() == 0 {
		rm.removeRoom(code, room)
		log.Printf("🏠 房间 %s 已解散", code)
	}
}

// GetRoom 获取房间
func (rm *RoomManager) GetRoom(code string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return rm.rooms[code]
}

// GetRoomByPlayerID 通过玩家 ID 获取房间
func (rm *RoomManager) GetRoomByPlayerID(playerID string) *Room {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	for _, room := range rm.rooms {
		if room.Snapshot().PlayerByID(playerID) != nil {
			return room
		}
	}
	return nil
}

// GetActiveGamesCount 进行中的对局数量
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, room := range rm.rooms {
		if !room.InLobby() && !room.Finished() {
			count++
		}
	}
	return count
}

// generateRoomCode 生成房间号
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// cleanupLoop 定期清理超时房间
func (rm *RoomManager) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rm.cleanup()
	}
}

// cleanup 清理无人连接的房间、超时未开局的大厅房间与已终局房间
func (rm *RoomManager) cleanup() {
	rm.mu.RLock()
	type victim struct {
		code string
		room *Room
	}
	var victims []victim
	now := time.Now()
	for code, room := range rm.rooms {
		switch {
		case room.Empty():
			victims = append(victims, victim{code, room})
		case room.InLobby() && now.Sub(room.CreatedAt) > rm.roomTimeout:
			victims = append(victims, victim{code, room})
		case room.Finished():
			victims = append(victims, victim{code, room})
		}
	}
	rm.mu.RUnlock()

	for _, v := range victims {
		rm.removeRoom(v.code, v.room)
		log.Printf("🧹 房间 %s 已清理", v.code)
	}
}

func (rm *RoomManager) removeRoom(code string, room *Room) {
	rm.mu.Lock()
	if _, exists := rm.rooms[code]; !exists {
		rm.mu.Unlock()
		return
	}
	delete(rm.rooms, code)
	rm.mu.Unlock()

	room.Teardown()
	metrics.RoomsActive.Dec()
}
