//go:build !production

package testutil

import (
	"context"
	"sync"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/storage"
)

// RecorderSpy 记录终局落盘调用，供房间测试断言
type RecorderSpy struct {
	mu      sync.Mutex
	Matches []*storage.MatchRecord
	Results []PlayerResultCall
}

type PlayerResultCall struct {
	PlayerID   string
	PlayerName string
	IsDuck     bool
	IsWinner   bool
}

func (r *RecorderSpy) SaveMatch(_ context.Context, rec *storage.MatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Matches = append(r.Matches, rec)
	return nil
}

func (r *RecorderSpy) RecordPlayerResult(_ context.Context, playerID, playerName string, isDuck, isWinner bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Results = append(r.Results, PlayerResultCall{playerID, playerName, isDuck, isWinner})
	return nil
}

// SavedMatches 并发安全地读取已保存的对局
func (r *RecorderSpy) SavedMatches() []*storage.MatchRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*storage.MatchRecord(nil), r.Matches...)
}
