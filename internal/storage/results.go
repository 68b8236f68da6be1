// Package storage 保存已结束对局的结果与玩家排行榜。
// 进行中的房间快照从不落盘，生命周期完全在内存中。
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	matchKeyPrefix  = "match:"
	matchHistoryKey = "match:history"
	playerStatsKey  = "player:stats:"
	leaderboardKey  = "leaderboard:score"

	// 对局记录过期时间
	matchExpiration = 7 * 24 * time.Hour
	// 历史列表长度上限
	matchHistoryLimit = 1000
)

// MatchPlayer 对局中一名玩家的终局信息
type MatchPlayer struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Alive    bool   `json:"alive"`
}

// MatchRecord 一局的终局记录
type MatchRecord struct {
	RoomCode string        `json:"room_code"`
	Winner   string        `json:"winner"` // "goose" 或 "duck"
	Reason   string        `json:"reason"`
	Rounds   int           `json:"rounds"`
	EndedAt  int64         `json:"ended_at"`
	Players  []MatchPlayer `json:"players"`
}

// ResultStore 对局结果存储
type ResultStore struct {
	client *redis.Client
}

// NewResultStore 创建结果存储
func NewResultStore(client *redis.Client) *ResultStore {
	return &ResultStore{client: client}
}

// SaveMatch 保存一局终局记录
func (rs *ResultStore) SaveMatch(ctx context.Context, rec *MatchRecord) error {
	if rec == nil {
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("序列化对局记录失败: %w", err)
	}

	key := fmt.Sprintf("%s%s:%d", matchKeyPrefix, rec.RoomCode, rec.EndedAt)
	pipe := rs.client.Pipeline()
	pipe.Set(ctx, key, data, matchExpiration)
	pipe.LPush(ctx, matchHistoryKey, key)
	pipe.LTrim(ctx, matchHistoryKey, 0, matchHistoryLimit-1)
	_, err = pipe.Exec(ctx)
	return err
}

// LoadMatch 读取一条对局记录
func (rs *ResultStore) LoadMatch(ctx context.Context, key string) (*MatchRecord, error) {
	data, err := rs.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var rec MatchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecentMatches 返回最近若干局的 key 列表
func (rs *ResultStore) RecentMatches(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	return rs.client.LRange(ctx, matchHistoryKey, 0, int64(limit-1)).Result()
}
