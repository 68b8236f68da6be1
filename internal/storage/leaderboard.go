package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// PlayerStats 玩家统计数据
type PlayerStats struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`

	// 总计
	TotalGames int `json:"total_games"` // 总场次
	Wins       int `json:"wins"`        // 胜场
	Losses     int `json:"losses"`      // 败场

	// 鹅/鸭分开统计
	GooseGames int `json:"goose_games"` // 鹅场次
	GooseWins  int `json:"goose_wins"`  // 鹅胜场
	DuckGames  int `json:"duck_games"`  // 鸭场次
	DuckWins   int `json:"duck_wins"`   // 鸭胜场

	// 积分
	Score int `json:"score"`

	// 时间
	LastPlayedAt int64 `json:"last_played_at"`
	CreatedAt    int64 `json:"created_at"`
}

// 积分规则
const (
	WinAsDuck   = 30  // 鸭子获胜（以少胜多）
	WinAsGoose  = 15  // 鹅获胜
	LoseAsDuck  = -20 // 鸭子失败
	LoseAsGoose = -10 // 鹅失败
)

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	Wins       int     `json:"wins"`
	WinRate    float64 `json:"win_rate"`
}

// RecordPlayerResult 记录一名玩家的单局结果并更新排行榜
func (rs *ResultStore) RecordPlayerResult(ctx context.Context, playerID, playerName string, isDuck, isWinner bool) error {
	stats, err := rs.GetPlayerStats(ctx, playerID)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	if stats == nil {
		stats = &PlayerStats{
			PlayerID:  playerID,
			CreatedAt: now,
		}
	}
	stats.PlayerName = playerName
	stats.LastPlayedAt = now
	stats.TotalGames++

	delta := 0
	switch {
	case isDuck && isWinner:
		delta = WinAsDuck
	case isDuck:
		delta = LoseAsDuck
	case isWinner:
		delta = WinAsGoose
	default:
		delta = LoseAsGoose
	}

	if isDuck {
		stats.DuckGames++
		if isWinner {
			stats.DuckWins++
		}
	} else {
		stats.GooseGames++
		if isWinner {
			stats.GooseWins++
		}
	}
	if isWinner {
		stats.Wins++
	} else {
		stats.Losses++
	}
	stats.Score += delta

	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	pipe := rs.client.Pipeline()
	pipe.Set(ctx, playerStatsKey+playerID, data, 0)
	pipe.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(stats.Score), Member: playerID})
	_, err = pipe.Exec(ctx)
	return err
}

// GetPlayerStats 获取玩家统计，不存在时返回 nil
func (rs *ResultStore) GetPlayerStats(ctx context.Context, playerID string) (*PlayerStats, error) {
	data, err := rs.client.Get(ctx, playerStatsKey+playerID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var stats PlayerStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetLeaderboard 按积分从高到低返回前 limit 名
func (rs *ResultStore) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	ids, err := rs.client.ZRevRange(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(ids))
	for i, id := range ids {
		stats, err := rs.GetPlayerStats(ctx, id)
		if err != nil || stats == nil {
			continue
		}
		winRate := 0.0
		if stats.TotalGames > 0 {
			winRate = float64(stats.Wins) / float64(stats.TotalGames)
		}
		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			PlayerID:   stats.PlayerID,
			PlayerName: stats.PlayerName,
			Score:      stats.Score,
			Wins:       stats.Wins,
			WinRate:    winRate,
		})
	}
	return entries, nil
}

// GetPlayerRank 返回玩家排名（从 1 开始），未上榜返回 0
func (rs *ResultStore) GetPlayerRank(ctx context.Context, playerID string) (int64, error) {
	rank, err := rs.client.ZRevRank(ctx, leaderboardKey, playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return rank + 1, nil
}
