package handlers

import (
	"context"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
	"github.com/The-Joker-Game/fool-stone-sub000/internal/types"
)

// handleGetStats 获取个人统计
func (h *Handler) handleGetStats(client types.ClientInterface) {
	store := h.server.ResultStore()
	if store == nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "战绩服务不可用"))
		return
	}

	ctx := context.Background()
	stats, err := store.GetPlayerStats(ctx, client.GetID())
	if err != nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取统计失败"))
		return
	}

	if stats == nil {
		// 没有统计数据，返回空数据
		client.SendMessage(protocol.MustNewMessage(protocol.MsgStatsResult, protocol.StatsResultPayload{
			PlayerID:   client.GetID(),
			PlayerName: client.GetName(),
		}))
		return
	}

	rank, _ := store.GetPlayerRank(ctx, client.GetID())

	winRate := 0.0
	if stats.TotalGames > 0 {
		winRate = float64(stats.Wins) / float64(stats.TotalGames)
	}

	client.SendMessage(protocol.MustNewMessage(protocol.MsgStatsResult, protocol.StatsResultPayload{
		PlayerID:   stats.PlayerID,
		PlayerName: stats.PlayerName,
		TotalGames: stats.TotalGames,
		Wins:       stats.Wins,
		Losses:     stats.Losses,
		WinRate:    winRate,
		GooseGames: stats.GooseGames,
		GooseWins:  stats.GooseWins,
		DuckGames:  stats.DuckGames,
		DuckWins:   stats.DuckWins,
		Score:      stats.Score,
		Rank:       int(rank),
	}))
}

// handleGetLeaderboard 获取排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	store := h.server.ResultStore()
	if store == nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "战绩服务不可用"))
		return
	}

	payload, err := protocol.ParsePayload[protocol.GetLeaderboardPayload](msg)
	if err != nil {
		payload = &protocol.GetLeaderboardPayload{Limit: 10}
	}
	if payload.Limit <= 0 || payload.Limit > 50 {
		payload.Limit = 10
	}

	entries, err := store.GetLeaderboard(context.Background(), payload.Limit)
	if err != nil {
		client.SendMessage(protocol.NewErrorMessageWithText(protocol.ErrCodeUnknown, "获取排行榜失败"))
		return
	}

	result := protocol.LeaderboardResultPayload{
		Entries: make([]protocol.LeaderboardEntryPayload, 0, len(entries)),
	}
	for _, e := range entries {
		result.Entries = append(result.Entries, protocol.LeaderboardEntryPayload{
			Rank:       e.Rank,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Score:      e.Score,
			Wins:       e.Wins,
			WinRate:    e.WinRate,
		})
	}
	client.SendMessage(protocol.MustNewMessage(protocol.MsgLeaderboardResult, result))
}
