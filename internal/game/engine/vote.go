package engine

import (
	"time"

	"github.com/The-Joker-Game/fool-stone-sub000/internal/game/state"
)

// SubmitVote 记录一张选票。targetID 为空表示弃票。
// 校验由网关完成，这里只负责写入。
func SubmitVote(s *state.Snapshot, voterID, targetID string, now time.Time) {
	s.Voting.Votes[voterID] = state.Vote{
		VoterID:     voterID,
		TargetID:    targetID,
		SubmittedAt: now.UnixMilli(),
	}
}

// AllVoted 所有具备资格的选民是否都已投票
func AllVoted(s *state.Snapshot) bool {
	if s.Phase != state.PhaseVoting || s.Voting == nil {
		return false
	}
	for _, id := range s.Voting.Eligible {
		if _, ok := s.Voting.Votes[id]; !ok {
			return false
		}
	}
	return true
}

// Tally 推导计票结果：各目标得票数与弃票数。计票永远从选票推导，从不直接修改。
func Tally(v *state.VotingState) (tally map[string]int, skips int) {
	tally = make(map[string]int)
	for _, vote := range v.Votes {
		if vote.TargetID == "" {
			skips++
			continue
		}
		tally[vote.TargetID]++
	}
	return tally, skips
}

// ResolveVotes 结算投票并进入处决公示。
// forced 为 true 时（截止触发）缺席选民按弃票补齐；
// 否则要求全员已投票，未齐则不结算。
//
// 处决规则：严格唯一多数才处决；平票 reason="tie"；
// 有效票未达法定人数（过半）reason="skip"。
func ResolveVotes(s *state.Snapshot, r Rules, now time.Time, forced bool) bool {
	if s.Frozen() || s.Phase != state.PhaseVoting || s.Voting == nil {
		return false
	}

	nowMs := now.UnixMilli()
	v := s.Voting

	if forced {
		// 截止时将缺席选民补为弃票
		for _, id := range v.Eligible {
			if _, ok := v.Votes[id]; !ok {
				v.Votes[id] = state.Vote{VoterID: id, SubmittedAt: nowMs}
			}
		}
	} else if !AllVoted(s) {
		return false
	}

	tally, skips := Tally(v)
	quorum := len(v.Eligible)/2 + 1
	cast := len(v.Eligible) - skips

	exec := &state.ExecutionState{}

	switch {
	case cast < quorum:
		exec.Reason = state.ExecReasonSkip
	default:
		top, topCount, unique := "", 0, false
		for target, n := range tally {
			switch {
			case n > topCount:
				top, topCount, unique = target, n, true
			case n == topCount:
				unique = false
			}
		}
		if !unique {
			exec.Reason = state.ExecReasonTie
		} else {
			exec.Reason = state.ExecReasonVote
			if target := s.PlayerByID(top); target != nil && target.Alive {
				target.Alive = false
				target.Oxygen.Rebase(s.OxygenAt(target, nowMs), nowMs)
				exec.ExecutedID = target.SessionID
				exec.ExecutedRole = target.Role
				s.Deaths = append(s.Deaths, state.DeathRecord{
					PlayerID: target.SessionID,
					Seat:     target.Seat,
					Cause:    state.DeathCauseVote,
					Round:    s.RoundCount,
					Revealed: true, // 处决是公开的
				})
			}
		}
	}

	// 追加投票历史
	votes := make([]state.Vote, 0, len(v.Votes))
	for _, vote := range v.Votes {
		votes = append(votes, vote)
	}
	s.VotingHistory = append(s.VotingHistory, state.VotingRecord{
		Round:      s.RoundCount,
		Votes:      votes,
		ExecutedID: exec.ExecutedID,
		Reason:     exec.Reason,
	})

	s.Phase = state.PhaseExecution
	s.Voting = nil
	s.Execution = exec
	s.PhaseStartedAt = nowMs
	s.Deadline = nowMs + r.Execution.Milliseconds()
	return true
}
