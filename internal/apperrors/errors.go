package apperrors

import (
	"github.com/The-Joker-Game/fool-stone-sub000/internal/protocol"
)

// GameError 游戏错误（校验拒绝，携带枚举原因码，不产生任何状态变更）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

func newErr(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrRoomNotFound = newErr(protocol.ErrCodeRoomNotFound)
	ErrRoomFull     = newErr(protocol.ErrCodeRoomFull)
	ErrNotInRoom    = newErr(protocol.ErrCodeNotInRoom)
	ErrGameStarted  = newErr(protocol.ErrCodeGameStarted)
	ErrNotEnough    = newErr(protocol.ErrCodeNotEnough)
	ErrNotHost      = newErr(protocol.ErrCodeNotHost)

	ErrGameNotStart = newErr(protocol.ErrCodeGameNotStart)
	ErrWrongPhase   = newErr(protocol.ErrCodeWrongPhase)
	ErrPlayerDead   = newErr(protocol.ErrCodePlayerDead)
	ErrNoTarget     = newErr(protocol.ErrCodeNoTarget)
	ErrWrongPlace   = newErr(protocol.ErrCodeWrongPlace)
	ErrInvalidCode  = newErr(protocol.ErrCodeInvalidCode)
	ErrAlreadyActed = newErr(protocol.ErrCodeAlreadyActed)
	ErrNotEligible  = newErr(protocol.ErrCodeNotEligible)
	ErrGamePaused   = newErr(protocol.ErrCodeGamePaused)
	ErrNoCorpse     = newErr(protocol.ErrCodeNoCorpse)
	ErrTaskState    = newErr(protocol.ErrCodeTaskState)
	ErrNotInitiator = newErr(protocol.ErrCodeNotInitiator)
	ErrExtended     = newErr(protocol.ErrCodeExtended)
	ErrNoLocation   = newErr(protocol.ErrCodeNoLocation)
	ErrBadLocation  = newErr(protocol.ErrCodeBadLocation)
	ErrNoAbility    = newErr(protocol.ErrCodeNoAbility)
	ErrInvalidMsg   = newErr(protocol.ErrCodeInvalidMsg)
)
