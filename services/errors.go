package services

import "errors"

// Общие ошибки сервисного слоя; HTTP-маппинг живёт в handlers.
var (
	// Не найдено
	ErrGameNotFound      = errors.New("game not found")
	ErrGameScoreNotFound = errors.New("game score not found")
	ErrUserNotFound      = errors.New("user not found")

	// Валидация счёта
	ErrScoreTied     = errors.New("team scores must not be equal")
	ErrScoreNegative = errors.New("team scores must be non-negative")
	ErrInvalidTeam   = errors.New("team must be 1 or 2")

	// Авторизация
	ErrNotGameParticipant  = errors.New("user is not a participant of this game")
	ErrWrongTeamSubmission = errors.New("user is not a member of the submitting team")
	ErrOwnTeamReaction     = errors.New("a team cannot react to its own submission")
	ErrAdminRequired       = errors.New("administrator role required")
	ErrAdminWrongClub      = errors.New("administrator is not scoped to the club of this game")

	// Конфликты и гонки состояний
	ErrActiveScoreExists = errors.New("an active score submission already exists for this game")
	ErrScoreNotPending   = errors.New("score submission is not pending")
	ErrScoreAlreadyFinal = errors.New("score submission is already finalized")
)
