package models

import "time"

type GameScoreStatus string

const (
	ScoreStatusPending   GameScoreStatus = "pending"
	ScoreStatusConfirmed GameScoreStatus = "confirmed"
	ScoreStatusDisputed  GameScoreStatus = "disputed"
	ScoreStatusResolved  GameScoreStatus = "resolved"
)

// IsActive — запись ещё ждёт реакции (подтверждения или решения админа).
func (s GameScoreStatus) IsActive() bool {
	return s == ScoreStatusPending || s == ScoreStatusDisputed
}

// IsTerminal — запись финализирована, дальнейшие переходы запрещены.
func (s GameScoreStatus) IsTerminal() bool {
	return s == ScoreStatusConfirmed || s == ScoreStatusResolved
}

type ConfirmationAction string

const (
	ActionConfirm ConfirmationAction = "confirm"
	ActionCounter ConfirmationAction = "counter"
)

// GameScore — одна попытка зафиксировать результат игры.
// Запись никогда не удаляется: это аудит-след.
type GameScore struct {
	ID              int             `json:"id"`
	GameID          int             `json:"game_id"`
	Team1Score      int             `json:"team1_score"`
	Team2Score      int             `json:"team2_score"`
	SubmittedByTeam int             `json:"submitted_by_team"`
	SubmittedByUser int             `json:"submitted_by_user"`
	Status          GameScoreStatus `json:"status"`
	FinalTeam1Score *int            `json:"final_team1_score,omitempty"`
	FinalTeam2Score *int            `json:"final_team2_score,omitempty"`
	AdminResolved   bool            `json:"admin_resolved"`
	AdminNotes      *string         `json:"admin_notes,omitempty"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// WinningTeam возвращает номер победившей команды по финальному счёту,
// либо 0, если запись ещё не финализирована.
func (gs *GameScore) WinningTeam() int {
	if !gs.Status.IsTerminal() || gs.FinalTeam1Score == nil || gs.FinalTeam2Score == nil {
		return 0
	}
	if *gs.FinalTeam1Score > *gs.FinalTeam2Score {
		return 1
	}
	return 2
}

// ScoreConfirmation — реакция противоположной команды на активный GameScore.
// Записи только добавляются.
type ScoreConfirmation struct {
	ID                int                `json:"id"`
	GameScoreID       int                `json:"game_score_id"`
	ConfirmingTeam    int                `json:"confirming_team"`
	ConfirmingUser    int                `json:"confirming_user"`
	Action            ConfirmationAction `json:"action"`
	CounterTeam1Score *int               `json:"counter_team1_score,omitempty"`
	CounterTeam2Score *int               `json:"counter_team2_score,omitempty"`
	CounterNotes      *string            `json:"counter_notes,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}
