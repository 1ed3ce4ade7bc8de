package models

import "time"

// RatingHistory — append-only журнал применённых дельт рейтинга.
// Уникальность (user_id, game_score_id) гарантирует не больше одной
// дельты на пользователя за одну финализацию.
type RatingHistory struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	GameScoreID  int       `json:"game_score_id"`
	RatingBefore float64   `json:"rating_before"`
	RatingAfter  float64   `json:"rating_after"`
	Delta        float64   `json:"delta"`
	CreatedAt    time.Time `json:"created_at"`
}
