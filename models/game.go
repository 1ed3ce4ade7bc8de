package models

import "time"

// Game — внешняя сущность платформы (бронирования, турниры).
// Движок согласования читает её только для проверок участия и клуба.
type Game struct {
	ID        int       `json:"id"`
	ClubID    int       `json:"club_id"`
	CourtID   *int      `json:"court_id,omitempty"`
	PlayedAt  time.Time `json:"played_at"`
	CreatedAt time.Time `json:"created_at"`
}

// GamePlayer — строка ростера: кто играет за какую сторону (1 или 2).
type GamePlayer struct {
	GameID int `json:"game_id"`
	UserID int `json:"user_id"`
	Team   int `json:"team"`
}
