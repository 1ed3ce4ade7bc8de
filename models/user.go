package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RolePlayer UserRole = "player"
)

type User struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Nickname  string    `json:"nickname"`
	ClubID    int       `json:"club_id,omitempty"`
	Role      UserRole  `json:"role"`
	Email     string    `json:"email"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}
