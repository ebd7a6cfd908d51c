package domain

import "time"

// User represents a registered player of the game.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	LastLogin    time.Time
}
