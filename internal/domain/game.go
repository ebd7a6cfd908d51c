package domain

import "time"

// GameSession records the outcome of a single completed game.
// Sessions are append-only; nothing mutates or deletes them after creation.
type GameSession struct {
	ID              int64
	UserID          int64
	Username        string
	Score           int
	DurationSeconds int
	PlayedAt        time.Time
}

// LeaderboardEntry is one row of the ranked public score view.
type LeaderboardEntry struct {
	Rank     int
	Username string
	Score    int
	PlayedAt time.Time
}
