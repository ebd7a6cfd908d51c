package repository

import (
	"context"

	"snake-game/internal/domain"
)

// GameSessionRepository exposes persistence operations for game outcomes.
type GameSessionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, session *domain.GameSession) (int64, error)
	// ListByUser returns a user's sessions ordered by played_at descending.
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.GameSession, error)
	// TopByScore returns the highest-scoring sessions across all users,
	// score descending with earlier played_at winning ties.
	TopByScore(ctx context.Context, limit int) ([]domain.GameSession, error)
}
