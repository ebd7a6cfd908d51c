package service

import (
	"context"

	"snake-game/internal/domain"
	"snake-game/internal/repository"
)

const defaultListLimit = 10

// GameService coordinates recording of game outcomes and the derived
// read views (per-user history, public leaderboard).
type GameService interface {
	RecordSession(ctx context.Context, user *domain.User, score, durationSeconds int) (*domain.GameSession, error)
	History(ctx context.Context, user *domain.User, limit int) ([]domain.GameSession, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type gameService struct {
	sessions repository.GameSessionRepository
}

func NewGameService(sessions repository.GameSessionRepository) GameService {
	return &gameService{sessions: sessions}
}

// RecordSession persists one completed game for the given user. The played_at
// timestamp is assigned server-side; score and duration are stored as
// reported, with no bounds checking (the client is trusted).
func (s *gameService) RecordSession(ctx context.Context, user *domain.User, score, durationSeconds int) (*domain.GameSession, error) {
	session := &domain.GameSession{
		UserID:          user.ID,
		Username:        user.Username,
		Score:           score,
		DurationSeconds: durationSeconds,
	}

	if _, err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *gameService) History(ctx context.Context, user *domain.User, limit int) ([]domain.GameSession, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return s.sessions.ListByUser(ctx, user.ID, limit)
}

// Leaderboard ranks sessions by score descending and assigns 1-based ranks.
// The result is a snapshot; sessions recorded afterwards are not reflected.
func (s *gameService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	sessions, err := s.sessions.TopByScore(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, len(sessions))
	for i, sess := range sessions {
		entries[i] = domain.LeaderboardEntry{
			Rank:     i + 1,
			Username: sess.Username,
			Score:    sess.Score,
			PlayedAt: sess.PlayedAt,
		}
	}
	return entries, nil
}
