package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"snake-game/internal/domain"
	"snake-game/internal/repository"
)

const createGameSessionsTable = `
CREATE TABLE IF NOT EXISTS game_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	score INTEGER NOT NULL DEFAULT 0,
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	played_at DATETIME NOT NULL
);
`

type GameSessionRepository struct {
	db *sql.DB
}

func NewGameSessionRepository(db *sql.DB) repository.GameSessionRepository {
	return &GameSessionRepository{db: db}
}

func (r *GameSessionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createGameSessionsTable); err != nil {
		return fmt.Errorf("create game_sessions table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `
CREATE INDEX IF NOT EXISTS idx_game_sessions_user_played
ON game_sessions (user_id, played_at DESC)`); err != nil {
		return fmt.Errorf("create game_sessions index: %w", err)
	}
	return nil
}

func (r *GameSessionRepository) Create(ctx context.Context, session *domain.GameSession) (int64, error) {
	session.PlayedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO game_sessions (user_id, score, duration_seconds, played_at)
VALUES (?, ?, ?, ?)`,
		session.UserID,
		session.Score,
		session.DurationSeconds,
		session.PlayedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert game session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("game session last insert id: %w", err)
	}
	session.ID = id
	return id, nil
}

func (r *GameSessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.GameSession, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT s.id, s.user_id, u.username, s.score, s.duration_seconds, s.played_at
FROM game_sessions s
JOIN users u ON u.id = s.user_id
WHERE s.user_id = ?
ORDER BY s.played_at DESC, s.id DESC
LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions by user: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// TopByScore orders by score descending; the earlier played_at (then lower id)
// wins ties so repeated calls over unchanged data return the same ranking.
func (r *GameSessionRepository) TopByScore(ctx context.Context, limit int) ([]domain.GameSession, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT s.id, s.user_id, u.username, s.score, s.duration_seconds, s.played_at
FROM game_sessions s
JOIN users u ON u.id = s.user_id
ORDER BY s.score DESC, s.played_at ASC, s.id ASC
LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list top sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]domain.GameSession, error) {
	var sessions []domain.GameSession
	for rows.Next() {
		var s domain.GameSession
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Username,
			&s.Score,
			&s.DurationSeconds,
			&s.PlayedAt,
		); err != nil {
			return nil, fmt.Errorf("scan game session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game sessions: %w", err)
	}
	return sessions, nil
}
