package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snake-game/internal/domain"
	"snake-game/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func newTestRepos(t *testing.T) (repository.UserRepository, repository.GameSessionRepository) {
	t.Helper()

	db := newTestDB(t)
	users := NewUserRepository(db)
	sessions := NewGameSessionRepository(db)

	ctx := context.Background()
	require.NoError(t, users.Init(ctx))
	require.NoError(t, sessions.Init(ctx))

	return users, sessions
}

func createUser(t *testing.T, users repository.UserRepository, username string) *domain.User {
	t.Helper()

	user := &domain.User{Username: username, PasswordHash: "x"}
	_, err := users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func TestUserCreateAndGet(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	created := createUser(t, users, "alice")
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	byName, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	users, _ := newTestRepos(t)

	createUser(t, users, "bob")

	_, err := users.Create(context.Background(), &domain.User{Username: "bob", PasswordHash: "y"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestUserGetMissing(t *testing.T) {
	users, _ := newTestRepos(t)

	_, err := users.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserUpdateLastLogin(t *testing.T) {
	users, _ := newTestRepos(t)
	ctx := context.Background()

	user := createUser(t, users, "alice")
	loginAt := time.Now().UTC().Add(time.Hour).Truncate(time.Second)

	require.NoError(t, users.UpdateLastLogin(ctx, user.ID, loginAt))

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.LastLogin.After(got.CreatedAt))

	err = users.UpdateLastLogin(ctx, 9999, loginAt)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func recordSession(t *testing.T, sessions repository.GameSessionRepository, user *domain.User, score int) *domain.GameSession {
	t.Helper()

	s := &domain.GameSession{UserID: user.ID, Score: score, DurationSeconds: 60}
	_, err := sessions.Create(context.Background(), s)
	require.NoError(t, err)
	// keep played_at strictly increasing between inserts
	time.Sleep(5 * time.Millisecond)
	return s
}

func TestGameSessionCreateAssignsTimestamp(t *testing.T) {
	users, sessions := newTestRepos(t)

	user := createUser(t, users, "alice")
	s := recordSession(t, sessions, user, 42)

	assert.NotZero(t, s.ID)
	assert.False(t, s.PlayedAt.IsZero())
}

func TestListByUserOrderAndLimit(t *testing.T) {
	users, sessions := newTestRepos(t)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	recordSession(t, sessions, alice, 10)
	recordSession(t, sessions, alice, 20)
	recordSession(t, sessions, alice, 30)
	recordSession(t, sessions, bob, 99)

	got, err := sessions.ListByUser(ctx, alice.ID, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// most recent first, scoped to alice
	assert.Equal(t, 30, got[0].Score)
	assert.Equal(t, 20, got[1].Score)
	assert.Equal(t, "alice", got[0].Username)
	assert.True(t, got[0].PlayedAt.After(got[1].PlayedAt))
}

func TestTopByScoreOrderingAndTieBreak(t *testing.T) {
	users, sessions := newTestRepos(t)
	ctx := context.Background()

	for _, tc := range []struct {
		username string
		score    int
	}{
		{"u1", 50},
		{"u2", 90},
		{"u3", 90},
		{"u4", 10},
	} {
		user := createUser(t, users, tc.username)
		recordSession(t, sessions, user, tc.score)
	}

	top, err := sessions.TopByScore(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	// the earlier 90 wins the tie; 10 falls outside the limit
	assert.Equal(t, "u2", top[0].Username)
	assert.Equal(t, "u3", top[1].Username)
	assert.Equal(t, "u1", top[2].Username)

	again, err := sessions.TopByScore(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, top, again)
}

func TestForeignKeyEnforced(t *testing.T) {
	_, sessions := newTestRepos(t)

	_, err := sessions.Create(context.Background(), &domain.GameSession{UserID: 12345, Score: 1})
	assert.Error(t, err)
}
