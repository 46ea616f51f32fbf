package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stress-tracker/internal/repository"
	"stress-tracker/internal/repository/sqlite"

	_ "modernc.org/sqlite"
)

func setupRepos(t *testing.T) (repository.UserRepository, repository.StressRecordRepository) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	require.NoError(t, users.Init(ctx))
	records := sqlite.NewStressRecordRepository(db)
	require.NoError(t, records.Init(ctx))
	return users, records
}

func TestUserService_RegisterHashesPassword(t *testing.T) {
	users, _ := setupRepos(t)
	svc := NewUserService(users)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "sw0rdfish", "alice@example.com", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "sw0rdfish", stored.PasswordHash)
}

func TestUserService_RegisterValidation(t *testing.T) {
	users, _ := setupRepos(t)
	svc := NewUserService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "pw", "a@example.com", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "alice", "", "a@example.com", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "alice", "pw", "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, "alice", "pw", "not-an-email", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_RegisterDuplicateUsername(t *testing.T) {
	users, _ := setupRepos(t)
	svc := NewUserService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "sw0rdfish", "a1@example.com", nil)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "sw0rdfish", "a2@example.com", nil)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	// the first registration is still the only one retrievable
	stored, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a1@example.com", stored.Email)
}

func TestUserService_Authenticate(t *testing.T) {
	users, _ := setupRepos(t)
	svc := NewUserService(users)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "sw0rdfish", "alice@example.com", nil)
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "sw0rdfish")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)
}

func TestUserService_AuthenticateFailuresAreIndistinguishable(t *testing.T) {
	users, _ := setupRepos(t)
	svc := NewUserService(users)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "sw0rdfish", "alice@example.com", nil)
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "alice", "nope")
	_, unknownUser := svc.Authenticate(ctx, "ghost", "nope")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}
