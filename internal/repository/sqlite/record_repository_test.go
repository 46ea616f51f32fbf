package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stress-tracker/internal/domain"
	"stress-tracker/internal/repository"
)

func setupRecordRepo(t *testing.T) (repository.StressRecordRepository, int64) {
	t.Helper()
	db := setupDB(t)
	ctx := context.Background()

	users := NewUserRepository(db)
	require.NoError(t, users.Init(ctx))
	records := NewStressRecordRepository(db)
	require.NoError(t, records.Init(ctx))

	userID, err := users.Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	return records, userID
}

func seedRecords(t *testing.T, repo repository.StressRecordRepository, userID int64, levels ...domain.StressLevel) {
	t.Helper()
	for i, level := range levels {
		_, err := repo.Create(context.Background(), &domain.StressRecord{
			UserID:           userID,
			StudyHours:       i + 1,
			SleepHours:       8 - i,
			PhysicalActivity: 3,
			SocialSupport:    4,
			StressLevel:      level,
		})
		require.NoError(t, err)
	}
}

func TestStressRecordRepository_CreateSetsTimestampAndID(t *testing.T) {
	repo, userID := setupRecordRepo(t)

	rec := &domain.StressRecord{
		UserID:           userID,
		StudyHours:       5,
		SleepHours:       6,
		PhysicalActivity: 2,
		SocialSupport:    3,
		StressLevel:      domain.StressLevelHigh,
	}
	id, err := repo.Create(context.Background(), rec)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.False(t, rec.RecordedAt.IsZero())
}

func TestStressRecordRepository_ListRecentNewestFirst(t *testing.T) {
	repo, userID := setupRecordRepo(t)
	seedRecords(t, repo, userID,
		domain.StressLevelLow,
		domain.StressLevelMedium,
		domain.StressLevelHigh,
		domain.StressLevelLow,
		domain.StressLevelMedium,
		domain.StressLevelHigh,
	)

	recent, err := repo.ListRecent(context.Background(), userID, 5)
	require.NoError(t, err)
	require.Len(t, recent, 5)

	// the last insert comes back first
	assert.Equal(t, domain.StressLevelHigh, recent[0].StressLevel)
	assert.Equal(t, 6, recent[0].StudyHours)
	for i := 1; i < len(recent); i++ {
		assert.GreaterOrEqual(t, recent[i-1].ID, recent[i].ID)
	}
}

func TestStressRecordRepository_ListAll(t *testing.T) {
	repo, userID := setupRecordRepo(t)
	seedRecords(t, repo, userID, domain.StressLevelHigh, domain.StressLevelLow)

	all, err := repo.ListAll(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, domain.StressLevelLow, all[0].StressLevel)
	assert.Equal(t, domain.StressLevelHigh, all[1].StressLevel)
}

func TestStressRecordRepository_OnlyOwnRecords(t *testing.T) {
	repo, userID := setupRecordRepo(t)
	seedRecords(t, repo, userID, domain.StressLevelHigh)

	other, err := repo.ListAll(context.Background(), userID+1)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestStressRecordRepository_CountByLevel(t *testing.T) {
	repo, userID := setupRecordRepo(t)
	seedRecords(t, repo, userID,
		domain.StressLevelHigh,
		domain.StressLevelHigh,
		domain.StressLevelLow,
	)

	counts, err := repo.CountByLevel(context.Background(), userID)
	require.NoError(t, err)

	byLevel := make(map[domain.StressLevel]int)
	for _, c := range counts {
		byLevel[c.Level] = c.Count
	}
	assert.Equal(t, map[domain.StressLevel]int{
		domain.StressLevelHigh: 2,
		domain.StressLevelLow:  1,
	}, byLevel)
}
