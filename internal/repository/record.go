package repository

import (
	"context"

	"stress-tracker/internal/domain"
)

// StressRecordRepository exposes persistence operations for StressRecord rows.
// All listing operations return records newest-first.
type StressRecordRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, record *domain.StressRecord) (int64, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]domain.StressRecord, error)
	ListAll(ctx context.Context, userID int64) ([]domain.StressRecord, error)
	CountByLevel(ctx context.Context, userID int64) ([]domain.LevelCount, error)
}
