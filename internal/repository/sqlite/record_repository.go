package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"stress-tracker/internal/domain"
	"stress-tracker/internal/repository"
)

const createStressRecordsTable = `
CREATE TABLE IF NOT EXISTS stress_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	study_hours INTEGER NOT NULL,
	sleep_hours INTEGER NOT NULL,
	physical_activity INTEGER NOT NULL,
	social_support INTEGER NOT NULL,
	stress_level TEXT NOT NULL,
	recorded_at DATETIME NOT NULL,
	FOREIGN KEY (user_id) REFERENCES users (id)
);
`

type StressRecordRepository struct {
	db *sql.DB
}

func NewStressRecordRepository(db *sql.DB) repository.StressRecordRepository {
	return &StressRecordRepository{db: db}
}

func (r *StressRecordRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createStressRecordsTable); err != nil {
		return fmt.Errorf("create stress_records table: %w", err)
	}
	return nil
}

func (r *StressRecordRepository) Create(ctx context.Context, record *domain.StressRecord) (int64, error) {
	record.RecordedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO stress_records (user_id, study_hours, sleep_hours, physical_activity, social_support, stress_level, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.UserID,
		record.StudyHours,
		record.SleepHours,
		record.PhysicalActivity,
		record.SocialSupport,
		string(record.StressLevel),
		record.RecordedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert stress record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("stress record last insert id: %w", err)
	}
	record.ID = id
	return id, nil
}

func (r *StressRecordRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]domain.StressRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, study_hours, sleep_hours, physical_activity, social_support, stress_level, recorded_at
FROM stress_records
WHERE user_id = ?
ORDER BY recorded_at DESC, id DESC
LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent stress records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *StressRecordRepository) ListAll(ctx context.Context, userID int64) ([]domain.StressRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, study_hours, sleep_hours, physical_activity, social_support, stress_level, recorded_at
FROM stress_records
WHERE user_id = ?
ORDER BY recorded_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stress records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *StressRecordRepository) CountByLevel(ctx context.Context, userID int64) ([]domain.LevelCount, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT stress_level, COUNT(*) AS count
FROM stress_records
WHERE user_id = ?
GROUP BY stress_level`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("count stress records by level: %w", err)
	}
	defer rows.Close()

	var counts []domain.LevelCount
	for rows.Next() {
		var c domain.LevelCount
		var level string
		if err := rows.Scan(&level, &c.Count); err != nil {
			return nil, fmt.Errorf("scan level count: %w", err)
		}
		c.Level = domain.StressLevel(level)
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate level counts: %w", err)
	}
	return counts, nil
}

func scanRecords(rows *sql.Rows) ([]domain.StressRecord, error) {
	var records []domain.StressRecord
	for rows.Next() {
		var rec domain.StressRecord
		var level string
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.StudyHours,
			&rec.SleepHours,
			&rec.PhysicalActivity,
			&rec.SocialSupport,
			&level,
			&rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stress record: %w", err)
		}
		rec.StressLevel = domain.StressLevel(level)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stress records: %w", err)
	}
	return records, nil
}

var _ repository.StressRecordRepository = (*StressRecordRepository)(nil)
