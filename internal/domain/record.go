package domain

import "time"

type StressLevel string

const (
	StressLevelHigh   StressLevel = "High"
	StressLevelMedium StressLevel = "Medium"
	StressLevelLow    StressLevel = "Low"
)

// StressRecord captures one questionnaire submission together with the level
// the classifier predicted for it. Records are immutable once inserted.
type StressRecord struct {
	ID               int64
	UserID           int64
	StudyHours       int
	SleepHours       int
	PhysicalActivity int
	SocialSupport    int
	StressLevel      StressLevel
	RecordedAt       time.Time
}

// LevelCount is a per-level record tally for a single user.
type LevelCount struct {
	Level StressLevel
	Count int
}
