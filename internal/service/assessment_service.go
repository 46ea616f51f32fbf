package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"stress-tracker/internal/domain"
	"stress-tracker/internal/ml"
	"stress-tracker/internal/recommend"
	"stress-tracker/internal/repository"
)

// ErrInvalidInput marks questionnaire submissions that fail parsing or range
// validation; nothing is persisted for them.
var ErrInvalidInput = errors.New("invalid input")

const recentRecordLimit = 5

// Predictor classifies one feature vector into a stress category string.
// The loaded ml.Bundle satisfies it.
type Predictor interface {
	Predict(features ml.Features) (string, error)
}

// Submission carries the raw questionnaire form values before validation.
type Submission struct {
	Age              string
	StudyHours       string
	SleepHours       string
	PhysicalActivity string
	SocialSupport    string
}

// DashboardView is the data behind the dashboard page.
type DashboardView struct {
	User            *domain.User
	Records         []domain.StressRecord
	Recommendations *recommend.Bundle
}

// ProfileView is the data behind the profile page.
type ProfileView struct {
	User   *domain.User
	Counts []domain.LevelCount
}

// ManageView projects the full history into parallel series for charting.
// The four slices are always equal length, newest-first.
type ManageView struct {
	User            *domain.User
	Dates           []time.Time
	Levels          []domain.StressLevel
	StudyHours      []int
	SleepHours      []int
	Recommendations *recommend.Bundle
}

// AssessmentService covers questionnaire submission and the history views.
type AssessmentService interface {
	Submit(ctx context.Context, userID int64, sub Submission) (*domain.StressRecord, error)
	Dashboard(ctx context.Context, userID int64) (*DashboardView, error)
	Profile(ctx context.Context, userID int64) (*ProfileView, error)
	Manage(ctx context.Context, userID int64) (*ManageView, error)
}

type assessmentService struct {
	users     repository.UserRepository
	records   repository.StressRecordRepository
	predictor Predictor
}

func NewAssessmentService(users repository.UserRepository, records repository.StressRecordRepository, predictor Predictor) AssessmentService {
	return &assessmentService{
		users:     users,
		records:   records,
		predictor: predictor,
	}
}

// Submit validates the form values, predicts a stress level and inserts one
// record. The insert only happens after a successful prediction, so a failed
// submission never leaves a partial row behind.
func (s *assessmentService) Submit(ctx context.Context, userID int64, sub Submission) (*domain.StressRecord, error) {
	features, err := parseSubmission(sub)
	if err != nil {
		return nil, err
	}

	level, err := s.predictor.Predict(features)
	if err != nil {
		return nil, fmt.Errorf("predict stress level: %w", err)
	}

	record := &domain.StressRecord{
		UserID:           userID,
		StudyHours:       features.StudyHours,
		SleepHours:       features.SleepHours,
		PhysicalActivity: features.PhysicalActivity,
		SocialSupport:    features.SocialSupport,
		StressLevel:      domain.StressLevel(level),
	}
	if _, err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func parseSubmission(sub Submission) (ml.Features, error) {
	var features ml.Features

	age, err := strconv.Atoi(sub.Age)
	if err != nil {
		return ml.Features{}, fmt.Errorf("%w: age must be a whole number", ErrInvalidInput)
	}
	features.Age = age

	ranged := []struct {
		name     string
		raw      string
		min, max int
		dst      *int
	}{
		{"study_hours", sub.StudyHours, 0, 24, &features.StudyHours},
		{"sleep_hours", sub.SleepHours, 0, 24, &features.SleepHours},
		{"physical_activity", sub.PhysicalActivity, 1, 5, &features.PhysicalActivity},
		{"social_support", sub.SocialSupport, 1, 5, &features.SocialSupport},
	}
	for _, f := range ranged {
		v, err := strconv.Atoi(f.raw)
		if err != nil {
			return ml.Features{}, fmt.Errorf("%w: %s must be a whole number", ErrInvalidInput, f.name)
		}
		if v < f.min || v > f.max {
			return ml.Features{}, fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidInput, f.name, f.min, f.max)
		}
		*f.dst = v
	}
	return features, nil
}

func (s *assessmentService) Dashboard(ctx context.Context, userID int64) (*DashboardView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListRecent(ctx, userID, recentRecordLimit)
	if err != nil {
		return nil, err
	}

	view := &DashboardView{
		User:    sanitizeUser(user),
		Records: records,
	}
	if len(records) > 0 {
		view.Recommendations = recommend.ForLevel(records[0].StressLevel)
	}
	return view, nil
}

func (s *assessmentService) Profile(ctx context.Context, userID int64) (*ProfileView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	counts, err := s.records.CountByLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileView{
		User:   sanitizeUser(user),
		Counts: counts,
	}, nil
}

func (s *assessmentService) Manage(ctx context.Context, userID int64) (*ManageView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.records.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ManageView{
		User:       sanitizeUser(user),
		Dates:      make([]time.Time, len(records)),
		Levels:     make([]domain.StressLevel, len(records)),
		StudyHours: make([]int, len(records)),
		SleepHours: make([]int, len(records)),
	}
	for i, rec := range records {
		view.Dates[i] = rec.RecordedAt
		view.Levels[i] = rec.StressLevel
		view.StudyHours[i] = rec.StudyHours
		view.SleepHours[i] = rec.SleepHours
	}
	if len(records) > 0 {
		view.Recommendations = recommend.ForLevel(records[0].StressLevel)
	}
	return view, nil
}
