package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/proteintrack/backend/internal/models"
)

// Clinical bounds on profile values.
const (
	minProteinGoal = 10.0
	maxProteinGoal = 500.0
	minWeightKg    = 20.0
	maxWeightKg    = 300.0
)

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// UpdateProfileParams carries the optional profile fields an update may set.
type UpdateProfileParams struct {
	DailyProteinGoal *float64 `json:"daily_protein_goal"`
	WeightKg         *float64 `json:"weight_kg"`
	ActivityLevel    *string  `json:"activity_level"`
}

// Get retrieves a user's profile
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Update validates and applies the provided fields. Out-of-range values are
// rejected before anything is written.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (*models.UserProfile, error) {
	if params.DailyProteinGoal != nil {
		if *params.DailyProteinGoal < minProteinGoal || *params.DailyProteinGoal > maxProteinGoal {
			return nil, ErrGoalOutOfRange
		}
	}
	if params.WeightKg != nil {
		if *params.WeightKg < minWeightKg || *params.WeightKg > maxWeightKg {
			return nil, ErrWeightOutOfRange
		}
	}
	if params.ActivityLevel != nil && !models.ValidActivityLevel(*params.ActivityLevel) {
		return nil, ErrInvalidActivityLevel
	}

	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if params.DailyProteinGoal != nil {
		profile.DailyProteinGoal = *params.DailyProteinGoal
	}
	if params.WeightKg != nil {
		profile.WeightKg = params.WeightKg
	}
	if params.ActivityLevel != nil {
		profile.ActivityLevel = *params.ActivityLevel
	}

	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// GoalFor looks up the user's daily protein goal. The second return reports
// whether a profile exists; callers decide what an absent profile means
// (percentage computations use 0, display surfaces use the 50g default).
func (s *ProfileService) GoalFor(ctx context.Context, userID uuid.UUID) (float64, bool) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return 0, false
	}
	return profile.DailyProteinGoal, true
}
