package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/proteintrack/backend/internal/models"
)

// lockForUpdate adds a row lock to a read so mutations under the same day
// serialize on postgres. SQLite serializes writers on its own and rejects
// the FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// IntakeService owns the append-only ledger of food entries and the derived
// per-day totals. Every entry mutation runs inside one transaction together
// with a full recompute of the owning day's totals, so readers never observe
// an entry set and totals that disagree.
type IntakeService struct {
	db      *gorm.DB
	profile *ProfileService
}

// NewIntakeService creates a new IntakeService instance.
func NewIntakeService(db *gorm.DB, profile *ProfileService) *IntakeService {
	return &IntakeService{
		db:      db,
		profile: profile,
	}
}

// DaySummary is the presentation shape of one tracked day.
type DaySummary struct {
	Date              string             `json:"date"`
	TotalProtein      float64            `json:"total_protein"`
	TotalCalories     float64            `json:"total_calories"`
	ProteinGoal       float64            `json:"protein_goal"`
	ProteinPercentage float64            `json:"protein_percentage"`
	Entries           []models.FoodEntry `json:"entries,omitempty"`
}

// LogEntry records a consumption event. Consumed protein and calories are
// computed from the catalog item's current nutrient densities and frozen on
// the entry; the owning DailyIntake is created lazily and its totals
// recomputed before the transaction commits.
func (s *IntakeService) LogEntry(ctx context.Context, userID, foodItemID uuid.UUID, amountGrams float64, mealType, date string) (*models.FoodEntry, error) {
	if amountGrams <= 0 {
		return nil, ErrInvalidAmount
	}
	if mealType == "" {
		mealType = models.MealSnack
	}
	if !models.ValidMealType(mealType) {
		return nil, ErrInvalidMealType
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	var entry *models.FoodEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var food models.FoodItem
		if err := tx.First(&food, "id = ?", foodItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFoodNotFound
			}
			return err
		}

		day, err := s.getOrCreateDay(tx, userID, date)
		if err != nil {
			return err
		}

		entry = &models.FoodEntry{
			UserID:           userID,
			FoodItemID:       food.ID,
			DailyIntakeID:    day.ID,
			AmountGrams:      amountGrams,
			ProteinConsumed:  food.ProteinPer100g * amountGrams / 100,
			CaloriesConsumed: food.CaloriesPer100g * amountGrams / 100,
			MealType:         mealType,
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		entry.FoodItem = food

		return s.recomputeTotals(tx, day.ID)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// RemoveEntry deletes an entry owned by the user and recomputes its day's
// totals in the same transaction.
func (s *IntakeService) RemoveEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.FoodEntry
		if err := tx.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEntryNotFound
			}
			return err
		}

		// Lock the owning day so a concurrent mutation's recompute cannot
		// run off a sum that misses this uncommitted delete.
		var day models.DailyIntake
		if err := lockForUpdate(tx).Where("id = ?", entry.DailyIntakeID).First(&day).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.FoodEntry{}, "id = ?", entry.ID).Error; err != nil {
			return err
		}

		return s.recomputeTotals(tx, day.ID)
	})
}

// recomputeTotals rewrites a day's totals as the exact sum over its current
// entries. Always a full recompute; incremental deltas would drift.
func (s *IntakeService) recomputeTotals(tx *gorm.DB, dayID uuid.UUID) error {
	var totals struct {
		Protein  float64
		Calories float64
	}
	err := tx.Model(&models.FoodEntry{}).
		Select("COALESCE(SUM(protein_consumed), 0) AS protein, COALESCE(SUM(calories_consumed), 0) AS calories").
		Where("daily_intake_id = ?", dayID).
		Scan(&totals).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.DailyIntake{}).
		Where("id = ?", dayID).
		Updates(map[string]interface{}{
			"total_protein":  totals.Protein,
			"total_calories": totals.Calories,
		}).Error
}

// getOrCreateDay resolves the (user, date) DailyIntake, creating it lazily.
// An existing row is read under a FOR UPDATE lock, which serializes all
// mutations of one day. A unique violation on create means a concurrent
// request won; re-read (also locked) and use that row.
func (s *IntakeService) getOrCreateDay(tx *gorm.DB, userID uuid.UUID, date string) (*models.DailyIntake, error) {
	var day models.DailyIntake
	err := lockForUpdate(tx).Where("user_id = ? AND date = ?", userID, date).First(&day).Error
	if err == nil {
		return &day, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	day = models.DailyIntake{UserID: userID, Date: date}
	if createErr := tx.Create(&day).Error; createErr != nil {
		if !isUniqueViolation(createErr) {
			return nil, createErr
		}
		if err := lockForUpdate(tx).Where("user_id = ? AND date = ?", userID, date).First(&day).Error; err != nil {
			return nil, err
		}
	}
	return &day, nil
}

// GetDay returns the summary for one (user, date). A day with no entries
// yields zero totals rather than an error.
func (s *IntakeService) GetDay(ctx context.Context, userID uuid.UUID, date string) (*DaySummary, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	summary := &DaySummary{
		Date:        date,
		ProteinGoal: models.DefaultProteinGoal,
		Entries:     []models.FoodEntry{},
	}

	var day models.DailyIntake
	err := s.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Entries.FoodItem").
		Where("user_id = ? AND date = ?", userID, date).
		First(&day).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		summary.TotalProtein = day.TotalProtein
		summary.TotalCalories = day.TotalCalories
		summary.Entries = day.Entries
	}

	goal, hasProfile := s.profile.GoalFor(ctx, userID)
	if hasProfile {
		summary.ProteinGoal = goal
	}
	summary.ProteinPercentage = proteinPercentage(summary.TotalProtein, goal, hasProfile)

	return summary, nil
}

// ListDays returns summaries of the user's tracked days within [from, to],
// most recent first. Empty bounds leave that side open; entry lists are not
// included, only the per-day totals and goal coverage.
func (s *IntakeService) ListDays(ctx context.Context, userID uuid.UUID, from, to string) ([]DaySummary, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if from != "" {
		if _, err := time.Parse(models.DateLayout, from); err != nil {
			return nil, ErrInvalidDate
		}
		query = query.Where("date >= ?", from)
	}
	if to != "" {
		if _, err := time.Parse(models.DateLayout, to); err != nil {
			return nil, ErrInvalidDate
		}
		query = query.Where("date <= ?", to)
	}

	var days []models.DailyIntake
	if err := query.Order("date DESC").Find(&days).Error; err != nil {
		return nil, err
	}

	goal, hasProfile := s.profile.GoalFor(ctx, userID)
	displayGoal := models.DefaultProteinGoal
	if hasProfile {
		displayGoal = goal
	}

	summaries := make([]DaySummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, DaySummary{
			Date:              day.Date,
			TotalProtein:      day.TotalProtein,
			TotalCalories:     day.TotalCalories,
			ProteinGoal:       displayGoal,
			ProteinPercentage: proteinPercentage(day.TotalProtein, goal, hasProfile),
		})
	}
	return summaries, nil
}

func proteinPercentage(total, goal float64, hasProfile bool) float64 {
	if !hasProfile || goal <= 0 {
		return 0
	}
	return total / goal * 100
}
