package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/proteintrack/backend/internal/models"
)

// FavoriteService manages per-user favorite foods, a shortcut list into the
// catalog with a default serving size for quick re-logging.
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a new FavoriteService instance.
func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Add favorites a catalog item for the user. A second add of the same food
// is a conflict, surfaced as ErrFavoriteExists, never a second row.
func (s *FavoriteService) Add(ctx context.Context, userID, foodItemID uuid.UUID, defaultAmount float64) (*models.FavoriteFood, error) {
	if defaultAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	var food models.FoodItem
	if err := s.db.WithContext(ctx).First(&food, "id = ?", foodItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}

	fav := models.FavoriteFood{
		UserID:        userID,
		FoodItemID:    foodItemID,
		DefaultAmount: defaultAmount,
	}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrFavoriteExists
		}
		return nil, err
	}
	fav.FoodItem = food
	return &fav, nil
}

// List returns the user's favorites ordered by food item name.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]models.FavoriteFood, error) {
	var favorites []models.FavoriteFood
	err := s.db.WithContext(ctx).
		Joins("JOIN food_items ON food_items.id = favorite_foods.food_item_id").
		Where("favorite_foods.user_id = ?", userID).
		Order("food_items.name ASC").
		Preload("FoodItem").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

// Get returns one of the user's favorites by its ID.
func (s *FavoriteService) Get(ctx context.Context, userID, favoriteID uuid.UUID) (*models.FavoriteFood, error) {
	var fav models.FavoriteFood
	err := s.db.WithContext(ctx).
		Preload("FoodItem").
		Where("id = ? AND user_id = ?", favoriteID, userID).
		First(&fav).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFavoriteNotFound
		}
		return nil, err
	}
	return &fav, nil
}

// Remove deletes one of the user's favorites.
func (s *FavoriteService) Remove(ctx context.Context, userID, favoriteID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", favoriteID, userID).
		Delete(&models.FavoriteFood{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
