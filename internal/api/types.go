package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proteintrack/backend/internal/service"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LogEntryRequest is the payload for logging a consumption event.
type LogEntryRequest struct {
	FoodItemID  string  `json:"food_item_id" binding:"required"`
	AmountGrams float64 `json:"amount_grams" binding:"required"`
	MealType    string  `json:"meal_type"`
	Date        string  `json:"date" binding:"required"`
}

// AddFavoriteRequest is the payload for favoriting a food.
type AddFavoriteRequest struct {
	FoodItemID    string  `json:"food_item_id" binding:"required"`
	DefaultAmount float64 `json:"default_amount" binding:"required"`
}

// LogFavoriteRequest is the payload for quick-logging from a favorite. All
// fields are optional; the favorite's default amount fills in the serving.
type LogFavoriteRequest struct {
	AmountGrams float64 `json:"amount_grams"`
	MealType    string  `json:"meal_type"`
	Date        string  `json:"date"`
}

// currentUserID pulls the authenticated user ID set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	return userID, true
}

// serviceError maps service-layer errors onto HTTP responses.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidMealType),
		errors.Is(err, service.ErrInvalidActivityLevel),
		errors.Is(err, service.ErrGoalOutOfRange),
		errors.Is(err, service.ErrWeightOutOfRange),
		errors.Is(err, service.ErrInvalidFood):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrFoodNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrFavoriteExists),
		errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
