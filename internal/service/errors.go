package service

import "errors"

// Validation errors. All are rejected before any write.
var (
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrInvalidDate          = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidMealType      = errors.New("invalid meal type")
	ErrInvalidActivityLevel = errors.New("invalid activity level")
	ErrGoalOutOfRange       = errors.New("daily protein goal must be between 10 and 500 grams")
	ErrWeightOutOfRange     = errors.New("weight must be between 20 and 300 kg")
	ErrInvalidFood          = errors.New("food record is missing identifier or name")
)

// Lookup errors.
var (
	ErrFoodNotFound     = errors.New("food item not found")
	ErrEntryNotFound    = errors.New("food entry not found")
	ErrProfileNotFound  = errors.New("user profile not found")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Conflict errors.
var (
	ErrFavoriteExists = errors.New("food is already a favorite")
	ErrUserExists     = errors.New("user already exists")
)

// ErrInvalidCredentials is returned for any failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")
