package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Meal types accepted on a food entry.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// DateLayout is the wire and storage format for intake dates.
const DateLayout = "2006-01-02"

// DailyIntake is the derived per-(user, date) aggregate. Totals are a cache
// over the day's FoodEntry rows and are recomputed on every entry mutation;
// they are never edited directly.
type DailyIntake struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_date" json:"user_id"`
	Date          string    `gorm:"size:10;not null;uniqueIndex:idx_user_date" json:"date"`
	TotalProtein  float64   `gorm:"not null;default:0" json:"total_protein"`
	TotalCalories float64   `gorm:"not null;default:0" json:"total_calories"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Entries []FoodEntry `gorm:"foreignKey:DailyIntakeID;constraint:OnDelete:CASCADE" json:"entries,omitempty"`
}

func (d *DailyIntake) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// FoodEntry is one logged consumption event. ProteinConsumed and
// CaloriesConsumed are computed from the FoodItem densities in effect at log
// time and frozen thereafter, even if the catalog row is later corrected.
type FoodEntry struct {
	ID               uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID           uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	FoodItemID       uuid.UUID `gorm:"type:varchar(36);not null" json:"food_item_id"`
	DailyIntakeID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"daily_intake_id"`
	AmountGrams      float64   `gorm:"not null" json:"amount_grams"`
	ProteinConsumed  float64   `gorm:"not null" json:"protein_consumed"`
	CaloriesConsumed float64   `gorm:"not null" json:"calories_consumed"`
	MealType         string    `gorm:"size:20;not null;default:'snack'" json:"meal_type"`
	PhotoURL         string    `gorm:"size:255" json:"photo_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	FoodItem FoodItem `gorm:"foreignKey:FoodItemID" json:"food_item,omitempty"`
}

func (e *FoodEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// ValidMealType reports whether t is one of the accepted meal types.
func ValidMealType(t string) bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// ValidActivityLevel reports whether l is one of the accepted activity levels.
func ValidActivityLevel(l string) bool {
	switch l {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityExtraActive:
		return true
	}
	return false
}
