package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteFood is a per-user shortcut into the food catalog. One row per
// (user, food item); DefaultAmount is the serving size in grams used for
// quick re-logging.
type FavoriteFood struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_food" json:"user_id"`
	FoodItemID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_food" json:"food_item_id"`
	DefaultAmount float64   `gorm:"not null" json:"default_amount"`
	CreatedAt     time.Time `json:"created_at"`

	FoodItem FoodItem `gorm:"foreignKey:FoodItemID" json:"food_item,omitempty"`
}

func (f *FavoriteFood) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
