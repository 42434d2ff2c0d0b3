package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity levels accepted on a profile.
const (
	ActivitySedentary   = "sedentary"
	ActivityLight       = "light"
	ActivityModerate    = "moderate"
	ActivityActive      = "active"
	ActivityExtraActive = "extra_active"
)

// DefaultProteinGoal applies whenever a user has no profile or the profile
// carries no goal.
const DefaultProteinGoal = 50.0

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserProfile holds per-user tracking goals. One row per user.
type UserProfile struct {
	ID               uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	DailyProteinGoal float64        `gorm:"not null;default:50" json:"daily_protein_goal"`
	WeightKg         *float64       `json:"weight_kg"`
	ActivityLevel    string         `gorm:"size:20;not null;default:'moderate'" json:"activity_level"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
