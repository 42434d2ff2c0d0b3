package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FoodItem is a locally cached nutrition record from the USDA FoodData
// Central API. FdcID is the upstream identifier and uniquely determines the
// row; nutrient densities are per 100 grams of product. Rows are created on
// first sighting and overwritten in place when a later fetch returns
// different values, never deleted by normal flow.
type FoodItem struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	FdcID           string    `gorm:"size:20;not null;uniqueIndex" json:"fdc_id"`
	Name            string    `gorm:"size:200;not null" json:"name"`
	BrandOwner      string    `gorm:"size:200" json:"brand_owner"`
	ProteinPer100g  float64   `gorm:"not null" json:"protein_per_100g"`
	CaloriesPer100g float64   `gorm:"not null" json:"calories_per_100g"`
	CarbsPer100g    float64   `gorm:"not null" json:"carbs_per_100g"`
	FatPer100g      float64   `gorm:"not null" json:"fat_per_100g"`
	FiberPer100g    float64   `gorm:"not null;default:0" json:"fiber_per_100g"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (f *FoodItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
