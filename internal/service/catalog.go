package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/proteintrack/backend/internal/models"
)

const (
	localSearchLimit  = 10
	mergedSearchLimit = 20
	externalFetchSize = 10
)

// CatalogService maintains the local food catalog: a cache of normalized
// USDA records keyed by FDC ID, merged in via idempotent upserts.
type CatalogService struct {
	db        *gorm.DB
	source    NutritionSource
	threshold int
}

// NewCatalogService creates a new CatalogService instance. source may be nil
// for local-only operation; threshold is the local match count below which a
// search also consults the external source.
func NewCatalogService(db *gorm.DB, source NutritionSource, threshold int) *CatalogService {
	return &CatalogService{
		db:        db,
		source:    source,
		threshold: threshold,
	}
}

// SearchLocal returns catalog items whose name contains term,
// case-insensitive, ordered by name. Terms shorter than two characters match
// nothing.
func (s *CatalogService) SearchLocal(term string, limit int) ([]models.FoodItem, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, nil
	}

	var items []models.FoodItem
	like := "%" + strings.ToLower(term) + "%"
	err := s.db.
		Where("LOWER(name) LIKE ?", like).
		Order("name ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns the catalog item with the given ID.
func (s *CatalogService) Get(id string) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFoodNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Upsert inserts or updates the catalog row for rec's FDC ID and reports
// whether a new row was created. Existing rows are overwritten only when a
// field actually differs, so repeating the same record is a no-op. A unique
// violation on insert means another request created the row first; that case
// re-reads the row and proceeds down the update path.
func (s *CatalogService) Upsert(rec NormalizedFood) (*models.FoodItem, bool, error) {
	if rec.FdcID == "" || rec.Name == "" {
		return nil, false, ErrInvalidFood
	}

	var item models.FoodItem
	err := s.db.Where("fdc_id = ?", rec.FdcID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		item = models.FoodItem{
			FdcID:           rec.FdcID,
			Name:            rec.Name,
			BrandOwner:      rec.BrandOwner,
			ProteinPer100g:  rec.ProteinPer100g,
			CaloriesPer100g: rec.CaloriesPer100g,
			CarbsPer100g:    rec.CarbsPer100g,
			FatPer100g:      rec.FatPer100g,
			FiberPer100g:    rec.FiberPer100g,
		}
		createErr := s.db.Create(&item).Error
		if createErr == nil {
			return &item, true, nil
		}
		if !isUniqueViolation(createErr) {
			return nil, false, createErr
		}
		// Lost a race with a concurrent upsert of the same FDC ID.
		if err := s.db.Where("fdc_id = ?", rec.FdcID).First(&item).Error; err != nil {
			return nil, false, err
		}
	} else if err != nil {
		return nil, false, err
	}

	if item.Name != rec.Name ||
		item.BrandOwner != rec.BrandOwner ||
		item.ProteinPer100g != rec.ProteinPer100g ||
		item.CaloriesPer100g != rec.CaloriesPer100g ||
		item.CarbsPer100g != rec.CarbsPer100g ||
		item.FatPer100g != rec.FatPer100g ||
		item.FiberPer100g != rec.FiberPer100g {
		item.Name = rec.Name
		item.BrandOwner = rec.BrandOwner
		item.ProteinPer100g = rec.ProteinPer100g
		item.CaloriesPer100g = rec.CaloriesPer100g
		item.CarbsPer100g = rec.CarbsPer100g
		item.FatPer100g = rec.FatPer100g
		item.FiberPer100g = rec.FiberPer100g
		if err := s.db.Save(&item).Error; err != nil {
			return nil, false, err
		}
	}

	return &item, false, nil
}

// Search serves a user-facing food search. The local catalog is consulted
// first; when it yields fewer than the configured threshold of matches, the
// external source is queried and its records merged into the catalog before
// re-reading locally. External failures degrade the search to local-only
// results rather than failing the request.
func (s *CatalogService) Search(ctx context.Context, term string) ([]models.FoodItem, error) {
	local, err := s.SearchLocal(term, localSearchLimit)
	if err != nil {
		return nil, err
	}

	if len(local) < s.threshold && s.source != nil {
		records, err := s.source.Search(ctx, term, externalFetchSize)
		if err != nil {
			log.Printf("[CatalogService] External search for %q failed, serving local results: %v", term, err)
			return local, nil
		}
		for _, rec := range records {
			if _, _, err := s.Upsert(rec); err != nil {
				log.Printf("[CatalogService] Failed to cache food %s: %v", rec.FdcID, err)
			}
		}
		return s.SearchLocal(term, mergedSearchLimit)
	}

	return local, nil
}

// Refresh re-fetches a single catalog item from the external source and
// merges any corrected values.
func (s *CatalogService) Refresh(ctx context.Context, fdcID string) (*models.FoodItem, error) {
	if s.source == nil {
		return nil, ErrFoodNotFound
	}
	rec, err := s.source.Fetch(ctx, fdcID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrFoodNotFound
	}
	item, _, err := s.Upsert(*rec)
	return item, err
}

// isUniqueViolation reports whether err is a uniqueness-constraint error
// from either supported dialect.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
