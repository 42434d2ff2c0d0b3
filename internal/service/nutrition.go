package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/proteintrack/backend/config"
)

// NormalizedFood is a nutrition record in the shape the local catalog
// stores: all five nutrient densities populated (0 when the source omits or
// mistags a nutrient), name and brand truncated to the column width.
type NormalizedFood struct {
	FdcID           string  `json:"fdc_id"`
	Name            string  `json:"name"`
	BrandOwner      string  `json:"brand_owner"`
	ProteinPer100g  float64 `json:"protein_per_100g"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
	CarbsPer100g    float64 `json:"carbs_per_100g"`
	FatPer100g      float64 `json:"fat_per_100g"`
	FiberPer100g    float64 `json:"fiber_per_100g"`
}

// USDA FoodData Central nutrient numbers.
const (
	nutrientProtein  = 1003
	nutrientFat      = 1004
	nutrientCarbs    = 1005
	nutrientCalories = 1008
	nutrientFiber    = 1079
)

const maxNameLength = 200

// USDAService queries the USDA FoodData Central API and normalizes its
// responses. Search responses are cached in Redis when a client is supplied.
type USDAService struct {
	cfg    config.USDAConfig
	client *http.Client
	redis  *redis.Client
}

var _ NutritionSource = (*USDAService)(nil)

// NewUSDAService creates a new USDAService instance. redisClient may be nil,
// in which case responses are not cached.
func NewUSDAService(cfg config.USDAConfig, redisClient *redis.Client) *USDAService {
	return &USDAService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		redis:  redisClient,
	}
}

// rawFood mirrors the subset of a FoodData Central food payload we consume.
type rawFood struct {
	FdcID         int64  `json:"fdcId"`
	Description   string `json:"description"`
	BrandOwner    string `json:"brandOwner"`
	FoodNutrients []struct {
		Amount   float64 `json:"amount"`
		Nutrient struct {
			ID       int64  `json:"id"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
	} `json:"foodNutrients"`
}

type searchResponse struct {
	Foods []rawFood `json:"foods"`
}

// Search queries the foods/search endpoint. Queries shorter than two
// characters return no results without a network call.
func (s *USDAService) Search(ctx context.Context, term string, limit int) ([]NormalizedFood, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("usda:search:%s:%d", strings.ToLower(term), limit)
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []NormalizedFood
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	params := url.Values{}
	params.Set("query", term)
	params.Set("pageSize", strconv.Itoa(limit))
	params.Add("dataType", "Foundation")
	params.Add("dataType", "SR Legacy")
	params.Set("sortBy", "dataType.keyword")
	params.Set("sortOrder", "asc")
	if s.cfg.APIKey != "" {
		params.Set("api_key", s.cfg.APIKey)
	}

	var resp searchResponse
	if err := s.get(ctx, "/foods/search?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	foods := make([]NormalizedFood, 0, len(resp.Foods))
	for _, raw := range resp.Foods {
		if food, ok := normalizeFood(raw); ok {
			foods = append(foods, food)
		}
	}

	if s.redis != nil {
		if data, err := json.Marshal(foods); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, s.cfg.CacheTTL).Err(); err != nil {
				log.Printf("[USDAService] Failed to cache search results: %v", err)
			}
		}
	}

	return foods, nil
}

// Fetch retrieves a single food record by its FDC ID. A record the source
// knows nothing about, or one too malformed to normalize, yields nil.
func (s *USDAService) Fetch(ctx context.Context, fdcID string) (*NormalizedFood, error) {
	params := url.Values{}
	if s.cfg.APIKey != "" {
		params.Set("api_key", s.cfg.APIKey)
	}

	path := "/food/" + url.PathEscape(fdcID)
	if enc := params.Encode(); enc != "" {
		path += "?" + enc
	}

	var raw rawFood
	if err := s.get(ctx, path, &raw); err != nil {
		return nil, err
	}

	food, ok := normalizeFood(raw)
	if !ok {
		return nil, nil
	}
	return &food, nil
}

func (s *USDAService) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", strings.TrimRight(s.cfg.BaseURL, "/")+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call FoodData Central: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("FoodData Central returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// normalizeFood maps a raw FoodData Central record onto NormalizedFood.
// Records missing the identifier or name are dropped. Nutrient values are
// accepted only under the expected unit (KCAL for energy, G for mass-based
// nutrients); anything else counts as absent.
func normalizeFood(raw rawFood) (NormalizedFood, bool) {
	if raw.FdcID == 0 || strings.TrimSpace(raw.Description) == "" {
		return NormalizedFood{}, false
	}

	food := NormalizedFood{
		FdcID:      strconv.FormatInt(raw.FdcID, 10),
		Name:       truncate(strings.TrimSpace(raw.Description), maxNameLength),
		BrandOwner: truncate(strings.TrimSpace(raw.BrandOwner), maxNameLength),
	}

	for _, n := range raw.FoodNutrients {
		amount := n.Amount
		if amount < 0 {
			continue
		}
		unit := strings.ToUpper(n.Nutrient.UnitName)
		switch n.Nutrient.ID {
		case nutrientCalories:
			if unit == "KCAL" {
				food.CaloriesPer100g = amount
			}
		case nutrientProtein:
			if unit == "G" {
				food.ProteinPer100g = amount
			}
		case nutrientCarbs:
			if unit == "G" {
				food.CarbsPer100g = amount
			}
		case nutrientFat:
			if unit == "G" {
				food.FatPer100g = amount
			}
		case nutrientFiber:
			if unit == "G" {
				food.FiberPer100g = amount
			}
		}
	}

	return food, true
}

// truncate caps a string at max characters, never splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
