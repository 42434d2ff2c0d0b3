package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteintrack/backend/config"
)

func usdaTestConfig(baseURL string) config.USDAConfig {
	return config.USDAConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

func TestSearchNormalizesRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/foods/search", r.URL.Path)
		assert.Equal(t, "cheddar", r.URL.Query().Get("query"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"foods": [
				{
					"fdcId": 173414,
					"description": "Cheese, cheddar",
					"brandOwner": "",
					"foodNutrients": [
						{"amount": 24.9, "nutrient": {"id": 1003, "unitName": "G"}},
						{"amount": 403, "nutrient": {"id": 1008, "unitName": "KCAL"}},
						{"amount": 1.3, "nutrient": {"id": 1005, "unitName": "G"}},
						{"amount": 33.1, "nutrient": {"id": 1004, "unitName": "G"}}
					]
				}
			]
		}`))
	}))
	defer server.Close()

	svc := NewUSDAService(usdaTestConfig(server.URL), nil)

	foods, err := svc.Search(context.Background(), "cheddar", 10)
	require.NoError(t, err)
	require.Len(t, foods, 1)

	food := foods[0]
	assert.Equal(t, "173414", food.FdcID)
	assert.Equal(t, "Cheese, cheddar", food.Name)
	assert.Equal(t, 24.9, food.ProteinPer100g)
	assert.Equal(t, 403.0, food.CaloriesPer100g)
	assert.Equal(t, 1.3, food.CarbsPer100g)
	assert.Equal(t, 33.1, food.FatPer100g)
	assert.Zero(t, food.FiberPer100g)
}

func TestSearchEnforcesExpectedUnits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"foods": [
				{
					"fdcId": 1,
					"description": "Mystery Bar",
					"foodNutrients": [
						{"amount": 20, "nutrient": {"id": 1003, "unitName": "MG"}},
						{"amount": 1500, "nutrient": {"id": 1008, "unitName": "kJ"}},
						{"amount": -3, "nutrient": {"id": 1004, "unitName": "G"}},
						{"amount": 5, "nutrient": {"id": 1079, "unitName": "g"}}
					]
				}
			]
		}`))
	}))
	defer server.Close()

	svc := NewUSDAService(usdaTestConfig(server.URL), nil)

	foods, err := svc.Search(context.Background(), "mystery", 10)
	require.NoError(t, err)
	require.Len(t, foods, 1)

	// Wrong units and negative amounts count as absent; a lowercase "g"
	// still matches.
	food := foods[0]
	assert.Zero(t, food.ProteinPer100g)
	assert.Zero(t, food.CaloriesPer100g)
	assert.Zero(t, food.FatPer100g)
	assert.Equal(t, 5.0, food.FiberPer100g)
}

func TestSearchDropsUnusableRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"foods": [
				{"fdcId": 0, "description": "No identifier"},
				{"fdcId": 2, "description": "   "},
				{"fdcId": 3, "description": "Keeper"}
			]
		}`))
	}))
	defer server.Close()

	svc := NewUSDAService(usdaTestConfig(server.URL), nil)

	foods, err := svc.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Keeper", foods[0].Name)
}

func TestSearchTruncatesLongNames(t *testing.T) {
	longName := strings.Repeat("x", 250)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods": [{"fdcId": 9, "description": "` + longName + `"}]}`))
	}))
	defer server.Close()

	svc := NewUSDAService(usdaTestConfig(server.URL), nil)

	foods, err := svc.Search(context.Background(), "long", 10)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Len(t, foods[0].Name, 200)
}

func TestSearchShortTermSkipsNetwork(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	svc := NewUSDAService(usdaTestConfig(server.URL), nil)

	foods, err := svc.Search(context.Background(), " a ", 10)
	require.NoError(t, err)
	assert.Empty(t, foods)
	assert.False(t, called)
}

func TestSearchSurfacesUpstreamErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limit exceeded"}`))
	}))
	defer server.Close()

	svc := NewUSDAService(usdaTestConfig(server.URL), nil)

	_, err := svc.Search(context.Background(), "chicken", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/food/171477", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"fdcId": 171477,
			"description": "Chicken breast, roasted",
			"foodNutrients": [
				{"amount": 31, "nutrient": {"id": 1003, "unitName": "G"}},
				{"amount": 165, "nutrient": {"id": 1008, "unitName": "KCAL"}}
			]
		}`))
	}))
	defer server.Close()

	svc := NewUSDAService(usdaTestConfig(server.URL), nil)

	food, err := svc.Fetch(context.Background(), "171477")
	require.NoError(t, err)
	require.NotNil(t, food)
	assert.Equal(t, "171477", food.FdcID)
	assert.Equal(t, 31.0, food.ProteinPer100g)
	assert.Equal(t, 165.0, food.CaloriesPer100g)
}

func TestSearchTruncatesMultiByteNamesCleanly(t *testing.T) {
	// 250 two-byte runes; cutting at a byte offset would split a rune.
	longName := strings.Repeat("é", 250)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"foods": [{"fdcId": 9, "description": "` + longName + `"}]}`))
	}))
	defer server.Close()

	svc := NewUSDAService(usdaTestConfig(server.URL), nil)

	foods, err := svc.Search(context.Background(), "long", 10)
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.True(t, utf8.ValidString(foods[0].Name))
	assert.Equal(t, 200, utf8.RuneCountInString(foods[0].Name))
	assert.Equal(t, strings.Repeat("é", 200), foods[0].Name)
}
