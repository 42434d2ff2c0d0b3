package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proteintrack/backend/internal/api"
	"github.com/proteintrack/backend/internal/models"
	"github.com/proteintrack/backend/internal/router"
	"github.com/proteintrack/backend/internal/service"
	"github.com/proteintrack/backend/internal/testhelpers"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *service.CatalogService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)

	authService := service.NewAuthService(db, "test-secret")
	profileService := service.NewProfileService(db)
	catalogService := service.NewCatalogService(db, nil, 5)
	intakeService := service.NewIntakeService(db, profileService)
	favoriteService := service.NewFavoriteService(db)
	photoService := service.NewPhotoService(db, nil)

	handlers := router.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Food:     api.NewFoodHandler(catalogService),
		Profile:  api.NewProfileHandler(profileService),
		Intake:   api.NewIntakeHandler(intakeService, photoService),
		Favorite: api.NewFavoriteHandler(favoriteService, intakeService),
	}

	return router.SetupRouter(handlers, authService, nil, db), catalogService
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(r, "POST", "/api/v1/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupTestRouter(t)

	registerUser(t, r, "alex@example.com")

	w := doJSON(r, "POST", "/api/v1/auth/register", "", gin.H{
		"name":     "Dup",
		"email":    "alex@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    "alex@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "POST", "/api/v1/auth/login", "", gin.H{
		"email":    "alex@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, "GET", "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "GET", "/api/v1/intake/2026-08-29", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogEntryFlow(t *testing.T) {
	r, catalog := setupTestRouter(t)
	token := registerUser(t, r, "alex@example.com")

	food, _, err := catalog.Upsert(service.NormalizedFood{
		FdcID:           "171477",
		Name:            "Chicken Breast",
		ProteinPer100g:  20,
		CaloriesPer100g: 100,
	})
	require.NoError(t, err)

	w := doJSON(r, "POST", "/api/v1/entries", token, gin.H{
		"food_item_id": food.ID.String(),
		"amount_grams": 150,
		"meal_type":    "lunch",
		"date":         "2026-08-29",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry models.FoodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, 30.0, entry.ProteinConsumed)

	w = doJSON(r, "GET", "/api/v1/intake/2026-08-29", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var day service.DaySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Equal(t, 30.0, day.TotalProtein)
	assert.Len(t, day.Entries, 1)

	w = doJSON(r, "DELETE", "/api/v1/entries/"+entry.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, "DELETE", "/api/v1/entries/"+entry.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteQuickLog(t *testing.T) {
	r, catalog := setupTestRouter(t)
	token := registerUser(t, r, "alex@example.com")

	food, _, err := catalog.Upsert(service.NormalizedFood{
		FdcID:           "170903",
		Name:            "Greek Yogurt",
		ProteinPer100g:  10,
		CaloriesPer100g: 59,
	})
	require.NoError(t, err)

	w := doJSON(r, "POST", "/api/v1/favorites", token, gin.H{
		"food_item_id":   food.ID.String(),
		"default_amount": 170,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var fav models.FavoriteFood
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fav))

	// Quick-log with no body uses the favorite's default amount.
	w = doJSON(r, "POST", fmt.Sprintf("/api/v1/favorites/%s/log", fav.ID), token, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry models.FoodEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, 170.0, entry.AmountGrams)
	assert.Equal(t, 17.0, entry.ProteinConsumed)

	w = doJSON(r, "GET", "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Favorites []models.FavoriteFood `json:"favorites"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Favorites, 1)
}

func TestFoodSearchValidation(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := registerUser(t, r, "alex@example.com")

	w := doJSON(r, "GET", "/api/v1/foods/search?q=a", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, "GET", "/api/v1/foods/search?q=chicken", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfileUpdateFlow(t *testing.T) {
	r, _ := setupTestRouter(t)
	token := registerUser(t, r, "alex@example.com")

	w := doJSON(r, "PUT", "/api/v1/profile", token, gin.H{
		"daily_protein_goal": 130,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var profile models.UserProfile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, 130.0, profile.DailyProteinGoal)

	w = doJSON(r, "PUT", "/api/v1/profile", token, gin.H{
		"daily_protein_goal": 9000,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
