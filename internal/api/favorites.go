package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proteintrack/backend/internal/models"
	"github.com/proteintrack/backend/internal/service"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
	intakeService   *service.IntakeService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService, intakeService *service.IntakeService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
		intakeService:   intakeService,
	}
}

func (h *FavoriteHandler) RegisterRoutes(router *gin.RouterGroup) {
	favorites := router.Group("/favorites")
	{
		favorites.POST("", h.Add)
		favorites.GET("", h.List)
		favorites.DELETE("/:id", h.Remove)
		favorites.POST("/:id/log", h.Log)
	}
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	foodItemID, err := uuid.Parse(req.FoodItemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food item ID"})
		return
	}

	favorite, err := h.favoriteService.Add(c.Request.Context(), userID, foodItemID, req.DefaultAmount)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, favorite)
}

func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favorites, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favoriteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid favorite ID"})
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID, favoriteID); err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}

// Log records a consumption event from a favorite, filling in the favorite's
// default amount and today's date when the request omits them.
func (h *FavoriteHandler) Log(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favoriteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid favorite ID"})
		return
	}

	var req LogFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	favorite, err := h.favoriteService.Get(c.Request.Context(), userID, favoriteID)
	if err != nil {
		serviceError(c, err)
		return
	}

	amount := req.AmountGrams
	if amount == 0 {
		amount = favorite.DefaultAmount
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format(models.DateLayout)
	}

	entry, err := h.intakeService.LogEntry(c.Request.Context(), userID, favorite.FoodItemID, amount, req.MealType, date)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}
