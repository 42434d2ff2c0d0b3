package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/proteintrack/backend/internal/service"
)

type FoodHandler struct {
	catalogService *service.CatalogService
}

func NewFoodHandler(catalogService *service.CatalogService) *FoodHandler {
	return &FoodHandler{catalogService: catalogService}
}

// RegisterRoutes wires the food routes. Any extra middleware is applied to
// search only, which is the route that can reach the external nutrition API.
func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup, searchMiddleware ...gin.HandlerFunc) {
	foods := router.Group("/foods")
	{
		foods.GET("/search", append(searchMiddleware, h.Search)...)
		foods.GET("/:id", h.Get)
	}
}

// Search looks up foods by name, backfilling from the nutrition source
// when the local catalog comes up short.
func (h *FoodHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if len(term) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search term must be at least 2 characters"})
		return
	}

	foods, err := h.catalogService.Search(c.Request.Context(), term)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

func (h *FoodHandler) Get(c *gin.Context) {
	food, err := h.catalogService.Get(c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusOK, food)
}
