package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/proteintrack/backend/internal/api"
	"github.com/proteintrack/backend/internal/database"
	"github.com/proteintrack/backend/internal/middleware"
	"github.com/proteintrack/backend/internal/service"
)

// Handlers bundles the API handlers the router wires up.
type Handlers struct {
	Auth     *api.AuthHandler
	Food     *api.FoodHandler
	Profile  *api.ProfileHandler
	Intake   *api.IntakeHandler
	Favorite *api.FavoriteHandler
}

// SetupRouter configures the application routes. The redis client may be nil,
// in which case food search runs without a rate limit.
func SetupRouter(h Handlers, authService *service.AuthService, redisClient *redis.Client, db *gorm.DB) *gin.Engine {
	router := gin.Default()

	// CORS middleware
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Auth routes
	h.Auth.RegisterRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		// Food search carries a rate limit to protect the upstream
		// nutrition API quota.
		var searchMiddleware []gin.HandlerFunc
		if redisClient != nil {
			limiter := middleware.NewFoodSearchRateLimiter(redisClient)
			searchMiddleware = append(searchMiddleware, limiter.RateLimitMiddleware())
		}
		h.Food.RegisterRoutes(protected, searchMiddleware...)

		h.Profile.RegisterRoutes(protected)
		h.Intake.RegisterRoutes(protected)
		h.Favorite.RegisterRoutes(protected)
	}

	return router
}
