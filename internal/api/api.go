package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Dependencies are the services the handlers are built from. The rate limiters are
// optional; nil disables limiting.
type Dependencies struct {
	DB        *gorm.DB
	Auth      service.IAuthService
	Users     service.IUserService
	Recipes   service.IRecipeService
	Relations service.IRelationService
	Shopping  service.IShoppingService
	Catalog   service.ICatalogService
	Flags     service.IFlagService

	RecipeWriteLimiter *middleware.RateLimiter
	RelationLimiter    *middleware.RateLimiter
}

// NewDependencies wires the database-backed services. redisClient may be nil.
func NewDependencies(db *gorm.DB, jwtSecret string, images service.ImageStore, redisClient *redis.Client) Dependencies {
	deps := Dependencies{
		DB:        db,
		Auth:      service.NewAuthService(db, jwtSecret),
		Users:     service.NewUserService(db),
		Recipes:   service.NewRecipeService(db, images),
		Relations: service.NewRelationService(db),
		Shopping:  service.NewShoppingService(db),
		Catalog:   service.NewCatalogService(db),
		Flags:     service.NewFlagService(db),
	}
	if redisClient != nil {
		deps.RecipeWriteLimiter = middleware.NewRecipeWriteRateLimiter(redisClient)
		deps.RelationLimiter = middleware.NewRelationRateLimiter(redisClient)
	}
	return deps
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", HealthCheck(deps.DB))
	router.GET("/api/health", HealthCheck(deps.DB))

	presenter := NewPresenter(deps.Flags, deps.Recipes)

	v := router.Group("/api")
	v.Use(middleware.AuthMiddleware(deps.Auth))

	NewAuthHandler(deps.Auth).RegisterRoutes(v)
	NewUserHandler(deps.Auth, deps.Users, deps.Relations, presenter, deps.RelationLimiter).RegisterRoutes(v)
	NewRecipeHandler(deps.Recipes, deps.Relations, deps.Shopping, presenter, deps.RecipeWriteLimiter, deps.RelationLimiter).RegisterRoutes(v)
	NewCatalogHandler(deps.Catalog).RegisterRoutes(v)
}

// HealthCheck returns the health status of the API
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// limited returns the limiter's middleware, or nothing when limiting is off.
func limited(rl *middleware.RateLimiter) []gin.HandlerFunc {
	if rl == nil {
		return nil
	}
	return []gin.HandlerFunc{rl.Middleware()}
}
