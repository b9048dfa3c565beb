package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/controllers"
	"github.com/nocturnelux/storefront/middleware"
	"github.com/nocturnelux/storefront/utils"
	"github.com/redis/go-redis/v9"
)

// SetupRouter initializes and returns the Gin router with all routes.
// rdb may be nil, in which case rate limiting is off.
func SetupRouter(cfg *config.Config, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := utils.RegisterValidators(); err != nil {
		utils.LogError("Failed to register validators: %v", err)
	}

	router := gin.New()
	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware(cfg.Frontend))
	router.Use(utils.SecurityHeadersMiddleware())

	// Cookie session only carries the OAuth state between login and callback
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   10 * 60,
		Path:     "/",
		Secure:   cfg.Env == "production",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("nocturnelux", store))

	router.GET("/healthz", controllers.Healthz)

	auth := router.Group("/auth")
	{
		auth.GET("/google/login", controllers.GoogleLogin)
		auth.GET("/google/callback", controllers.GoogleCallback)
	}

	limiter := middleware.NewRateLimiter(rdb, "ratelimit:", cfg.RateLimitPerMinute, time.Minute)

	api := router.Group("/api")
	{
		initUserRoutes(api, cfg, limiter)
		initAdminRoutes(api, cfg, limiter)
	}

	router.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "Route not found")
	})
	return router
}
