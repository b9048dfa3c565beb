package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/controllers"
	"github.com/nocturnelux/storefront/middleware"
)

// initAdminRoutes registers admin login and every bearer-protected admin route
func initAdminRoutes(api *gin.RouterGroup, cfg *config.Config, limiter *middleware.RateLimiter) {
	requireAdmin := middleware.AdminAuthMiddleware(cfg.JWTSecret)

	admin := api.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", middleware.RateLimitMiddleware(limiter), controllers.AdminLogin)

		// Protected admin routes
		protected := admin.Group("", requireAdmin)
		{
			protected.POST("/logout", controllers.AdminLogout)

			protected.GET("/analytics", controllers.GetAnalytics)
			protected.GET("/analytics/export", controllers.ExportAnalytics)

			protected.GET("/coupons", controllers.ListCoupons)
			protected.POST("/coupons", controllers.CreateCoupon)
			protected.PUT("/coupons/:id", controllers.UpdateCoupon)
			protected.DELETE("/coupons/:id", controllers.DeleteCoupon)

			protected.GET("/orders", controllers.AdminListOrders)
		}
	}

	// Catalog writes share the public product paths
	api.POST("/products", requireAdmin, controllers.CreateProduct)
	api.PUT("/products/:id", requireAdmin, controllers.UpdateProduct)
	api.DELETE("/products/:id", requireAdmin, controllers.DeleteProduct)

	api.PATCH("/orders/:id/status", requireAdmin, controllers.UpdateOrderStatus)

	upload := api.Group("/upload", requireAdmin)
	{
		upload.POST("", controllers.UploadImage)
		upload.DELETE("/*publicId", controllers.DeleteImage)
	}
}
