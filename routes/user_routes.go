package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/controllers"
	"github.com/nocturnelux/storefront/middleware"
)

// initUserRoutes registers the catalog and the shopper routes
func initUserRoutes(api *gin.RouterGroup, cfg *config.Config, limiter *middleware.RateLimiter) {
	requireUser := middleware.UserAuthMiddleware(cfg.JWTSecret)

	// Public catalog
	products := api.Group("/products")
	{
		products.GET("", controllers.GetProducts)
		products.GET("/featured", controllers.GetFeaturedProducts)
		products.GET("/category/:category", controllers.GetProductsByCategory)
		products.GET("/search/:query", controllers.SearchProducts)
		products.GET("/:id", controllers.GetProduct)
	}

	api.GET("/reviews/:productId", controllers.GetProductReviews)
	api.GET("/reviews/:productId/rating", controllers.GetProductRating)
	api.POST("/reviews", requireUser, controllers.CreateReview)

	api.POST("/coupons/validate", middleware.RateLimitMiddleware(limiter), controllers.ValidateCoupon)

	api.GET("/me", requireUser, controllers.GetMe)

	cart := api.Group("/cart", requireUser)
	{
		cart.GET("", controllers.GetCart)
		cart.POST("", controllers.AddToCart)
		cart.DELETE("", controllers.ClearCart)
		cart.PATCH("/:id", controllers.UpdateCartItem)
		cart.POST("/:id/increment", controllers.IncrementCartItem)
		cart.POST("/:id/decrement", controllers.DecrementCartItem)
		cart.DELETE("/:id", controllers.RemoveCartItem)
	}

	api.GET("/checkout/summary", requireUser, controllers.CheckoutSummary)

	api.GET("/orders", requireUser, controllers.GetMyOrders)
	api.POST("/orders", requireUser, controllers.PlaceOrder)
	api.GET("/order/:id", requireUser, controllers.GetMyOrder)
	api.GET("/order/:id/invoice", requireUser, controllers.DownloadInvoice)

	wishlist := api.Group("/wishlist", requireUser)
	{
		wishlist.GET("", controllers.GetWishlist)
		wishlist.POST("", controllers.AddToWishlist)
		wishlist.GET("/check/:productId", controllers.CheckWishlist)
		wishlist.DELETE("/product/:productId", controllers.RemoveWishlistProduct)
		wishlist.DELETE("/:id", controllers.RemoveWishlistItem)
	}

	payment := api.Group("/payment", requireUser)
	{
		payment.POST("/create-order", controllers.CreatePaymentOrder)
		payment.POST("/verify", controllers.VerifyPayment)
	}
}
