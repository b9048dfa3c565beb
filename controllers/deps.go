package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/cache"
	"github.com/nocturnelux/storefront/payments"
	"github.com/nocturnelux/storefront/utils"
)

// Collaborators wired by main. Nil values mean the integration is not configured.
var (
	PaymentGateway payments.Gateway
	ImageHost      utils.ImageHost
	CatalogCache   *cache.Cache
)

// Now is the clock used for coupon windows and analytics.
var Now = time.Now

// requireSession returns the signed-in shopper or answers 401.
func requireSession(c *gin.Context) (utils.Session, bool) {
	sess, ok := utils.CurrentSession(c)
	if !ok {
		utils.Unauthorized(c, "Please sign in to continue")
		return utils.Session{}, false
	}
	return sess, true
}
