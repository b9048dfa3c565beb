package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/utils"
)

// Healthz reports whether the database answers a ping.
func Healthz(c *gin.Context) {
	sqlDB, err := config.DB.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		utils.LogError("Health check failed: %v", err)
		utils.ServiceUnavailable(c, "Database unavailable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
