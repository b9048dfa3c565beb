package controllers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"gorm.io/gorm"
)

// AdminLoginRequest represents the admin login request
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLogin handles admin authentication
func AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if !utils.BindJSON(c, &req) {
		return
	}
	username := strings.TrimSpace(req.Username)
	utils.LogDebug("Processing admin login for %s", username)

	var admin models.Admin
	if err := config.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, err)
			return
		}
		utils.LogError("Admin login for unknown username %s", username)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}
	if !utils.CheckPassword(req.Password, admin.Password) {
		utils.LogError("Invalid password for admin %s", username)
		utils.Unauthorized(c, "Invalid credentials")
		return
	}
	if !admin.IsActive {
		utils.LogError("Inactive admin account attempted login: %s", username)
		utils.Forbidden(c, "Admin account is inactive")
		return
	}

	now := Now()
	if err := config.DB.Model(&admin).Update("last_login", now).Error; err != nil {
		utils.LogError("Failed to update last login for admin %s: %v", username, err)
	}
	admin.LastLogin = &now

	token, err := utils.GenerateAdminToken(config.AppConfig.JWTSecret, admin.ID, admin.Username)
	if err != nil {
		utils.LogError("Failed to sign admin token for %s: %v", username, err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("Admin login successful: %s", username)
	utils.Success(c, "Login successful", gin.H{
		"token":     token,
		"expiresIn": int(utils.TokenTTL.Seconds()),
		"admin":     admin,
	})
}

// AdminLogout revokes the presented token until it would have expired.
func AdminLogout(c *gin.Context) {
	token := c.GetString("adminToken")
	expiresAt := time.Now().Add(utils.TokenTTL)
	if claims, ok := c.Get("adminClaims"); ok {
		if mc, ok := claims.(jwt.MapClaims); ok {
			expiresAt = utils.TokenExpiry(mc)
		}
	}

	if token != "" {
		revoked := models.BlacklistedToken{Token: token, ExpiresAt: expiresAt}
		if err := config.DB.Where(models.BlacklistedToken{Token: token}).FirstOrCreate(&revoked).Error; err != nil {
			utils.LogError("Failed to blacklist admin token: %v", err)
			utils.InternalServerError(c, "Failed to log out", nil)
			return
		}
	}
	utils.LogInfo("Admin logged out")
	utils.Success(c, "Logged out successfully", nil)
}

// SeedAdmin makes sure an active admin with the given credentials exists.
// An existing admin keeps its password.
func SeedAdmin(db *gorm.DB, username, password string) error {
	if username == "" || password == "" {
		utils.LogInfo("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}
	var count int64
	if err := db.Model(&models.Admin{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.Admin{Username: username, Password: hashed, IsActive: true}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.LogInfo("Seeded admin account %s", username)
	return nil
}
