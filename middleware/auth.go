package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"gorm.io/gorm"
)

var (
	errSignInRequired = utils.UnauthorizedError("Please sign in to continue", nil)
	errNoToken        = utils.UnauthorizedError("No token provided", nil)
	errInvalidToken   = utils.UnauthorizedError("Invalid token", nil)
	errNotAdmin       = utils.ForbiddenError("Not authorized", nil)
	errAdminInactive  = utils.ForbiddenError("Admin account is inactive", nil)
)

// BearerToken extracts the token from an "Authorization: Bearer ..." header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// UserAuthMiddleware resolves the shopper behind a user token and attaches
// their session to the request.
func UserAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c)
		if !ok {
			utils.RespondError(c, errSignInRequired)
			return
		}
		user, err := authenticateUser(secret, tokenString)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		utils.SetSession(c, utils.Session{
			UserID:   user.ID,
			Email:    user.Email,
			Name:     user.Name,
			PhotoURL: user.PhotoURL,
		})
		c.Next()
	}
}

func authenticateUser(secret, tokenString string) (*models.User, error) {
	claims, err := utils.ParseToken(secret, tokenString)
	if err != nil {
		utils.LogDebug("Invalid user token: %v", err)
		return nil, errInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, errInvalidToken
	}

	var user models.User
	if err := config.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.LogError("Token for unknown user %s", userID)
			return nil, errInvalidToken
		}
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	return &user, nil
}

// AdminAuthMiddleware admits requests carrying a valid, unrevoked admin token.
func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c)
		if !ok {
			utils.LogDebug("Admin request without bearer token: %s", c.Request.URL.Path)
			utils.RespondError(c, errNoToken)
			return
		}
		admin, claims, err := authenticateAdmin(secret, tokenString)
		if err != nil {
			if errors.Is(err, errNotAdmin) {
				utils.LogError("Token without admin role on %s", c.Request.URL.Path)
			}
			utils.RespondError(c, err)
			return
		}

		c.Set("admin", *admin)
		c.Set("adminToken", tokenString)
		c.Set("adminClaims", claims)
		c.Next()
	}
}

func authenticateAdmin(secret, tokenString string) (*models.Admin, jwt.MapClaims, error) {
	claims, err := utils.ParseToken(secret, tokenString)
	if err != nil {
		utils.LogError("Invalid admin token: %v", err)
		return nil, nil, errInvalidToken
	}

	var revoked int64
	if err := config.DB.Model(&models.BlacklistedToken{}).Where("token = ?", tokenString).Count(&revoked).Error; err != nil {
		return nil, nil, fmt.Errorf("check token blacklist: %w", err)
	}
	if revoked > 0 {
		utils.LogInfo("Revoked admin token presented")
		return nil, nil, errInvalidToken
	}

	if role, _ := claims["role"].(string); role != utils.RoleAdmin {
		return nil, nil, errNotAdmin
	}

	adminID, ok := claims["admin_id"].(float64)
	if !ok {
		return nil, nil, errInvalidToken
	}
	var admin models.Admin
	if err := config.DB.First(&admin, uint(adminID)).Error; err != nil {
		utils.LogError("Admin %d not found: %v", uint(adminID), err)
		return nil, nil, errInvalidToken
	}
	if !admin.IsActive {
		utils.LogError("Inactive admin attempted access: %d", admin.ID)
		return nil, nil, errAdminInactive
	}
	return &admin, claims, nil
}
