package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"gorm.io/gorm"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateKey     = "oauth_state"
)

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleLogin redirects to Google's consent screen.
func GoogleLogin(c *gin.Context) {
	if config.GoogleOAuthConfig == nil {
		utils.ServiceUnavailable(c, "Google sign-in not configured")
		return
	}
	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set(oauthStateKey, state)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save oauth state: %v", err)
		utils.InternalServerError(c, "Failed to start sign-in", nil)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, config.GoogleOAuthConfig.AuthCodeURL(state))
}

func GoogleCallback(c *gin.Context) {
	if config.GoogleOAuthConfig == nil {
		utils.ServiceUnavailable(c, "Google sign-in not configured")
		return
	}
	session := sessions.Default(c)
	expected, _ := session.Get(oauthStateKey).(string)
	session.Delete(oauthStateKey)
	_ = session.Save()
	if expected == "" || c.Query("state") != expected {
		utils.BadRequest(c, "Invalid OAuth state", nil)
		return
	}
	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "No code provided", nil)
		return
	}

	token, err := config.GoogleOAuthConfig.Exchange(c.Request.Context(), code)
	if err != nil {
		utils.LogError("Google token exchange failed: %v", err)
		utils.Unauthorized(c, "Failed to exchange token")
		return
	}
	resp, err := config.GoogleOAuthConfig.Client(c.Request.Context(), token).Get(googleUserInfoURL)
	if err != nil {
		utils.LogError("Failed to fetch Google user info: %v", err)
		utils.InternalServerError(c, "Failed to get user info", nil)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		utils.LogError("Google user info returned %d", resp.StatusCode)
		utils.InternalServerError(c, "Failed to get user info", nil)
		return
	}
	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		utils.LogError("Failed to parse Google user info: %v", err)
		utils.InternalServerError(c, "Failed to parse user info", nil)
		return
	}

	user, err := upsertGoogleUser(config.DB, info)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	jwtToken, err := utils.GenerateUserToken(config.AppConfig.JWTSecret, user.ID, user.Email)
	if err != nil {
		utils.LogError("Failed to sign user token: %v", err)
		utils.InternalServerError(c, "Failed to generate token", nil)
		return
	}

	utils.LogInfo("User %s signed in with Google", user.Email)
	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s?token=%s", config.AppConfig.Frontend, url.QueryEscape(jwtToken)))
}

// upsertGoogleUser finds the user by email, refreshing the profile fields
// Google reports, or creates them.
func upsertGoogleUser(db *gorm.DB, info GoogleUserInfo) (*models.User, error) {
	now := Now()
	var user models.User
	err := db.Where("email = ?", info.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			GoogleID:  info.ID,
			Email:     info.Email,
			Name:      info.Name,
			PhotoURL:  info.Picture,
			LastLogin: now,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return &user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	err = db.Model(&user).Updates(map[string]interface{}{
		"google_id":  info.ID,
		"name":       info.Name,
		"photo_url":  info.Picture,
		"last_login": now,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	user.GoogleID, user.Name, user.PhotoURL, user.LastLogin = info.ID, info.Name, info.Picture, now
	return &user, nil
}

// GetMe returns the signed-in shopper's session.
func GetMe(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	utils.Success(c, "User retrieved successfully", sess)
}
