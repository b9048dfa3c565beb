package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/nocturnelux/storefront/config"
	"github.com/nocturnelux/storefront/models"
	"github.com/nocturnelux/storefront/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))

	prev := config.DB
	config.DB = db
	t.Cleanup(func() {
		config.DB = prev
		sqlDB.Close()
	})
	return db
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", mw, func(c *gin.Context) {
		if s, ok := utils.CurrentSession(c); ok {
			c.JSON(http.StatusOK, s)
			return
		}
		c.JSON(http.StatusOK, gin.H{"admin": true})
	})
	return r
}

func call(r *gin.Engine, token string) (int, utils.StandardResponse, []byte) {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp utils.StandardResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp, w.Body.Bytes()
}

func TestUserAuthMiddleware(t *testing.T) {
	db := setupTestDB(t)
	user := models.User{GoogleID: "g-1", Email: "raven@example.com", Name: "Raven"}
	require.NoError(t, db.Create(&user).Error)
	r := newRouter(UserAuthMiddleware(testSecret))

	code, resp, _ := call(r, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Please sign in to continue", resp.Message)

	code, resp, _ = call(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", resp.Message)

	wrongKey, err := utils.GenerateUserToken("other-secret", user.ID, user.Email)
	require.NoError(t, err)
	code, _, _ = call(r, wrongKey)
	assert.Equal(t, http.StatusUnauthorized, code)

	ghost, err := utils.GenerateUserToken(testSecret, "missing-user", "ghost@example.com")
	require.NoError(t, err)
	code, _, _ = call(r, ghost)
	assert.Equal(t, http.StatusUnauthorized, code)

	token, err := utils.GenerateUserToken(testSecret, user.ID, user.Email)
	require.NoError(t, err)
	code, _, body := call(r, token)
	require.Equal(t, http.StatusOK, code)
	var sess utils.Session
	require.NoError(t, json.Unmarshal(body, &sess))
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, "Raven", sess.Name)
}

func TestUserAuthRejectsExpiredToken(t *testing.T) {
	setupTestDB(t)
	r := newRouter(UserAuthMiddleware(testSecret))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	token, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	code, resp, _ := call(r, token)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", resp.Message)
}

func TestAdminAuthMiddleware(t *testing.T) {
	db := setupTestDB(t)
	admin := models.Admin{Username: "curator", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&admin).Error)
	r := newRouter(AdminAuthMiddleware(testSecret))

	code, resp, _ := call(r, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "No token provided", resp.Message)

	userToken, err := utils.GenerateUserToken(testSecret, "u1", "raven@example.com")
	require.NoError(t, err)
	code, resp, _ = call(r, userToken)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not authorized", resp.Message)

	token, err := utils.GenerateAdminToken(testSecret, admin.ID, admin.Username)
	require.NoError(t, err)
	code, _, _ = call(r, token)
	assert.Equal(t, http.StatusOK, code)

	require.NoError(t, db.Create(&models.BlacklistedToken{Token: token, ExpiresAt: time.Now().Add(time.Hour)}).Error)
	code, resp, _ = call(r, token)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", resp.Message)
}

func TestAdminAuthRejectsInactiveAdmin(t *testing.T) {
	db := setupTestDB(t)
	admin := models.Admin{Username: "retired", Password: "x", IsActive: false}
	require.NoError(t, db.Create(&admin).Error)
	r := newRouter(AdminAuthMiddleware(testSecret))

	token, err := utils.GenerateAdminToken(testSecret, admin.ID, admin.Username)
	require.NoError(t, err)
	code, resp, _ := call(r, token)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin account is inactive", resp.Message)
}

func TestAuthMiddlewareDatabaseFailure(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	userToken, err := utils.GenerateUserToken(testSecret, "u1", "raven@example.com")
	require.NoError(t, err)
	code, resp, _ := call(newRouter(UserAuthMiddleware(testSecret)), userToken)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", resp.Message)

	adminToken, err := utils.GenerateAdminToken(testSecret, 1, "curator")
	require.NoError(t, err)
	code, resp, _ = call(newRouter(AdminAuthMiddleware(testSecret)), adminToken)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestBearerToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for header, want := range map[string]string{
		"Bearer abc":   "abc",
		"Bearer   ":    "",
		"Basic abc":    "",
		"":             "",
		"Bearer a.b.c": "a.b.c",
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set("Authorization", header)
		got, ok := BearerToken(c)
		assert.Equal(t, want, got, header)
		assert.Equal(t, want != "", ok, header)
	}
}
