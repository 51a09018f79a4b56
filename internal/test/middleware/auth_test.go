package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"photoproof-backend/internal/auth"
	"photoproof-backend/internal/middleware"
	"photoproof-backend/internal/repository"
	"photoproof-backend/internal/test/testutil"
)

func newTestRouter(tokens *auth.TokenManager, db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(tokens, db))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	db := testutil.OpenDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Minute, time.Hour)
	router := newTestRouter(tokens, db)

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	db := testutil.OpenDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Minute, time.Hour)
	router := newTestRouter(tokens, db)

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	db := testutil.OpenDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Minute, time.Hour)
	user, err := repository.CreateUser(db, "google-uid", "owner@example.com", "Owner")
	require.NoError(t, err)

	refresh, err := tokens.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	router := newTestRouter(tokens, db)
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	db := testutil.OpenDB(t)
	tokens := auth.NewTokenManager("test-secret", time.Minute, time.Hour)

	// Valid signature, but no matching user row.
	access, err := tokens.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	router := newTestRouter(tokens, db)
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	db := testutil.OpenDB(t)
	tokens := auth.NewTokenManager("test-secret-key-for-jwt-signing-must-be-long-enough", time.Minute, time.Hour)
	user, err := repository.CreateUser(db, "google-uid", "owner@example.com", "Owner")
	require.NoError(t, err)

	access, err := tokens.IssueAccessToken(user.ID)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.AuthMiddleware(tokens, db))
	router.GET("/test", func(c *gin.Context) {
		userID, exists := c.Get(middleware.UserIDKey)
		assert.True(t, exists)
		assert.Equal(t, user.ID.String(), userID)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
