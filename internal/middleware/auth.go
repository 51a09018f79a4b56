package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"photoproof-backend/internal/auth"
	"photoproof-backend/internal/models"
	"photoproof-backend/internal/repository"
)

const (
	UserIDKey = "user_id"
	UserKey   = "user"
)

// AuthMiddleware validates the Bearer access token and loads the owner row
// into the request context. Requests without a valid token never reach the
// handler.
func AuthMiddleware(tokens *auth.TokenManager, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization header"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "empty token"})
			c.Abort()
			return
		}

		userID, err := tokens.ParseAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "invalid token",
				Message: err.Error(),
			})
			c.Abort()
			return
		}

		user, err := repository.GetUserByID(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to load user"})
			c.Abort()
			return
		}
		if user == nil {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unknown user"})
			c.Abort()
			return
		}

		c.Set(UserIDKey, user.ID.String())
		c.Set(UserKey, user)
		c.Next()
	}
}
