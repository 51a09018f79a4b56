package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary     Login with a Google ID token
// @Description Exchanges a Google ID token for an access/refresh token pair. Creates the user on first login.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Google ID token"
// @Success     200 {object} models.LoginResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	user, pair, err := h.authService.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		User: models.OwnerInfo{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.Name,
		},
		Token: *pair,
	})
}

// Refresh godoc
// @Summary     Refresh the token pair
// @Description Exchanges a valid refresh token for a new access/refresh token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.RefreshRequest true "Refresh token"
// @Success     200 {object} models.LoginResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	user, pair, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{
		User: models.OwnerInfo{
			ID:    user.ID.String(),
			Email: user.Email,
			Name:  user.Name,
		},
		Token: *pair,
	})
}
