// Package handlers contains the HTTP layer: request parsing, auth context
// extraction, and mapping service errors onto status codes.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"photoproof-backend/internal/middleware"
	"photoproof-backend/internal/models"
	"photoproof-backend/internal/services"
)

// respondError translates a service error into the matching status code.
// Unrecognized errors come back as a generic 500 without internal detail.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "forbidden"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "conflict", Message: err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation failed", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error"})
	}
}

// currentUserID pulls the authenticated owner's id out of the gin context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid user id"})
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a UUID path parameter, answering 400 itself on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// queryPagination reads skip/limit/sort_by/sort_dir query parameters.
func queryPagination(c *gin.Context) models.Pagination {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	p := models.DefaultPagination(skip, limit)
	p.SortBy = c.Query("sort_by")
	p.SortDir = c.Query("sort_dir")
	return p
}

// querySelectedFilter reads the optional is_selected query parameter.
func querySelectedFilter(c *gin.Context) *bool {
	raw, ok := c.GetQuery("is_selected")
	if !ok {
		return nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &val
}

func newSessionTokenResponse(session *models.ClientSession, project *models.ProjectResponse) models.SessionTokenResponse {
	return models.SessionTokenResponse{
		Token:         session.Token,
		ProjectID:     session.ProjectID.String(),
		ExpiresAt:     session.ExpiresAt,
		IsActive:      session.IsActive,
		HasPassword:   session.HasPassword(),
		CountAccesses: session.CountAccesses,
		Project:       project,
	}
}
