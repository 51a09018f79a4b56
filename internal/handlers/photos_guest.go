package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photoproof-backend/internal/models"
	"photoproof-backend/internal/services"
)

// PhotosGuestHandler serves the token-holder endpoints. GETs carry the token
// (and optional password) in query parameters; POSTs carry them in the body.
type PhotosGuestHandler struct {
	guestService *services.GuestService
}

func NewPhotosGuestHandler(guestService *services.GuestService) *PhotosGuestHandler {
	return &PhotosGuestHandler{guestService: guestService}
}

func guestCredentials(c *gin.Context) (token, password string, ok bool) {
	token = c.Query("project_token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing project token"})
		return "", "", false
	}
	return token, c.Query("password"), true
}

// GetPhotoImage godoc
// @Summary     Stream a photo rendition to a token holder
// @Tags        photos-guest
// @Produce     image/jpeg
// @Param       photo_id path string true "Photo ID (UUID)"
// @Param       project_token query string true "Guest access token"
// @Param       password query string false "Token password if set"
// @Param       version query string false "original or edited" default(original)
// @Param       width query int false "Target width"
// @Param       height query int false "Target height"
// @Param       is_thumbnail query bool false "WebP thumbnail"
// @Success     200 {file} binary
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos-guest/{photo_id} [get]
func (h *PhotosGuestHandler) GetPhotoImage(c *gin.Context) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}
	token, password, ok := guestCredentials(c)
	if !ok {
		return
	}

	version := c.DefaultQuery("version", models.VersionOriginal)
	width, _ := strconv.Atoi(c.Query("width"))
	height, _ := strconv.Atoi(c.Query("height"))
	thumbnail, _ := strconv.ParseBool(c.Query("is_thumbnail"))

	image, err := h.guestService.GetPhotoImageGuest(c.Request.Context(), photoID, token, password, version, width, height, thumbnail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", image.Filename))
	c.Data(http.StatusOK, image.ContentType, image.Data)
}

// ListPhotos godoc
// @Summary     List the token's project photos
// @Description Paginated listing scoped to the session's project, with a per-photo edited_version flag
// @Tags        photos-guest
// @Produce     json
// @Param       project_token query string true "Guest access token"
// @Param       password query string false "Token password if set"
// @Param       skip query int false "Offset"
// @Param       limit query int false "Page size (max 100)"
// @Param       is_selected query bool false "Selection filter"
// @Success     200 {object} models.PhotoListResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /photos-guest [get]
func (h *PhotosGuestHandler) ListPhotos(c *gin.Context) {
	token, password, ok := guestCredentials(c)
	if !ok {
		return
	}

	p := queryPagination(c)
	photos, total, err := h.guestService.GetProjectPhotosGuest(token, password, p, querySelectedFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PhotoListResponse{
		Photos: photos,
		Meta:   models.NewPaginationMeta(p, total),
	})
}

// GetPhotoMeta godoc
// @Summary     Get a photo with all comments
// @Tags        photos-guest
// @Produce     json
// @Param       photo_id path string true "Photo ID (UUID)"
// @Param       project_token query string true "Guest access token"
// @Param       password query string false "Token password if set"
// @Success     200 {object} models.PhotoMetaResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos-guest/{photo_id}/meta [get]
func (h *PhotosGuestHandler) GetPhotoMeta(c *gin.Context) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}
	token, password, ok := guestCredentials(c)
	if !ok {
		return
	}

	meta, err := h.guestService.GetPhotoMetaByIDGuest(photoID, token, password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, meta)
}

// SelectPhoto godoc
// @Summary     Mark a photo as selected
// @Description Flips is_selected and optionally records a comment, atomically
// @Tags        photos-guest
// @Accept      json
// @Produce     json
// @Param       photo_id path string true "Photo ID (UUID)"
// @Param       request body models.PhotoSelectRequest true "Token, optional password, optional comment"
// @Success     200 {object} map[string]bool
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos-guest/{photo_id}/select [post]
func (h *PhotosGuestHandler) SelectPhoto(c *gin.Context) {
	h.setSelection(c, true)
}

// UnselectPhoto godoc
// @Summary     Clear a photo's selection
// @Tags        photos-guest
// @Accept      json
// @Produce     json
// @Param       photo_id path string true "Photo ID (UUID)"
// @Param       request body models.PhotoSelectRequest true "Token, optional password, optional comment"
// @Success     200 {object} map[string]bool
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /photos-guest/{photo_id}/unselect [post]
func (h *PhotosGuestHandler) UnselectPhoto(c *gin.Context) {
	h.setSelection(c, false)
}

func (h *PhotosGuestHandler) setSelection(c *gin.Context, selected bool) {
	photoID, ok := pathUUID(c, "photo_id")
	if !ok {
		return
	}

	var req models.PhotoSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	var err error
	if selected {
		err = h.guestService.SelectPhoto(photoID, req.ProjectToken, req.Password, req.Comment)
	} else {
		err = h.guestService.UnselectPhoto(photoID, req.ProjectToken, req.Password, req.Comment)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
